package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"hotelbot/internal/events"
	"hotelbot/internal/metrics"
	"hotelbot/internal/session"

	"github.com/rs/zerolog"
)

// EventPublisher decouples the auth layer from the event bus implementation.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// AuthInterceptor is the request/response hook pair guaranteeing every call
// is authenticated and resilient to exactly one expired-access-token
// condition. It is the only component allowed to mutate durable token
// storage or signal session expiry.
type AuthInterceptor struct {
	store      *session.Store
	refreshURL string
	httpClient *http.Client // dedicated, never intercepted
	bus        EventPublisher
	logger     zerolog.Logger

	// mu serializes refreshes so concurrently failing calls share one
	// refresh instead of racing.
	mu sync.Mutex
}

func NewAuthInterceptor(store *session.Store, baseURL string, bus EventPublisher, logger *zerolog.Logger) *AuthInterceptor {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "auth").Logger()
	}
	return &AuthInterceptor{
		store:      store,
		refreshURL: baseURL + "/token/refresh/",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		bus:        bus,
		logger:     l,
	}
}

type ctxKey int

const retriedKey ctxKey = iota

func withRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey, true)
}

func isRetried(req *http.Request) bool {
	v, _ := req.Context().Value(retriedKey).(bool)
	return v
}

// Request returns the request-phase hook: attach the stored access token as
// a bearer credential, or send unauthenticated when none is present.
func (a *AuthInterceptor) Request() RequestInterceptor {
	return func(req *http.Request) error {
		if token := a.store.Get().AccessToken; token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		} else {
			req.Header.Del("Authorization")
		}
		return nil
	}
}

// Response returns the response-phase hook implementing refresh-and-retry:
//   - non-401 responses pass through untouched;
//   - a 401 with no stored refresh token is surfaced unchanged;
//   - otherwise one silent refresh runs and the original request is
//     replayed exactly once with the new token;
//   - a failed refresh clears the session and publishes session_expired;
//   - the retried request carries a guard flag, so its 401 is final.
func (a *AuthInterceptor) Response() ResponseHook {
	return func(transport Transport, req *http.Request, resp *http.Response) (*http.Response, error) {
		if resp.StatusCode != http.StatusUnauthorized || isRetried(req) {
			return resp, nil
		}

		sess := a.store.Get()
		if sess.RefreshToken == "" {
			return resp, nil
		}

		access, err := a.refreshAccess(req.Context(), sess.AccessToken)
		if err != nil {
			drainClose(resp)
			a.expireSession(req.Context(), err)
			return nil, fmt.Errorf("session refresh failed: %w", err)
		}

		drainClose(resp)

		retry := req.Clone(withRetried(req.Context()))
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("replay request body: %w", err)
			}
			retry.Body = body
		}
		retry.Header.Set("Authorization", "Bearer "+access)

		a.logger.Debug().Str("path", req.URL.Path).Msg("retrying request with refreshed token")
		return transport.Send(retry)
	}
}

// refreshAccess performs the dedicated, non-intercepted refresh call and
// rotates the stored access token. Waiters that lost the race to a finished
// refresh reuse the rotated token instead of refreshing again.
func (a *AuthInterceptor) refreshAccess(ctx context.Context, failedAccess string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sess := a.store.Get()
	if sess.AccessToken != "" && sess.AccessToken != failedAccess {
		return sess.AccessToken, nil
	}
	if sess.RefreshToken == "" {
		return "", ErrNoRefreshToken
	}

	payload, err := json.Marshal(map[string]string{"refresh": sess.RefreshToken})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		metrics.IncRefresh("failure")
		return "", fmt.Errorf("refresh call: %w", err)
	}
	defer drainClose(resp)

	if resp.StatusCode >= 300 {
		metrics.IncRefresh("failure")
		return "", decodeAPIError(resp)
	}

	var out struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.IncRefresh("failure")
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if out.Access == "" {
		metrics.IncRefresh("failure")
		return "", errors.New("refresh response missing access token")
	}

	a.store.SetAccessToken(ctx, out.Access)
	metrics.IncRefresh("success")
	a.logger.Info().Msg("access token refreshed")
	return out.Access, nil
}

func (a *AuthInterceptor) expireSession(ctx context.Context, cause error) {
	a.store.Clear(ctx)
	a.logger.Warn().Err(cause).Msg("session expired, tokens cleared")
	if a.bus != nil {
		_ = a.bus.PublishJSON(events.EventSessionExpired, events.SessionEventPayload{Reason: cause.Error()})
	}
}

func drainClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
