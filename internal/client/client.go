package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hotelbot/internal/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RequestInterceptor transforms an outgoing request before transmission.
// Interceptors run in registration order for every call, including retries.
type RequestInterceptor func(req *http.Request) error

// ResponseHook reacts to an incoming response. A hook may replace the
// response, e.g. by re-issuing the request through the transport.
type ResponseHook func(transport Transport, req *http.Request, resp *http.Response) (*http.Response, error)

// Transport sends a request through the interceptor chain without running
// response hooks. Used by hooks to replay a request without recursing.
type Transport interface {
	Send(req *http.Request) (*http.Response, error)
}

// Client is the single configured HTTP client all hotel API calls go
// through: fixed base URL, JSON bodies, explicit interceptor chain.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	interceptors []RequestInterceptor
	hooks        []ResponseHook
	limiter      *rate.Limiter

	redis    *redis.Client
	cacheTTL time.Duration

	logger zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.With().Str("component", "client").Logger()
		}
	}
}

// WithRateLimit throttles outgoing calls. rps <= 0 disables the limiter.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			return
		}
		if burst <= 0 {
			burst = 5
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRedisCache enables a TTL-bound read-through cache for GetCached calls.
func WithRedisCache(rc *redis.Client, ttl time.Duration) Option {
	return func(c *Client) {
		c.redis = rc
		c.cacheTTL = ttl
	}
}

func WithRequestInterceptor(ics ...RequestInterceptor) Option {
	return func(c *Client) { c.interceptors = append(c.interceptors, ics...) }
}

func WithResponseHook(hooks ...ResponseHook) Option {
	return func(c *Client) { c.hooks = append(c.hooks, hooks...) }
}

// New constructs a client for baseURL (e.g. "http://host:8000/api/v1").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     zerolog.Nop(),
	}
	// every outgoing call carries a request id
	c.interceptors = append(c.interceptors, requestIDInterceptor())

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func requestIDInterceptor() RequestInterceptor {
	return func(req *http.Request) error {
		if req.Header.Get("X-Request-Id") == "" {
			req.Header.Set("X-Request-Id", uuid.NewString())
		}
		return nil
	}
}

// Send applies the rate limiter and request interceptors, then transmits.
// Response hooks are intentionally not applied here.
func (c *Client) Send(req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}
	for _, ic := range c.interceptors {
		if err := ic(req); err != nil {
			return nil, err
		}
	}
	return c.httpClient.Do(req)
}

// Get issues GET path and decodes a JSON body into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// Post issues POST path with a JSON body and decodes the response into out.
// out may be nil when the response body is not needed.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// GetCached serves out from Redis when possible, falling back to the network
// and caching the fresh result. With no cache configured it is a plain Get.
func (c *Client) GetCached(ctx context.Context, path, cacheKey string, out any) error {
	if c.readCache(ctx, cacheKey, out) {
		metrics.IncCacheHit(endpointLabel(path))
		return nil
	}
	if err := c.Get(ctx, path, out); err != nil {
		return err
	}
	c.writeCache(ctx, cacheKey, out)
	return nil
}

// InvalidateCache drops cached entries, e.g. after a mutating call.
func (c *Client) InvalidateCache(ctx context.Context, keys ...string) {
	if c.redis == nil || len(keys) == 0 {
		return
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	label := endpointLabel(strings.TrimPrefix(req.URL.Path, "/"))
	start := time.Now()

	resp, err := c.Send(req)
	if err != nil {
		metrics.ObserveRequest(label, "transport_error", time.Since(start))
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}

	for _, hook := range c.hooks {
		resp, err = hook(c, req, resp)
		if err != nil {
			metrics.ObserveRequest(label, "auth_error", time.Since(start))
			return err
		}
	}

	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	metrics.ObserveRequest(label, strconv.Itoa(resp.StatusCode), time.Since(start))
	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request")

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// endpointLabel keeps metric cardinality low: the first path segment after
// the API prefix ("rooms", "token", "users").
func endpointLabel(path string) string {
	path = strings.Trim(path, "/")
	if idx := strings.Index(path, "?"); idx >= 0 {
		path = path[:idx]
	}
	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		switch segments[i] {
		case "rooms", "token", "users", "register", "profile", "bookings", "available", "refresh":
			return segments[i]
		}
	}
	if len(segments) > 0 && segments[len(segments)-1] != "" {
		return segments[len(segments)-1]
	}
	return "unknown"
}
