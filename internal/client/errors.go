package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNoRefreshToken marks a 401 with nothing to refresh with.
var ErrNoRefreshToken = errors.New("no refresh token stored")

// APIError is a non-2xx response from the hotel API, carrying the server's
// detail message when the payload provides one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("hotel api: %s (http %d)", e.Detail, e.StatusCode)
	}
	return fmt.Sprintf("hotel api: http %d", e.StatusCode)
}

// IsUnauthorized reports whether err is an HTTP 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// ErrorDetail extracts the server-provided detail message, or "" when the
// error carries none. Views show it verbatim for business errors.
func ErrorDetail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// decodeAPIError reads an error payload of the form {"detail": "..."}.
// Unparseable bodies still yield a status-only APIError.
func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Detail = payload.Detail
	}
	return apiErr
}
