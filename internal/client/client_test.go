package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDecodesJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rooms/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		json.NewEncoder(w).Encode(map[string]any{"rooms": []map[string]any{{"room_number": "101"}}})
	}))
	defer server.Close()

	c := New(server.URL + "/") // trailing slash trimmed
	var out struct {
		Rooms []struct {
			Number string `json:"room_number"`
		} `json:"rooms"`
	}
	require.NoError(t, c.Get(context.Background(), "rooms/", &out))
	require.Len(t, out.Rooms, 1)
	assert.Equal(t, "101", out.Rooms[0].Number)
}

func TestPostSendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := New(server.URL)
	require.NoError(t, c.Post(context.Background(), "users/register/", map[string]string{"username": "alice"}, nil))
}

func TestErrorDetailPropagated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Номер уже забронирован на эти даты"})
	}))
	defer server.Close()

	c := New(server.URL)
	err := c.Post(context.Background(), "users/bookings/", map[string]string{}, nil)
	require.Error(t, err)

	assert.Equal(t, "Номер уже забронирован на эти даты", ErrorDetail(err))
	assert.False(t, IsUnauthorized(err))
}

func TestErrorWithoutDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := New(server.URL)
	err := c.Get(context.Background(), "rooms/", nil)
	require.Error(t, err)
	assert.Empty(t, ErrorDetail(err))
	assert.Contains(t, err.Error(), "502")
}

func TestGetCachedServesFromRedis(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		json.NewEncoder(w).Encode(map[string]string{"room_number": "101"})
	}))
	defer server.Close()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rc.Close()

	c := New(server.URL, WithRedisCache(rc, time.Minute))
	ctx := context.Background()

	var first, second map[string]string
	require.NoError(t, c.GetCached(ctx, "rooms/101/", "room:101", &first))
	require.NoError(t, c.GetCached(ctx, "rooms/101/", "room:101", &second))

	assert.EqualValues(t, 1, atomic.LoadInt32(&hits), "second call served from cache")
	assert.Equal(t, first, second)

	c.InvalidateCache(ctx, "room:101")
	var third map[string]string
	require.NoError(t, c.GetCached(ctx, "rooms/101/", "room:101", &third))
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits), "invalidation forces a refetch")
}

func TestGetCachedWithoutRedisIsPlainGet(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		json.NewEncoder(w).Encode(map[string]string{"ok": "1"})
	}))
	defer server.Close()

	c := New(server.URL)
	var out map[string]string
	require.NoError(t, c.GetCached(context.Background(), "rooms/", "rooms", &out))
	require.NoError(t, c.GetCached(context.Background(), "rooms/", "rooms", &out))
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestRateLimiterDelaysCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New(server.URL, WithRateLimit(50, 1))
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		var out map[string]any
		require.NoError(t, c.Get(ctx, "rooms/", &out))
	}
	// burst 1 at 50 rps: calls 2 and 3 wait ~20ms each
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestEndpointLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"rooms/", "rooms"},
		{"rooms/101/", "rooms"},
		{"rooms/available/?check_in_date=2025-06-01", "available"},
		{"users/bookings/", "bookings"},
		{"users/register/", "register"},
		{"token/", "token"},
		{"token/refresh/", "refresh"},
		{"api/v1/rooms/55/", "rooms"},
		{"", "unknown"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, endpointLabel(tc.path), "path %q", tc.path)
	}
}

func TestRequestInterceptorErrorAborts(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := New(server.URL, WithRequestInterceptor(func(req *http.Request) error {
		return assert.AnError
	}))
	err := c.Get(context.Background(), "rooms/", nil)
	require.Error(t, err)
	assert.False(t, called, "request must not leave the process")
}
