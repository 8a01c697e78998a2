package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestObserveRequest(t *testing.T) {
	Register()
	before := testutil.ToFloat64(apiRequests.WithLabelValues("rooms", "200"))
	ObserveRequest("rooms", "200", 25*time.Millisecond)
	after := testutil.ToFloat64(apiRequests.WithLabelValues("rooms", "200"))
	assert.Equal(t, before+1, after)
}

func TestIncRefresh(t *testing.T) {
	Register()
	before := testutil.ToFloat64(tokenRefreshes.WithLabelValues("success"))
	IncRefresh("success")
	assert.Equal(t, before+1, testutil.ToFloat64(tokenRefreshes.WithLabelValues("success")))
}

func TestIncCacheHit(t *testing.T) {
	Register()
	before := testutil.ToFloat64(cacheHits.WithLabelValues("rooms"))
	IncCacheHit("rooms")
	assert.Equal(t, before+1, testutil.ToFloat64(cacheHits.WithLabelValues("rooms")))
}
