package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotelbot",
			Name:      "api_requests_total",
			Help:      "Hotel API requests by endpoint and status code.",
		},
		[]string{"endpoint", "status"},
	)

	apiDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotelbot",
			Name:      "api_request_duration_seconds",
			Help:      "Hotel API request duration.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	tokenRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotelbot",
			Name:      "token_refresh_total",
			Help:      "Silent token refresh attempts by result.",
		},
		[]string{"result"},
	)

	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotelbot",
			Name:      "api_cache_hits_total",
			Help:      "GET responses served from the Redis cache.",
		},
		[]string{"endpoint"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, apiDuration, tokenRefreshes, cacheHits)
	})
}

// ObserveRequest records one completed API call.
func ObserveRequest(endpoint, status string, dur time.Duration) {
	apiRequests.WithLabelValues(endpoint, status).Inc()
	apiDuration.WithLabelValues(endpoint).Observe(dur.Seconds())
}

// IncRefresh counts a refresh attempt; result is "success" or "failure".
func IncRefresh(result string) {
	tokenRefreshes.WithLabelValues(result).Inc()
}

// IncCacheHit counts a cache-served GET.
func IncCacheHit(endpoint string) {
	cacheHits.WithLabelValues(endpoint).Inc()
}
