// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_backend_requests_total",
			Help: "Total number of requests proxied to the backend API",
		},
		[]string{"resource", "operation"},
	)

	BackendRequestsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_backend_requests_failed_total",
			Help: "Total number of failed backend requests",
		},
		[]string{"resource", "operation", "error_kind"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dashboard_backend_request_duration_seconds",
			Help: "Duration of backend requests in seconds",
		},
		[]string{"resource", "operation"},
	)

	QueryCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_query_cache_hits_total",
			Help: "Query cache hits by query key",
		},
		[]string{"key"},
	)

	QueryCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_query_cache_misses_total",
			Help: "Query cache misses by query key",
		},
		[]string{"key"},
	)

	NotificationsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_notifications_emitted_total",
			Help: "User-visible notifications emitted by level",
		},
		[]string{"level"},
	)
)
