package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobboard_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Activity log metrics
var (
	ActivityLogFetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobboard_activity_log_fetch_failures_total",
			Help: "Record fetches that failed and produced an empty view",
		},
	)

	ActivityLogCacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_activity_log_cache_total",
			Help: "Recent-records cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	ActivityLogExports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_activity_log_exports_total",
			Help: "Activity log exports by format and outcome",
		},
		[]string{"format", "outcome"},
	)

	ActivityLogRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_activity_log_recorded_total",
			Help: "Activity log entries written, by type",
		},
		[]string{"type"},
	)
)
