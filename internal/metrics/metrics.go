// Package metrics provides Prometheus metrics for proxherald.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "proxherald"
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks concurrent HTTP requests.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)
)

// Notification metrics
var (
	// NotificationsTotal counts notification deliveries by outcome.
	// The outcome label is the Discord status code, or "transport_error".
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "deliveries_total",
			Help:      "Total Discord webhook deliveries by outcome",
		},
		[]string{"outcome"},
	)
)

// Log store metrics
var (
	// LogEntriesWritten counts archived alert logs.
	LogEntriesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "logstore",
			Name:      "entries_written_total",
			Help:      "Total log entries written",
		},
	)

	// LogWriteErrors counts failed log writes.
	LogWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "logstore",
			Name:      "write_errors_total",
			Help:      "Total failed log entry writes",
		},
	)

	// LogBytesWritten counts bytes of raw alert text archived.
	LogBytesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "logstore",
			Name:      "bytes_written_total",
			Help:      "Total bytes of alert text archived",
		},
	)

	// LogEntriesFetched counts log retrievals.
	LogEntriesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "logstore",
			Name:      "entries_fetched_total",
			Help:      "Total log entries fetched",
		},
	)
)

// Retention metrics
var (
	// RetentionSweepsTotal counts completed retention sweep cycles.
	RetentionSweepsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "retention",
			Name:      "sweeps_total",
			Help:      "Total retention sweep cycles",
		},
	)

	// RetentionDeletionsTotal counts log entries deleted by retention sweeps.
	RetentionDeletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "retention",
			Name:      "deletions_total",
			Help:      "Total log entries deleted by retention sweeps",
		},
	)
)
