// Package metrics provides Prometheus metrics for remote filesystem
// operations. Collectors register on the default registry via promauto;
// the metrics middleware feeds them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Contract operation metrics
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remotefs_operations_total",
			Help: "Total number of contract operations",
		},
		[]string{"backend", "operation"},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "remotefs_operation_duration_seconds",
			Help:    "Contract operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	// Error metrics, labelled by taxonomy kind
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remotefs_errors_total",
			Help: "Total number of failed operations by error kind",
		},
		[]string{"backend", "operation", "kind"},
	)

	// Stream transfer metrics
	BytesRead = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remotefs_bytes_read_total",
			Help: "Total bytes read from remote files",
		},
		[]string{"backend"},
	)

	BytesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remotefs_bytes_written_total",
			Help: "Total bytes written to remote files",
		},
		[]string{"backend"},
	)

	// Session gauge
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "remotefs_active_sessions",
			Help: "Number of currently connected sessions",
		},
	)
)

// Register ensures all metrics are registered with Prometheus.
// Registration already happens via promauto; this exists for explicit
// initialization and is safe to call multiple times.
func Register() {
	// All metrics are automatically registered via promauto.
}
