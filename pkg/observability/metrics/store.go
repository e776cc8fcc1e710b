package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Labels: collection, operation, status (ok, not_found, error)
	storeOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Document store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection", "operation", "status"},
	)

	// 0 disconnected, 1 connecting, 2 connected
	storeConnectionState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_connection_state",
			Help: "Current persistence gateway state (0 disconnected, 1 connecting, 2 connected)",
		},
	)

	// Labels: result (success, failure)
	storeConnectAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_connect_attempts_total",
			Help: "Connection attempts made by the persistence gateway",
		},
		[]string{"result"},
	)
)

// RecordStoreOperation observes one store round-trip.
func RecordStoreOperation(collection, operation, status string, duration time.Duration) {
	storeOperationDuration.WithLabelValues(collection, operation, status).Observe(duration.Seconds())
}

// SetStoreConnectionState publishes the gateway state.
func SetStoreConnectionState(state int) {
	storeConnectionState.Set(float64(state))
}

// RecordStoreConnectAttempt counts one connect attempt.
func RecordStoreConnectAttempt(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	storeConnectAttempts.WithLabelValues(result).Inc()
}
