package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ActiveConnections tracks currently open relay connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_active_connections",
		Help: "Number of currently open relay WebSocket connections",
	})

	// ConnectionsTotal counts all connections ever accepted.
	ConnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_connections_total",
		Help: "Total number of relay WebSocket connections accepted",
	})

	// FramesReceived counts binary PCM frames received from clients.
	FramesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_frames_received_total",
		Help: "Total number of PCM frames received",
	})

	// BytesReceived counts PCM payload bytes received from clients.
	BytesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_bytes_received_total",
		Help: "Total PCM payload bytes received",
	})

	// BatchesTotal counts batch outcomes: processed, silence, warmup,
	// error.
	BatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_batches_total",
		Help: "Total batches cut, by outcome",
	}, []string{"outcome"})

	// PipelineStageDuration observes per-stage pipeline latency.
	PipelineStageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_stage_duration_seconds",
		Help:    "Latency of each translation pipeline stage",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	// ResultsSent counts translation results delivered to clients.
	ResultsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_results_sent_total",
		Help: "Total translation results sent to clients",
	})

	// ErrorsTotal counts errors by type and component.
	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_errors_total",
		Help: "Total errors, by type and component",
	}, []string{"type", "component"})

	// CircuitBreakerState exposes the current breaker state per service
	// (0 closed, 1 open, 2 half-open).
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state per collaborator (0=closed, 1=open, 2=half-open)",
	}, []string{"service"})
)

// UpdateCircuitBreakerState records the breaker state for a service.
func UpdateCircuitBreakerState(service string, state int) {
	CircuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordError increments the error counter for a type/component pair.
func RecordError(errType, component string) {
	ErrorsTotal.WithLabelValues(errType, component).Inc()
}

// MetricsHandler returns the Prometheus scrape handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
