package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects prover operation metrics
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates metrics on a dedicated registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "zksum",
				Subsystem: "prover",
				Name:      "operations_total",
				Help:      "Total number of prover operations",
			},
			[]string{"operation", "program", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "zksum",
				Subsystem: "prover",
				Name:      "operation_duration_seconds",
				Help:      "Prover operation duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"operation", "program"},
		),
	}
}

// Observe records one operation
func (m *Metrics) Observe(operation, program string, start time.Time, status string) {
	m.operations.WithLabelValues(operation, program, status).Inc()
	m.duration.WithLabelValues(operation, program).Observe(time.Since(start).Seconds())
}

// Handler exposes the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
