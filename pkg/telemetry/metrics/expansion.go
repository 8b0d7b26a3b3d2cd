package metrics

import (
	"time"

	"loom-hq/loom/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ExpansionMetrics tracks template expansion calls.
//
// Metrics:
//   - loom_template_expansions_total: total top-level expansion calls
//   - loom_template_expansion_duration_seconds: expansion latency histogram
//   - loom_template_expansion_errors_total: failed expansions by error kind
type ExpansionMetrics struct {
	expansionsTotal prometheus.Counter
	duration        prometheus.Histogram
	errorsTotal     *prometheus.CounterVec
}

// NewExpansionMetrics creates and registers expansion metrics with the
// provided registry.
func NewExpansionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ExpansionMetrics {
	em := &ExpansionMetrics{
		expansionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "expansions_total",
				Help:      "Total number of top-level template expansions",
			},
		),

		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "expansion_duration_seconds",
				Help:      "Latency of top-level template expansions",
				// Expansions are file-bound: sub-millisecond on cache hits,
				// tens of milliseconds when many includes reload.
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "expansion_errors_total",
				Help:      "Total number of failed expansions by error kind",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(
		em.expansionsTotal,
		em.duration,
		em.errorsTotal,
	)

	return em
}

// RecordExpansion records one completed top-level expansion.
func (em *ExpansionMetrics) RecordExpansion(d time.Duration) {
	if em == nil {
		return
	}
	em.expansionsTotal.Inc()
	em.duration.Observe(d.Seconds())
}

// RecordError records a failed expansion with its error kind
// (file_not_found, circular_reference, syntax, parse).
func (em *ExpansionMetrics) RecordError(kind string) {
	if em == nil {
		return
	}
	em.errorsTotal.WithLabelValues(kind).Inc()
}
