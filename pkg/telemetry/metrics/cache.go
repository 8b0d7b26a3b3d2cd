package metrics

import (
	"loom-hq/loom/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CacheMetrics tracks template cache performance.
//
// Metrics:
//   - loom_template_cache_hits_total: total cache hits by cache name
//   - loom_template_cache_misses_total: total cache misses by cache name
//   - loom_template_cache_invalidations_total: total invalidations,
//     including those cascaded along dependent edges
//   - loom_template_cache_evictions_total: total resource-bound evictions
//     (LRU, size, age, memory pressure)
//   - loom_template_cache_entries: current number of cached templates
//   - loom_template_cache_size_bytes: aggregate size of cached content
type CacheMetrics struct {
	// Cache hit counter
	hitsTotal *prometheus.CounterVec

	// Cache miss counter (never-seen and stale-reloaded)
	missesTotal *prometheus.CounterVec

	// Invalidation counter (explicit plus cascaded)
	invalidationsTotal *prometheus.CounterVec

	// Eviction counter (resource bounds, not correctness)
	evictionsTotal *prometheus.CounterVec

	// Current number of cached templates
	entries *prometheus.GaugeVec

	// Aggregate size of cached content in bytes
	sizeBytes *prometheus.GaugeVec
}

// NewCacheMetrics creates and registers cache metrics with the provided registry.
func NewCacheMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CacheMetrics {
	cm := &CacheMetrics{
		hitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_hits_total",
				Help:      "Total number of template cache hits",
			},
			[]string{"cache"},
		),

		missesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_misses_total",
				Help:      "Total number of template cache misses",
			},
			[]string{"cache"},
		),

		invalidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_invalidations_total",
				Help:      "Total number of template cache invalidations, including cascades",
			},
			[]string{"cache"},
		),

		evictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_evictions_total",
				Help:      "Total number of template cache evictions due to resource bounds",
			},
			[]string{"cache"},
		),

		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_entries",
				Help:      "Current number of cached templates",
			},
			[]string{"cache"},
		),

		sizeBytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_size_bytes",
				Help:      "Aggregate size of cached template content in bytes",
			},
			[]string{"cache"},
		),
	}

	registry.MustRegister(
		cm.hitsTotal,
		cm.missesTotal,
		cm.invalidationsTotal,
		cm.evictionsTotal,
		cm.entries,
		cm.sizeBytes,
	)

	return cm
}

// RecordHit records a cache hit.
func (cm *CacheMetrics) RecordHit(cacheName string) {
	if cm == nil {
		return
	}
	cm.hitsTotal.WithLabelValues(cacheName).Inc()
}

// RecordMiss records a cache miss.
func (cm *CacheMetrics) RecordMiss(cacheName string) {
	if cm == nil {
		return
	}
	cm.missesTotal.WithLabelValues(cacheName).Inc()
}

// RecordInvalidation records n invalidated entries (an explicit
// invalidation plus its cascade).
func (cm *CacheMetrics) RecordInvalidation(cacheName string, n int) {
	if cm == nil {
		return
	}
	cm.invalidationsTotal.WithLabelValues(cacheName).Add(float64(n))
}

// RecordEviction records a resource-bound eviction (LRU overflow, size or
// age limit, memory pressure).
func (cm *CacheMetrics) RecordEviction(cacheName string) {
	if cm == nil {
		return
	}
	cm.evictionsTotal.WithLabelValues(cacheName).Inc()
}

// UpdateSize updates the entry count and aggregate byte size of a cache.
func (cm *CacheMetrics) UpdateSize(cacheName string, entries int, bytes int64) {
	if cm == nil {
		return
	}
	cm.entries.WithLabelValues(cacheName).Set(float64(entries))
	cm.sizeBytes.WithLabelValues(cacheName).Set(float64(bytes))
}
