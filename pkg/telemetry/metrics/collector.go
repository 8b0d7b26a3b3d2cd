package metrics

import (
	"loom-hq/loom/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the orchestrator for all Prometheus metrics in Loom.
// It manages metric registration and provides a unified interface for
// recording metrics across components.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Template cache metrics
	cacheMetrics *CacheMetrics

	// Expansion engine metrics
	expansionMetrics *ExpansionMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "loom",
//		Subsystem: "template",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	return &Collector{
		config:           cfg,
		registry:         registry,
		cacheMetrics:     NewCacheMetrics(cfg, registry),
		expansionMetrics: NewExpansionMetrics(cfg, registry),
	}
}

// Cache returns the template cache metrics.
func (c *Collector) Cache() *CacheMetrics {
	return c.cacheMetrics
}

// Expansion returns the expansion engine metrics.
func (c *Collector) Expansion() *ExpansionMetrics {
	return c.expansionMetrics
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
