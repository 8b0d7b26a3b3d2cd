// Package metrics provides Prometheus instrumentation for the template
// cache and the expansion engine.
//
// A Collector owns the registry and the per-concern metric groups: cache
// hit/miss/invalidation/eviction counters with entry and size gauges, and
// expansion totals, latency histogram, and error counts by kind. Components
// accept the metric groups as optional collaborators; a nil group disables
// recording without branching at every call site.
package metrics
