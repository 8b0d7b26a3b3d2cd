// Package cache provides the dependency-aware template cache.
//
// Entries are keyed by absolute file path and hold the raw content, the
// parsed tree, and the file's static include dependencies. Freshness is
// mtime-based: a lookup whose stored mtime no longer matches the file is a
// miss and triggers a reload. Invalidating a file cascades to every
// template that transitively includes it, while resource-bound eviction
// (LRU, size, age, memory pressure) removes only the evicted entry.
package cache
