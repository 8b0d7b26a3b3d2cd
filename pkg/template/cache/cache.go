package cache

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"loom-hq/loom/pkg/config"
	"loom-hq/loom/pkg/document/parser"
	terrors "loom-hq/loom/pkg/template/errors"
	"loom-hq/loom/pkg/telemetry/logging"
	"loom-hq/loom/pkg/telemetry/metrics"
)

// metricsName is the label value under which this cache reports metrics.
const metricsName = "template"

// Options carries the cache's optional collaborators. Zero values select
// defaults: FileLoader, slog.Default(), and no metrics.
type Options struct {
	Loader  Loader
	Logger  *slog.Logger
	Metrics *metrics.CacheMetrics
}

// Cache stores parsed template artifacts keyed by absolute file path and
// invalidates a file plus its transitive dependents when the file changes
// or is explicitly invalidated.
//
// Plain TTL caching is insufficient here: a template's correctness depends
// on its includes, not just its own mtime. A change to a deeply nested
// included file must invalidate every ancestor that transitively includes
// it even though the ancestor's own content is unchanged, so invalidation
// cascades along the dependency graph's reverse edges.
//
// The cache is safe for concurrent use. Entries are read-mostly shared
// state: once stored they are not mutated by readers (beyond access
// statistics updated under the cache lock), and concurrent readers that
// find a stale entry each perform an independent reload. Last writer wins,
// which is acceptable because reloading is idempotent for a given file
// content.
type Cache struct {
	cfg     config.CacheConfig
	loader  Loader
	logger  *slog.Logger
	metrics *metrics.CacheMetrics
	graph   *DependencyGraph

	mu      sync.RWMutex
	entries map[string]*Entry
	size    int64

	hits          int64
	misses        int64
	invalidations int64
	evictions     int64
}

// New creates a template cache with the given bounds. The host application
// constructs one explicitly and passes it to the expansion engine; there is
// no process-wide instance.
func New(cfg config.CacheConfig, opts Options) *Cache {
	loader := opts.Loader
	if loader == nil {
		loader = FileLoader{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Cache{
		cfg:     cfg,
		loader:  loader,
		logger:  logger.With("component", "template.cache"),
		metrics: opts.Metrics,
		graph:   NewDependencyGraph(),
		entries: make(map[string]*Entry),
	}
}

// Graph exposes the dependency graph for introspection.
func (c *Cache) Graph() *DependencyGraph {
	return c.graph
}

// GetTemplate returns the cache entry for path, loading or reloading the
// file as needed. The entry is served from the cache only when its stored
// mtime still matches the file's current mtime; otherwise the file is
// re-read, re-parsed, its dependencies re-extracted, and the entry
// replaced (a miss covers both "never seen" and "stale, reloaded").
//
// Files that fail structural parsing are cached negatively: the entry is
// stored with a nil tree so repeated misses are avoided, and the caller is
// responsible for raising the recorded parse error when expansion reaches
// the file.
func (c *Cache) GetTemplate(ctx context.Context, path string) (*Entry, error) {
	abs := resolvePath(path, "")

	mtime, statErr := c.loader.Stat(ctx, abs)
	if statErr == nil {
		c.mu.Lock()
		if e, ok := c.entries[abs]; ok && e.LastModified.Equal(mtime) {
			e.AccessCount++
			e.LastAccessed = time.Now()
			c.hits++
			c.mu.Unlock()
			c.metrics.RecordHit(metricsName)
			return e, nil
		}
		c.mu.Unlock()
	}

	return c.load(ctx, abs)
}

// load performs the miss path: read, parse, extract dependencies, store.
func (c *Cache) load(ctx context.Context, abs string) (*Entry, error) {
	data, mtime, err := c.loader.Load(ctx, abs)
	if err != nil {
		// A file can disappear between the mtime check and the read, or a
		// read can race a writer. Treat the failure as a miss and retry
		// once before giving up.
		data, mtime, err = c.loader.Load(ctx, abs)
		if err != nil {
			return nil, terrors.NewFileNotFound(abs, err)
		}
	}

	hash := xxhash.Sum64(data)
	now := time.Now()

	entry := &Entry{
		FilePath:     abs,
		Content:      string(data),
		Size:         int64(len(data)),
		ContentHash:  hash,
		AccessCount:  1,
		CreatedAt:    now,
		LastAccessed: now,
		LastModified: mtime,
	}

	c.mu.RLock()
	prev := c.entries[abs]
	c.mu.RUnlock()

	if prev != nil && prev.ContentHash == hash {
		// mtime changed but content did not (touch, checkout): reuse the
		// parsed tree and dependency set instead of re-parsing.
		entry.Parsed = prev.Parsed
		entry.ParseErr = prev.ParseErr
		entry.Dependencies = prev.Dependencies
	} else {
		parsed, perr := parser.Parse(data, abs)
		if perr != nil {
			entry.ParseErr = perr
			c.logger.Warn("template failed to parse, caching negative entry",
				append(logging.ContextAttrs(ctx), "path", abs, "error", perr)...)
		} else {
			entry.Parsed = parsed
			entry.Dependencies = ExtractDependencies(parsed, filepath.Dir(abs))
		}
	}

	c.graph.SetDependencies(abs, entry.Dependencies)

	c.mu.Lock()
	if old, ok := c.entries[abs]; ok {
		c.size -= old.Size
	}
	c.entries[abs] = entry
	c.size += entry.Size
	c.misses++
	evicted := c.enforceBoundsLocked()
	if c.cfg.MemoryPressureBytes > 0 && c.size > c.cfg.MemoryPressureBytes {
		evicted += c.evictDownToLocked(c.cfg.MemoryPressureRetain)
	}
	c.evictions += int64(evicted)
	entries, size := len(c.entries), c.size
	c.mu.Unlock()

	for i := 0; i < evicted; i++ {
		c.metrics.RecordEviction(metricsName)
	}
	c.metrics.RecordMiss(metricsName)
	c.metrics.UpdateSize(metricsName, entries, size)

	c.logger.Debug("template loaded",
		append(logging.ContextAttrs(ctx),
			"path", abs,
			"size", entry.Size,
			"dependencies", len(entry.Dependencies))...)

	return entry, nil
}

// Invalidate removes the entry for path and cascades the removal to every
// template that transitively depends on it. It returns the number of
// entries removed. The cascade is cycle-safe: a visited set stops the
// recursion even if the static dependency graph itself contains a cycle.
func (c *Cache) Invalidate(path string) int {
	abs := resolvePath(path, "")

	c.mu.Lock()
	visited := make(map[string]bool)
	removed := c.invalidateLocked(abs, visited)
	c.invalidations += int64(removed)
	entries, size := len(c.entries), c.size
	c.mu.Unlock()

	if removed > 0 {
		c.metrics.RecordInvalidation(metricsName, removed)
		c.metrics.UpdateSize(metricsName, entries, size)
		c.logger.Debug("templates invalidated", "path", abs, "removed", removed)
	}
	return removed
}

// invalidateLocked removes path and recurses into its dependents.
// Caller must hold c.mu.
func (c *Cache) invalidateLocked(path string, visited map[string]bool) int {
	if visited[path] {
		return 0
	}
	visited[path] = true

	// Snapshot dependents before the node's bookkeeping is cleared.
	dependents := c.graph.Dependents(path)

	removed := 0
	if e, ok := c.entries[path]; ok {
		delete(c.entries, path)
		c.size -= e.Size
		removed = 1
	}
	c.graph.Remove(path)

	for _, dep := range dependents {
		removed += c.invalidateLocked(dep, visited)
	}
	return removed
}

// Clear drops all entries, edges, and counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*Entry)
	c.size = 0
	c.hits, c.misses, c.invalidations, c.evictions = 0, 0, 0, 0
	c.mu.Unlock()

	c.graph.Clear()
	c.metrics.UpdateSize(metricsName, 0, 0)
	c.logger.Debug("cache cleared")
}

// Cleanup runs one maintenance pass: entries older than the configured
// maximum age are removed, entry-count and size bounds are enforced
// LRU-first, and the aggressive memory-pressure path runs when the
// aggregate size exceeds its threshold. It returns the number of entries
// evicted. The scheduler calls this periodically; bounds are additionally
// enforced on every store.
func (c *Cache) Cleanup() int {
	c.mu.Lock()

	removed := 0
	if c.cfg.MaxAge > 0 {
		now := time.Now()
		for path, e := range c.entries {
			if now.Sub(e.CreatedAt) > c.cfg.MaxAge {
				c.removeEntryLocked(path)
				removed++
			}
		}
	}

	removed += c.enforceBoundsLocked()

	if c.cfg.MemoryPressureBytes > 0 && c.size > c.cfg.MemoryPressureBytes {
		removed += c.evictDownToLocked(c.cfg.MemoryPressureRetain)
	}

	c.evictions += int64(removed)
	entries, size := len(c.entries), c.size
	c.mu.Unlock()

	if removed > 0 {
		for i := 0; i < removed; i++ {
			c.metrics.RecordEviction(metricsName)
		}
		c.metrics.UpdateSize(metricsName, entries, size)
		c.logger.Debug("cleanup pass completed", "evicted", removed, "entries", entries)
	}
	return removed
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Hits:          c.hits,
		Misses:        c.misses,
		Invalidations: c.invalidations,
		Evictions:     c.evictions,
		TotalEntries:  len(c.entries),
		TotalSize:     c.size,
	}
}

// TemplateInfo returns a read-only snapshot of one entry and its position
// in the dependency graph.
func (c *Cache) TemplateInfo(path string) (*TemplateInfo, bool) {
	abs := resolvePath(path, "")

	c.mu.RLock()
	e, ok := c.entries[abs]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	return &TemplateInfo{
		FilePath:     e.FilePath,
		Size:         e.Size,
		Parsed:       e.Parsed != nil,
		AccessCount:  e.AccessCount,
		CreatedAt:    e.CreatedAt,
		LastAccessed: e.LastAccessed,
		LastModified: e.LastModified,
		Dependencies: c.graph.Dependencies(abs),
		Dependents:   c.graph.Dependents(abs),
	}, true
}

// CachedTemplates returns the sorted paths of all cached templates.
func (c *Cache) CachedTemplates() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.entries))
	for path := range c.entries {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Exists reports whether path currently resolves to a readable file.
func (c *Cache) Exists(ctx context.Context, path string) bool {
	_, err := c.loader.Stat(ctx, resolvePath(path, ""))
	return err == nil
}

// enforceBoundsLocked evicts least-recently-used entries until the
// entry-count and size bounds hold. Caller must hold c.mu.
func (c *Cache) enforceBoundsLocked() int {
	removed := 0
	for c.cfg.MaxEntries > 0 && len(c.entries) > c.cfg.MaxEntries {
		if !c.evictLRULocked() {
			break
		}
		removed++
	}
	for c.cfg.MaxSizeBytes > 0 && c.size > c.cfg.MaxSizeBytes && len(c.entries) > 0 {
		if !c.evictLRULocked() {
			break
		}
		removed++
	}
	return removed
}

// evictDownToLocked evicts least-recently-used entries until at most
// retain entries remain. Caller must hold c.mu.
func (c *Cache) evictDownToLocked(retain int) int {
	if retain < 0 {
		retain = 0
	}
	removed := 0
	for len(c.entries) > retain {
		if !c.evictLRULocked() {
			break
		}
		removed++
	}
	return removed
}

// evictLRULocked removes the least recently accessed entry.
// Caller must hold c.mu.
func (c *Cache) evictLRULocked() bool {
	var oldest string
	var oldestTime time.Time

	for path, e := range c.entries {
		if oldest == "" || e.LastAccessed.Before(oldestTime) {
			oldest = path
			oldestTime = e.LastAccessed
		}
	}
	if oldest == "" {
		return false
	}
	c.removeEntryLocked(oldest)
	return true
}

// removeEntryLocked removes one entry without cascading.
// Resource-bound eviction deliberately does not cascade to dependents:
// evicting an entry only costs a reload, while invalidation is a
// correctness event that must propagate. Caller must hold c.mu.
func (c *Cache) removeEntryLocked(path string) {
	if e, ok := c.entries[path]; ok {
		delete(c.entries, path)
		c.size -= e.Size
	}
	c.graph.Remove(path)
}
