package cache

// Stats is a point-in-time snapshot of the cache counters.
type Stats struct {
	// Hits is the number of GetTemplate calls served from the cache.
	Hits int64 `json:"hits"`

	// Misses is the number of GetTemplate calls that read the file,
	// covering both never-seen and stale-reloaded templates.
	Misses int64 `json:"misses"`

	// Invalidations is the number of entries removed by explicit or
	// cascading invalidation.
	Invalidations int64 `json:"invalidations"`

	// Evictions is the number of entries removed by resource bounds
	// (LRU overflow, size, age, memory pressure).
	Evictions int64 `json:"evictions"`

	// TotalEntries is the current number of cached templates.
	TotalEntries int `json:"total_entries"`

	// TotalSize is the aggregate size of cached content in bytes.
	TotalSize int64 `json:"total_size"`
}

// HitRate returns hits / (hits + misses), or 0 when no lookups happened.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
