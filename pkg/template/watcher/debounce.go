package watcher

import (
	"sync"
	"time"
)

// debounceSet debounces events independently per path: rapid writes to one
// file collapse into a single invalidation after a quiet period, without
// delaying invalidations for other files.
type debounceSet struct {
	interval time.Duration
	mu       sync.Mutex
	timers   map[string]*time.Timer
	stopped  bool
}

func newDebounceSet(interval time.Duration) *debounceSet {
	return &debounceSet{
		interval: interval,
		timers:   make(map[string]*time.Timer),
	}
}

// Trigger schedules callback after the quiet period. A new event for the
// same path resets the pending timer and replaces its callback.
func (d *debounceSet) Trigger(path string, callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if t, ok := d.timers[path]; ok {
		t.Stop()
	}

	d.timers[path] = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		if d.stopped {
			d.mu.Unlock()
			return
		}
		delete(d.timers, path)
		d.mu.Unlock()

		callback()
	})
}

// Stop cancels all pending callbacks.
func (d *debounceSet) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for path, t := range d.timers {
		t.Stop()
		delete(d.timers, path)
	}
}
