package watcher

import (
	"sync"
	"testing"
	"time"
)

func TestDebounceSet_CollapsesRapidTriggers(t *testing.T) {
	d := newDebounceSet(20 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	fired := 0

	for i := 0; i < 5; i++ {
		d.Trigger("/a.yml", func() {
			mu.Lock()
			fired++
			mu.Unlock()
		})
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fired != 1 {
		t.Errorf("fired = %d, want 1 (rapid triggers collapsed)", fired)
	}
}

func TestDebounceSet_IndependentPerPath(t *testing.T) {
	d := newDebounceSet(10 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	fired := make(map[string]int)

	for _, path := range []string{"/a.yml", "/b.yml"} {
		path := path
		d.Trigger(path, func() {
			mu.Lock()
			fired[path]++
			mu.Unlock()
		})
	}

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fired["/a.yml"] != 1 || fired["/b.yml"] != 1 {
		t.Errorf("fired = %v, want one per path", fired)
	}
}

func TestDebounceSet_StopCancelsPending(t *testing.T) {
	d := newDebounceSet(20 * time.Millisecond)

	var mu sync.Mutex
	fired := 0
	d.Trigger("/a.yml", func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	d.Stop()
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fired != 0 {
		t.Errorf("fired = %d, want 0 after Stop", fired)
	}
}
