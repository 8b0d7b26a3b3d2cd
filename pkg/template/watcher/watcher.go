package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"loom-hq/loom/pkg/config"
	"loom-hq/loom/pkg/template/cache"
)

// Watcher watches template files for changes and invalidates the cache,
// cascading to every template that transitively includes a changed file.
// Events are debounced per path to prevent invalidation storms while an
// editor is still writing.
type Watcher struct {
	watcher  *fsnotify.Watcher
	cache    *cache.Cache
	cfg      config.WatchConfig
	logger   *slog.Logger
	debounce *debounceSet

	// OnInvalidate, when set, is called after each debounced invalidation
	// with the changed path and the number of entries removed. Callers use
	// it to trigger re-expansion of open documents.
	OnInvalidate func(path string, removed int)

	mu      sync.RWMutex
	running bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a template watcher bound to the given cache.
func New(cfg config.WatchConfig, c *cache.Cache, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fsw,
		cache:    c,
		cfg:      cfg,
		logger:   logger.With("component", "template.watcher"),
		debounce: newDebounceSet(cfg.DebounceInterval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch starts watching the configured paths. It blocks until the context
// is cancelled or Stop is called.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	for _, path := range w.cfg.Paths {
		if err := w.addPath(path); err != nil {
			return fmt.Errorf("failed to watch path %q: %w", path, err)
		}
	}

	w.logger.Info("template watcher started",
		"paths", w.cfg.Paths,
		"debounce_ms", w.cfg.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("template watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("template watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			// Keep watching despite errors.
			w.logger.Error("template watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and waits for the event loop to exit. Only the
// first call closes the stop channel; later calls are no-ops.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running || w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.debounce.Stop()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// IsRunning returns true if the event loop is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// handleEvent filters one fsnotify event and schedules the debounced
// invalidation.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// A created directory must be added to the watch so templates written
	// into it later are seen.
	if event.Op&fsnotify.Create == fsnotify.Create {
		if isDir, err := isDirectory(event.Name); err == nil && isDir {
			if err := w.addPath(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory",
					"path", event.Name, "error", err)
			}
			return
		}
	}

	if !w.shouldProcessEvent(event) {
		return
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		abs = filepath.Clean(event.Name)
	}

	w.logger.Debug("template file event",
		"path", abs,
		"op", event.Op.String(),
	)

	w.debounce.Trigger(abs, func() {
		removed := w.cache.Invalidate(abs)
		w.logger.Info("template invalidated",
			"path", abs,
			"removed", removed,
		)
		if w.OnInvalidate != nil {
			w.OnInvalidate(abs, removed)
		}
	})
}

// shouldProcessEvent reports whether an event concerns a watched template.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}

	ext := strings.ToLower(filepath.Ext(event.Name))
	if !w.hasValidExtension(ext) {
		return false
	}

	if w.cfg.SkipHidden && strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return true
}

// hasValidExtension checks if a file extension should be watched.
func (w *Watcher) hasValidExtension(ext string) bool {
	for _, validExt := range w.cfg.Extensions {
		if ext == strings.ToLower(validExt) {
			return true
		}
	}
	return false
}

// addPath adds a file or directory tree to the watch.
func (w *Watcher) addPath(path string) error {
	isDir, err := isDirectory(path)
	if err != nil {
		return err
	}
	if isDir {
		return w.addDirectory(path)
	}
	return w.watcher.Add(path)
}

// addDirectory adds a directory and all subdirectories to the watch.
func (w *Watcher) addDirectory(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if w.cfg.SkipHidden && strings.HasPrefix(filepath.Base(path), ".") && path != dir {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch directory %q: %w", path, err)
			}
			w.logger.Debug("watching directory", "path", path)
		}
		return nil
	})
}

func isDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
