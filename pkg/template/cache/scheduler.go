package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs periodic cache maintenance on a cron schedule, removing
// aged entries and enforcing resource bounds without a caller in the loop.
type Scheduler struct {
	cache    *Cache
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a maintenance scheduler for cache. The schedule
// uses standard cron syntax, including the "@every 5m" shorthand.
func NewScheduler(cache *Cache, schedule string) *Scheduler {
	return &Scheduler{
		cache:    cache,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "template.cache.scheduler"),
	}
}

// Start begins scheduled cleanup. If the schedule is empty the scheduler
// does nothing; bounds are still enforced on every store. The scheduler
// stops itself when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("cleanup schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runCleanup); err != nil {
		return fmt.Errorf("failed to schedule cache cleanup: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("cache cleanup scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runCleanup executes one maintenance pass.
func (s *Scheduler) runCleanup() {
	evicted := s.cache.Cleanup()
	if evicted > 0 {
		s.logger.Info("scheduled cache cleanup completed", "evicted", evicted)
	} else {
		s.logger.Debug("scheduled cache cleanup completed, nothing evicted")
	}
}

// Stop stops the scheduler and waits for a running cleanup to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("cache cleanup scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled cleanup time.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
