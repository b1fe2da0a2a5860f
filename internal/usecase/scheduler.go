package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"staysync-service/pkg/logger"
)

// SyncScheduler owns the recurring sync timers, one cron entry per
// registered property. It replaces ad-hoc per-property timers with an
// explicit registry: register on start, deregister on stop, nothing
// ambient. Two properties' entries fire independently; within one
// property the orchestrator serializes its feeds.
type SyncScheduler struct {
	orchestrator *SyncOrchestrator
	cron         *cron.Cron
	interval     time.Duration
	logger       logger.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID
	running map[string]bool
}

// NewSyncScheduler creates a new sync scheduler
func NewSyncScheduler(orchestrator *SyncOrchestrator, interval time.Duration, logger logger.Logger) *SyncScheduler {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	c := cron.New()
	c.Start()
	return &SyncScheduler{
		orchestrator: orchestrator,
		cron:         c,
		interval:     interval,
		logger:       logger,
		entries:      make(map[string]cron.EntryID),
		running:      make(map[string]bool),
	}
}

// Start registers a property for recurring sync: an immediate sync
// plus one on every tick. Starting an already registered property is a
// no-op.
func (s *SyncScheduler) Start(propertyID string) error {
	// Held across the check and AddFunc so two concurrent Start calls
	// cannot both register an entry. AddFunc only takes cron's own
	// lock, never ours.
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[propertyID]; ok {
		return nil
	}

	id, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		s.runOnce(propertyID)
	})
	if err != nil {
		return fmt.Errorf("scheduling sync for property %s: %w", propertyID, err)
	}
	s.entries[propertyID] = id

	s.logger.Info("Sync scheduler registered property",
		"propertyId", propertyID, "interval", s.interval)

	// Immediate sync on activation, off the caller's goroutine.
	go s.runOnce(propertyID)
	return nil
}

// Stop deregisters a property's timer. An in-flight sync attempt is
// allowed to finish; only future ticks are cancelled.
func (s *SyncScheduler) Stop(propertyID string) {
	s.mu.Lock()
	id, ok := s.entries[propertyID]
	if ok {
		delete(s.entries, propertyID)
	}
	s.mu.Unlock()

	if ok {
		s.cron.Remove(id)
		s.logger.Info("Sync scheduler deregistered property", "propertyId", propertyID)
	}
}

// IsRegistered reports whether a property currently has a timer.
func (s *SyncScheduler) IsRegistered(propertyID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[propertyID]
	return ok
}

// Shutdown stops all timers and waits for in-flight cron jobs to
// return.
func (s *SyncScheduler) Shutdown() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Sync scheduler stopped")
}

// runOnce syncs one property, skipping the tick when the previous sync
// for the same property is still in flight (a slow feed must not stack
// attempts).
func (s *SyncScheduler) runOnce(propertyID string) {
	s.mu.Lock()
	if s.running[propertyID] {
		s.mu.Unlock()
		s.logger.Warn("Skipping sync tick, previous attempt still running", "propertyId", propertyID)
		return
	}
	s.running[propertyID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.running, propertyID)
		s.mu.Unlock()
	}()

	if err := s.orchestrator.SyncProperty(context.Background(), propertyID); err != nil {
		s.logger.Error("Property sync cycle failed", "propertyId", propertyID, "error", err)
	}
}
