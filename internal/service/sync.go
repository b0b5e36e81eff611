package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ecotrack/recycle-ledger-go/internal/domain"
)

// Durability tracking. Persistence failures degrade to Dirty=true; they
// are never allowed to fail or delay an append.

// SyncStatus reports whether the in-memory ledger has been flushed.
func (s *CollectionService) SyncStatus() domain.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sync
}

// Flush saves synchronously, for shutdown and the manual sync endpoint.
func (s *CollectionService) Flush(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "CollectionService.Flush")
	defer span.End()

	return s.save(ctx)
}

func (s *CollectionService) markDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync.Dirty = true
	s.sync.PendingEvents++
}

func (s *CollectionService) setSyncError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync.LastError = err.Error()
}

// saveAsync runs one save behind the bulkhead. When a save is already in
// flight the new attempt is dropped: the running save snapshots late
// enough, or the next append schedules another one.
func (s *CollectionService) saveAsync() {
	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()

	if err := s.saveGate.Acquire(ctx); err != nil {
		return
	}
	defer s.saveGate.Release()

	if err := s.save(ctx); err != nil {
		s.logger.Warn("background save failed, ledger kept in memory", zap.Error(err))
	}
}

// save snapshots the ledger and hands it to the persistence gateway,
// updating the sync status either way.
func (s *CollectionService) save(ctx context.Context) error {
	snapshot := s.ledger.Snapshot()
	start := time.Now()

	err := s.store.Save(ctx, snapshot)
	s.metrics.RecordSave(time.Since(start), err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.sync.LastError = err.Error()
		s.sync.Dirty = true
		return err
	}

	pending := s.ledger.EventCount() - len(snapshot.Events)
	s.sync = domain.SyncStatus{
		Dirty:         pending > 0,
		LastSavedAt:   snapshot.SavedAt,
		PendingEvents: pending,
	}
	return nil
}
