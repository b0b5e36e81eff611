package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ecotrack/recycle-ledger-go/internal/domain"
	"github.com/ecotrack/recycle-ledger-go/internal/infra/store"
)

func sampleState() *domain.LedgerState {
	occurred := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return &domain.LedgerState{
		Events: []domain.CollectionEvent{
			{
				ID:              "evt-00000001-abcd1234",
				OccurredAt:      occurred,
				ContainerCount:  3,
				Confidence:      0.9,
				CurrencyAwarded: 15,
				PointsAwarded:   15,
				CO2SavedKg:      0.3,
				EcoScore:        12,
				RegionCode:      "br",
			},
		},
		Aggregate: domain.LedgerAggregate{
			LifetimeContainers: 3,
			LifetimeCurrency:   15,
			LifetimePoints:     15,
			LifetimeCO2Kg:      0.3,
			EventCount:         1,
			AverageConfidence:  0.9,
			ConfidenceSum:      0.9,
			LastEventDate:      "2026-03-10",
			CurrentStreakDays:  1,
			BestEvent: &domain.BestEvent{
				ContainerCount: 3,
				Confidence:     0.9,
				OccurredAt:     occurred,
			},
		},
		SavedAt: occurred,
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	s := store.NewFileStore(path, zap.NewNop())

	saved := sampleState()
	if err := s.Save(context.Background(), saved); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected state, got nil")
	}

	if len(loaded.Events) != 1 || loaded.Events[0].ID != saved.Events[0].ID {
		t.Errorf("events did not round-trip: %+v", loaded.Events)
	}
	if !aggregatesMatch(loaded.Aggregate, saved.Aggregate) {
		t.Errorf("aggregate did not round-trip:\n got %+v\nwant %+v", loaded.Aggregate, saved.Aggregate)
	}
}

// aggregateValue strips the pointer field so direct comparison is possible.
func aggregateValue(a domain.LedgerAggregate) domain.LedgerAggregate {
	a.BestEvent = nil
	return a
}

func aggregatesMatch(a, b domain.LedgerAggregate) bool {
	if aggregateValue(a) != aggregateValue(b) {
		return false
	}
	if (a.BestEvent == nil) != (b.BestEvent == nil) {
		return false
	}
	return a.BestEvent == nil || *a.BestEvent == *b.BestEvent
}

func TestFileStore_MissingFileMeansNoState(t *testing.T) {
	s := store.NewFileStore(filepath.Join(t.TempDir(), "absent.json"), zap.NewNop())

	state, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if state != nil {
		t.Errorf("expected nil state, got %+v", state)
	}
}

func TestFileStore_CorruptFileIsPersistenceError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := store.NewFileStore(path, zap.NewNop())

	_, err := s.Load(context.Background())
	var perr *domain.ErrPersistence
	if !errors.As(err, &perr) {
		t.Fatalf("expected *domain.ErrPersistence, got %v", err)
	}
}

func TestFileStore_FailedSaveKeepsPreviousState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	s := store.NewFileStore(path, zap.NewNop())

	if err := s.Save(context.Background(), sampleState()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Save(ctx, &domain.LedgerState{}); err == nil {
		t.Fatal("expected cancelled save to fail")
	}

	loaded, err := s.Load(context.Background())
	if err != nil || loaded == nil || len(loaded.Events) != 1 {
		t.Errorf("previous state must survive a failed save: %+v err=%v", loaded, err)
	}
}
