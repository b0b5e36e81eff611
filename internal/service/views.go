package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ecotrack/recycle-ledger-go/internal/domain"
)

// Read-only projections over the ledger. None of these mutate state and
// none of them cache: they always reflect the latest append.

// Aggregate returns the authoritative running summary.
func (s *CollectionService) Aggregate() domain.LedgerAggregate {
	return s.ledger.Aggregate()
}

// RecentEvents returns up to limit events, newest first.
func (s *CollectionService) RecentEvents(limit int) []domain.CollectionEvent {
	return s.ledger.MostRecent(limit)
}

// EventsSince returns events at or after the given instant, newest first.
func (s *CollectionService) EventsSince(since time.Time) []domain.CollectionEvent {
	return s.ledger.EventsSince(since)
}

// EventsOnDate returns events on a UTC calendar date (YYYY-MM-DD).
func (s *CollectionService) EventsOnDate(date string) []domain.CollectionEvent {
	return s.ledger.EventsOnDate(date)
}

// TodayStats sums events on the current UTC date.
func (s *CollectionService) TodayStats() domain.WindowStats {
	return s.ledger.TodayStats()
}

// WeeklyStats covers the trailing 7 days.
func (s *CollectionService) WeeklyStats() domain.WindowStats {
	return s.ledger.WeeklyStats()
}

// MonthlyStats covers the trailing 30 days.
func (s *CollectionService) MonthlyStats() domain.WindowStats {
	return s.ledger.MonthlyStats()
}

// Overview is the dashboard payload: aggregate plus all three windows.
type Overview struct {
	Aggregate domain.LedgerAggregate `json:"aggregate"`
	Today     domain.WindowStats     `json:"today"`
	Weekly    domain.WindowStats     `json:"weekly"`
	Monthly   domain.WindowStats     `json:"monthly"`
	Sync      domain.SyncStatus      `json:"sync"`
}

// GetOverview computes the three windows concurrently; they only take the
// ledger's read lock, so they never serialize behind each other.
func (s *CollectionService) GetOverview(ctx context.Context) (*Overview, error) {
	ctx, span := tracer.Start(ctx, "CollectionService.GetOverview")
	defer span.End()

	out := &Overview{}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Today = s.ledger.TodayStats()
		return nil
	})
	g.Go(func() error {
		out.Weekly = s.ledger.WeeklyStats()
		return nil
	})
	g.Go(func() error {
		out.Monthly = s.ledger.MonthlyStats()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.Aggregate = s.ledger.Aggregate()
	out.Sync = s.SyncStatus()
	return out, nil
}

// Regions lists the loaded region profiles.
func (s *CollectionService) Regions() []domain.RegionProfile {
	return s.regions.All()
}

// Region resolves one region profile.
func (s *CollectionService) Region(code string) (domain.RegionProfile, error) {
	p, ok := s.regions.Profile(code)
	if !ok {
		return domain.RegionProfile{}, &domain.ErrNotFound{Resource: "region", ID: code}
	}
	return p, nil
}
