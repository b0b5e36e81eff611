// Package ledger owns the append-only collection-event log and the single
// authoritative running aggregate derived from it. The ledger is the only
// writer of both; everything else reads through its query methods.
package ledger

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ecotrack/recycle-ledger-go/internal/clock"
	"github.com/ecotrack/recycle-ledger-go/internal/domain"
)

// Ledger keeps the event log newest-first. Append is a critical section:
// the log insert and the multi-field aggregate update are never observable
// half-applied. Queries take the read lock and are cheap linear scans.
type Ledger struct {
	mu     sync.RWMutex
	clk    clock.Clock
	events []domain.CollectionEvent
	agg    domain.LedgerAggregate
	seq    uint64
}

// New creates an empty ledger on the given time source.
func New(clk clock.Clock) *Ledger {
	return &Ledger{clk: clk}
}

// Append stamps a validated, scored observation into a CollectionEvent,
// inserts it at the head of the log and updates the aggregate in the same
// critical section. A hint, when present and not in the future, overrides
// the event timestamp (offline scans arrive late).
//
// If the update would drive any aggregate field negative or non-finite the
// append fails with *domain.ErrInvariant and no state changes.
func (l *Ledger) Append(obs domain.ValidatedObservation, score domain.ScoreResult, hint *time.Time) (domain.CollectionEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clk.Now().UTC()
	occurredAt := now
	if hint != nil && !hint.After(now) {
		occurredAt = hint.UTC()
	}

	event := domain.CollectionEvent{
		ID:              l.nextID(),
		OccurredAt:      occurredAt,
		ContainerCount:  obs.ContainerCount,
		Confidence:      obs.Confidence,
		CurrencyAwarded: score.Currency,
		PointsAwarded:   score.Points,
		CO2SavedKg:      score.CO2SavedKg,
		EcoScore:        score.EcoScore,
		RegionCode:      obs.RegionCode,
	}

	next, err := applyEvent(l.agg, event)
	if err != nil {
		return domain.CollectionEvent{}, err
	}

	l.events = append([]domain.CollectionEvent{event}, l.events...)
	l.agg = next
	return event, nil
}

// nextID builds an opaque identifier that still sorts in creation order.
// Callers must hold the write lock.
func (l *Ledger) nextID() string {
	l.seq++
	return fmt.Sprintf("evt-%08d-%s", l.seq, uuid.NewString()[:8])
}

// Aggregate returns a copy of the current aggregate.
func (l *Ledger) Aggregate() domain.LedgerAggregate {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.agg
}

// EventCount returns the number of accepted events.
func (l *Ledger) EventCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// applyEvent computes the aggregate after one more event, validating the
// result before anything is committed.
func applyEvent(agg domain.LedgerAggregate, e domain.CollectionEvent) (domain.LedgerAggregate, error) {
	agg.LifetimeContainers += e.ContainerCount
	agg.LifetimeCurrency += e.CurrencyAwarded
	agg.LifetimePoints += e.PointsAwarded
	agg.LifetimeCO2Kg += e.CO2SavedKg
	agg.EventCount++
	agg.ConfidenceSum += e.Confidence
	agg.AverageConfidence = agg.ConfidenceSum / float64(agg.EventCount)

	if e.ContainerCount > bestCount(agg.BestEvent) {
		agg.BestEvent = &domain.BestEvent{
			ContainerCount: e.ContainerCount,
			Confidence:     e.Confidence,
			OccurredAt:     e.OccurredAt,
		}
	}

	date := e.Date()
	switch {
	case agg.LastEventDate == "":
		agg.CurrentStreakDays = 1
	case date == agg.LastEventDate:
		// Same calendar day, streak unchanged.
	case date == nextDay(agg.LastEventDate):
		agg.CurrentStreakDays++
	default:
		agg.CurrentStreakDays = 1
	}
	agg.LastEventDate = date

	if err := checkInvariants(agg); err != nil {
		return domain.LedgerAggregate{}, err
	}
	return agg, nil
}

// bestCount tolerates the zero state, where no best event exists yet.
func bestCount(best *domain.BestEvent) int {
	if best == nil {
		return 0
	}
	return best.ContainerCount
}

// nextDay returns the calendar date one day after a YYYY-MM-DD date.
func nextDay(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, 1).Format("2006-01-02")
}

func checkInvariants(agg domain.LedgerAggregate) error {
	checks := []struct {
		field string
		value float64
	}{
		{"lifetime_containers", float64(agg.LifetimeContainers)},
		{"lifetime_currency", agg.LifetimeCurrency},
		{"lifetime_points", float64(agg.LifetimePoints)},
		{"lifetime_co2_kg", agg.LifetimeCO2Kg},
		{"event_count", float64(agg.EventCount)},
		{"average_confidence", agg.AverageConfidence},
	}
	for _, c := range checks {
		if c.value < 0 || math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return &domain.ErrInvariant{Field: c.field, Value: c.value}
		}
	}
	return nil
}
