package ledger

import (
	"math"

	"github.com/ecotrack/recycle-ledger-go/internal/domain"
)

// Snapshot returns a deep copy of the log and aggregate for the persistence
// gateway. Scanning sessions are not part of the state by design.
func (l *Ledger) Snapshot() *domain.LedgerState {
	l.mu.RLock()
	defer l.mu.RUnlock()

	events := make([]domain.CollectionEvent, len(l.events))
	copy(events, l.events)

	agg := l.agg
	if l.agg.BestEvent != nil {
		best := *l.agg.BestEvent
		agg.BestEvent = &best
	}

	return &domain.LedgerState{
		Events:    events,
		Aggregate: agg,
		SavedAt:   l.clk.Now().UTC(),
	}
}

// Restore replaces the ledger contents with a persisted state. The
// aggregate is rebuilt by replaying the event log oldest-to-newest; the
// stored aggregate is only used to detect drift, which the caller should
// surface loudly. A nil state resets to the zero state.
//
// On replay failure the ledger is left in the zero state, never a
// partially-populated one.
func (l *Ledger) Restore(state *domain.LedgerState) (drift bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = nil
	l.agg = domain.LedgerAggregate{}
	l.seq = 0

	if state == nil || len(state.Events) == 0 {
		return false, nil
	}

	rebuilt, err := replayAggregate(state.Events)
	if err != nil {
		return false, err
	}

	events := make([]domain.CollectionEvent, len(state.Events))
	copy(events, state.Events)

	l.events = events
	l.agg = rebuilt
	l.seq = uint64(len(events))

	return !aggregatesEqual(rebuilt, state.Aggregate), nil
}

// replayAggregate folds the newest-first log in chronological order through
// the same update rules Append uses, so a rebuild can never diverge from
// incremental maintenance.
func replayAggregate(events []domain.CollectionEvent) (domain.LedgerAggregate, error) {
	var agg domain.LedgerAggregate
	var err error
	for i := len(events) - 1; i >= 0; i-- {
		agg, err = applyEvent(agg, events[i])
		if err != nil {
			return domain.LedgerAggregate{}, err
		}
	}
	return agg, nil
}

const floatTolerance = 1e-9

func aggregatesEqual(a, b domain.LedgerAggregate) bool {
	switch {
	case a.LifetimeContainers != b.LifetimeContainers,
		a.LifetimePoints != b.LifetimePoints,
		a.EventCount != b.EventCount,
		a.LastEventDate != b.LastEventDate,
		a.CurrentStreakDays != b.CurrentStreakDays:
		return false
	}
	if !closeEnough(a.LifetimeCurrency, b.LifetimeCurrency) ||
		!closeEnough(a.LifetimeCO2Kg, b.LifetimeCO2Kg) ||
		!closeEnough(a.AverageConfidence, b.AverageConfidence) {
		return false
	}
	if (a.BestEvent == nil) != (b.BestEvent == nil) {
		return false
	}
	if a.BestEvent != nil && a.BestEvent.ContainerCount != b.BestEvent.ContainerCount {
		return false
	}
	return true
}

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) <= floatTolerance
}
