// Package session tracks an ephemeral burst of scanning activity. The
// tracker is a convenience accumulator layered on top of the ledger; it
// never mutates ledger state and is not persisted across restarts.
package session

import (
	"sync"
	"time"

	"github.com/ecotrack/recycle-ledger-go/internal/clock"
	"github.com/ecotrack/recycle-ledger-go/internal/domain"
)

// Tracker is the Idle → Active → Idle state machine. It is re-enterable:
// ending a session returns it to the same state it started from.
type Tracker struct {
	mu         sync.Mutex
	clk        clock.Clock
	active     bool
	startedAt  time.Time
	events     int
	containers int
}

// NewTracker creates an idle tracker on the given time source.
func NewTracker(clk clock.Clock) *Tracker {
	return &Tracker{clk: clk}
}

// Start opens a session. It fails with *domain.ErrSessionActive if one is
// already open.
func (t *Tracker) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active {
		return &domain.ErrSessionActive{StartedAt: t.startedAt.Format(time.RFC3339)}
	}
	t.active = true
	t.startedAt = t.clk.Now()
	t.events = 0
	t.containers = 0
	return nil
}

// Record counts one accepted event while a session is open. Outside a
// session it is a no-op: the caller feeds the ledger and the tracker
// independently, and only the ledger is authoritative.
func (t *Tracker) Record(containerCount int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active || containerCount <= 0 {
		return
	}
	t.events++
	t.containers += containerCount
}

// End closes the session and returns its final report, resetting to idle.
// Ending an idle session returns a zeroed report rather than an error.
func (t *Tracker) End() domain.SessionReport {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active {
		return domain.SessionReport{}
	}

	report := domain.SessionReport{
		Containers:      t.containers,
		EventCount:      t.events,
		DurationSeconds: t.clk.Now().Sub(t.startedAt).Seconds(),
	}

	t.active = false
	t.startedAt = time.Time{}
	t.events = 0
	t.containers = 0
	return report
}

// Snapshot reports the in-progress session for display.
func (t *Tracker) Snapshot() domain.SessionSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return domain.SessionSnapshot{
		Active:          t.active,
		StartedAt:       t.startedAt,
		EventsInSession: t.events,
		Containers:      t.containers,
	}
}
