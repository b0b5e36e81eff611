package ledger

import (
	"time"

	"github.com/ecotrack/recycle-ledger-go/internal/domain"
)

// Query operations. All of them are read-only linear scans over the
// newest-first log; at the expected scale (one device's history) an index
// buys nothing.

// EventsOnDate returns events whose UTC calendar date equals date
// (YYYY-MM-DD), newest first.
func (l *Ledger) EventsOnDate(date string) []domain.CollectionEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []domain.CollectionEvent
	for _, e := range l.events {
		if e.Date() == date {
			out = append(out, e)
		}
	}
	return out
}

// EventsSince returns events with OccurredAt >= since, newest first.
func (l *Ledger) EventsSince(since time.Time) []domain.CollectionEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []domain.CollectionEvent
	for _, e := range l.events {
		if !e.OccurredAt.Before(since) {
			out = append(out, e)
		}
	}
	return out
}

// MostRecent returns up to limit events, newest first. A non-positive
// limit returns an empty slice.
func (l *Ledger) MostRecent(limit int) []domain.CollectionEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 {
		return nil
	}
	if limit > len(l.events) {
		limit = len(l.events)
	}
	out := make([]domain.CollectionEvent, limit)
	copy(out, l.events[:limit])
	return out
}
