package ledger

import (
	"time"

	"github.com/ecotrack/recycle-ledger-go/internal/domain"
)

// Time-window projections. These are recomputed from the live log on every
// call and are never cached: the UI depends on them always reflecting the
// latest append.

// StatsForWindow sums event figures over all events with
// OccurredAt >= windowStart.
func (l *Ledger) StatsForWindow(windowStart time.Time) domain.WindowStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var stats domain.WindowStats
	for _, e := range l.events {
		if e.OccurredAt.Before(windowStart) {
			continue
		}
		stats.Containers += e.ContainerCount
		stats.Currency += e.CurrencyAwarded
		stats.CO2SavedKg += e.CO2SavedKg
		stats.Points += e.PointsAwarded
	}
	return stats
}

// TodayStats sums events whose UTC calendar date equals the current date.
func (l *Ledger) TodayStats() domain.WindowStats {
	today := l.clk.Now().UTC().Format("2006-01-02")

	l.mu.RLock()
	defer l.mu.RUnlock()

	var stats domain.WindowStats
	for _, e := range l.events {
		if e.Date() != today {
			continue
		}
		stats.Containers += e.ContainerCount
		stats.Currency += e.CurrencyAwarded
		stats.CO2SavedKg += e.CO2SavedKg
		stats.Points += e.PointsAwarded
	}
	return stats
}

// WeeklyStats covers the trailing 7 days.
func (l *Ledger) WeeklyStats() domain.WindowStats {
	return l.StatsForWindow(l.clk.Now().UTC().AddDate(0, 0, -7))
}

// MonthlyStats covers the trailing 30 days.
func (l *Ledger) MonthlyStats() domain.WindowStats {
	return l.StatsForWindow(l.clk.Now().UTC().AddDate(0, 0, -30))
}
