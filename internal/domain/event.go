// Package domain defines the core types of the collection-event ledger:
// observations, events, the running aggregate, sessions and region profiles.
package domain

import "time"

// CollectionEvent is the canonical, immutable record of an accepted
// collection observation. Events are created only by the Ledger; the ID is
// opaque but strictly increasing in creation order.
type CollectionEvent struct {
	ID              string    `json:"id"`
	OccurredAt      time.Time `json:"occurred_at"`
	ContainerCount  int       `json:"container_count"`
	Confidence      float64   `json:"confidence"`
	CurrencyAwarded float64   `json:"currency_awarded"`
	PointsAwarded   int       `json:"points_awarded"`
	CO2SavedKg      float64   `json:"co2_saved_kg"`
	EcoScore        int       `json:"eco_score"`
	RegionCode      string    `json:"region_code"`
}

// Date returns the UTC calendar date of the event, used by streak and
// per-day queries.
func (e CollectionEvent) Date() string {
	return e.OccurredAt.UTC().Format("2006-01-02")
}

// BestEvent records the single largest collection seen so far.
type BestEvent struct {
	ContainerCount int       `json:"container_count"`
	Confidence     float64   `json:"confidence"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// LedgerAggregate is the single authoritative running summary derived from
// the full event log. It is rebuilt deterministically by replaying the log
// and is never edited independently of an accepted event.
type LedgerAggregate struct {
	LifetimeContainers int        `json:"lifetime_containers"`
	LifetimeCurrency   float64    `json:"lifetime_currency"`
	LifetimePoints     int        `json:"lifetime_points"`
	LifetimeCO2Kg      float64    `json:"lifetime_co2_kg"`
	EventCount         int        `json:"event_count"`
	AverageConfidence  float64    `json:"average_confidence"`
	BestEvent          *BestEvent `json:"best_event,omitempty"`
	LastEventDate      string     `json:"last_event_date,omitempty"`
	CurrentStreakDays  int        `json:"current_streak_days"`

	// ConfidenceSum backs the incremental mean; it must always equal the
	// sum of Confidence over the full log.
	ConfidenceSum float64 `json:"confidence_sum"`
}

// LedgerState is the persisted shape of the ledger: the event log
// (newest-first) plus its aggregate. Scanning sessions are deliberately
// excluded; they do not survive a restart.
type LedgerState struct {
	Events    []CollectionEvent `json:"events"`
	Aggregate LedgerAggregate   `json:"aggregate"`
	SavedAt   time.Time         `json:"saved_at"`
}

// WindowStats sums event figures over a time window.
type WindowStats struct {
	Containers int     `json:"containers"`
	Currency   float64 `json:"currency"`
	CO2SavedKg float64 `json:"co2_saved_kg"`
	Points     int     `json:"points"`
}

// SyncStatus reports durability of the in-memory ledger. A failed save
// degrades to Dirty=true; it never blocks or corrupts appends.
type SyncStatus struct {
	Dirty         bool      `json:"dirty"`
	LastSavedAt   time.Time `json:"last_saved_at,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
	PendingEvents int       `json:"pending_events"`
}
