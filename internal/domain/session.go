package domain

import "time"

// SessionSnapshot describes a scanning session in progress.
type SessionSnapshot struct {
	Active          bool      `json:"active"`
	StartedAt       time.Time `json:"started_at,omitempty"`
	EventsInSession int       `json:"events_in_session"`
	Containers      int       `json:"containers"`
}

// SessionReport is the final summary produced when a session ends. Ending
// an idle session yields a zeroed report rather than an error.
type SessionReport struct {
	Containers      int     `json:"containers"`
	EventCount      int     `json:"event_count"`
	DurationSeconds float64 `json:"duration_seconds"`
}
