package domain

// EngineMetrics is the counter snapshot served by GET /v1/metrics/engine,
// derived from the live Prometheus registry.
type EngineMetrics struct {
	EventsAppended      int64   `json:"events_appended"`
	ContainersCollected int64   `json:"containers_collected"`
	RejectedTotal       int64   `json:"rejected_total"`
	DuplicateTotal      int64   `json:"duplicate_total"`
	InvariantViolations int64   `json:"invariant_violations"`
	SaveFailures        int64   `json:"save_failures"`
	AcceptRate          float64 `json:"accept_rate"`
	Period              string  `json:"period"`
}
