package domain

// ValidatedObservation is the output of the Event Validator: every field is
// finite and in range, ready for scoring. Supplied flags distinguish values
// the observation declared itself from validator fallbacks, so the Scoring
// Engine knows when to apply region-profile figures instead.
type ValidatedObservation struct {
	ContainerCount int
	Confidence     float64
	Currency       float64
	CurrencySet    bool
	CO2Kg          float64
	CO2Set         bool
	RegionCode     string
	Materials      []string
}

// ScoreResult is the pure output of the Scoring Engine for one validated
// observation.
type ScoreResult struct {
	Points     int     `json:"points"`
	Currency   float64 `json:"currency"`
	CO2SavedKg float64 `json:"co2_saved_kg"`
	EcoScore   int     `json:"eco_score"`
}
