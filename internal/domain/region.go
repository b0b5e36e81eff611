package domain

// Fallback conversion constants, used by the validator when an observation
// declares no currency/CO2 figures and no region profile applies.
const (
	DefaultCurrencyPerContainer = 0.10
	DefaultCO2PerContainer      = 0.08
)

// EcoMultiplier bounds; profiles outside this range are clamped on load.
const (
	MinEcoMultiplier = 0.5
	MaxEcoMultiplier = 2.0
)

// RegionProfile holds per-geography conversion constants. Profiles are
// loaded once at startup and treated as immutable for the process lifetime.
type RegionProfile struct {
	Code                 string  `json:"code" yaml:"code"`
	Name                 string  `json:"name" yaml:"name"`
	CurrencyPerContainer float64 `json:"currency_per_container" yaml:"currency_per_container"`
	CO2PerContainer      float64 `json:"co2_per_container" yaml:"co2_per_container"`
	EcoMultiplier        float64 `json:"eco_multiplier" yaml:"eco_multiplier"`
}

// Clamped returns a copy with EcoMultiplier forced into its bounded range.
func (p RegionProfile) Clamped() RegionProfile {
	if p.EcoMultiplier < MinEcoMultiplier {
		p.EcoMultiplier = MinEcoMultiplier
	}
	if p.EcoMultiplier > MaxEcoMultiplier {
		p.EcoMultiplier = MaxEcoMultiplier
	}
	return p
}
