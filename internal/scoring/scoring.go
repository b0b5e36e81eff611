// Package scoring converts validated observations into reward figures.
// Every function here is pure and deterministic: the ledger replays history
// through the same code to rebuild its aggregate after a restart.
package scoring

import (
	"math"

	"github.com/ecotrack/recycle-ledger-go/internal/domain"
)

// PointsPerContainer is the flat reward rate used for gamification points.
const PointsPerContainer = 5

// baseImpactSaturation is the ceiling the impact curve approaches; with the
// maximum recyclability bonus of 20 it sums to 100 at a neutral multiplier.
const baseImpactSaturation = 80.0

// materialWeights rank material types by recyclability for the 0-20 bonus.
var materialWeights = map[string]float64{
	"pet":      20,
	"aluminum": 18,
	"hdpe":     16,
	"glass":    12,
	"tetrapak": 8,
}

const unknownMaterialWeight = 4

// Score computes the reward figures for one validated observation.
// Declared currency/CO2 figures win over region-profile conversions;
// ecoScore is always within [0, 100].
func Score(obs domain.ValidatedObservation, region domain.RegionProfile) domain.ScoreResult {
	count := float64(obs.ContainerCount)

	currency := obs.Currency
	if !obs.CurrencySet {
		currency = count * region.CurrencyPerContainer
	}

	co2 := obs.CO2Kg
	if !obs.CO2Set {
		co2 = count * region.CO2PerContainer
	}

	return domain.ScoreResult{
		Points:     obs.ContainerCount * PointsPerContainer,
		Currency:   currency,
		CO2SavedKg: co2,
		EcoScore:   ecoScore(obs.ContainerCount, obs.Materials, region.EcoMultiplier),
	}
}

// ecoScore is the bounded 0-100 composite used for gamification display.
func ecoScore(containers int, materials []string, multiplier float64) int {
	raw := (baseImpactScore(containers) + recyclabilityBonus(materials)) * multiplier
	score := int(math.Round(raw))
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// baseImpactScore grows monotonically with container count and saturates,
// so very large collections cannot overflow the 0-100 scale.
func baseImpactScore(containers int) float64 {
	if containers <= 0 {
		return 0
	}
	return baseImpactSaturation * (1 - math.Exp(-float64(containers)/25.0))
}

// recyclabilityBonus maps the material mix to a 0-20 bonus. No declared
// materials means no bonus; unknown materials still count a little.
func recyclabilityBonus(materials []string) float64 {
	if len(materials) == 0 {
		return 0
	}
	total := 0.0
	for _, m := range materials {
		if w, ok := materialWeights[m]; ok {
			total += w
		} else {
			total += unknownMaterialWeight
		}
	}
	return total / float64(len(materials))
}
