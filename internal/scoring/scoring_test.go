package scoring_test

import (
	"testing"

	"github.com/ecotrack/recycle-ledger-go/internal/domain"
	"github.com/ecotrack/recycle-ledger-go/internal/scoring"
)

var testRegion = domain.RegionProfile{
	Code:                 "br",
	CurrencyPerContainer: 5,
	CO2PerContainer:      0.1,
	EcoMultiplier:        1.0,
}

func TestScore_RegionConversions(t *testing.T) {
	obs := domain.ValidatedObservation{ContainerCount: 3, Confidence: 0.9}

	result := scoring.Score(obs, testRegion)

	if result.Points != 15 {
		t.Errorf("expected 15 points, got %d", result.Points)
	}
	if result.Currency != 15 {
		t.Errorf("expected currency 15, got %f", result.Currency)
	}
	if result.CO2SavedKg != 0.3 {
		t.Errorf("expected co2 0.3, got %f", result.CO2SavedKg)
	}
}

func TestScore_DeclaredValuesWin(t *testing.T) {
	obs := domain.ValidatedObservation{
		ContainerCount: 3,
		Currency:       1.25,
		CurrencySet:    true,
		CO2Kg:          0.5,
		CO2Set:         true,
	}

	result := scoring.Score(obs, testRegion)

	if result.Currency != 1.25 {
		t.Errorf("expected declared currency 1.25, got %f", result.Currency)
	}
	if result.CO2SavedKg != 0.5 {
		t.Errorf("expected declared co2 0.5, got %f", result.CO2SavedKg)
	}
}

func TestScore_EcoScoreBounded(t *testing.T) {
	counts := []int{1, 2, 10, 100, 10000, 1 << 30}
	multipliers := []float64{0.5, 1.0, 2.0}
	materials := [][]string{nil, {"pet"}, {"pet", "aluminum", "glass"}, {"mystery"}}

	for _, count := range counts {
		for _, mult := range multipliers {
			for _, mats := range materials {
				region := testRegion
				region.EcoMultiplier = mult
				obs := domain.ValidatedObservation{ContainerCount: count, Materials: mats}
				result := scoring.Score(obs, region)
				if result.EcoScore < 0 || result.EcoScore > 100 {
					t.Fatalf("ecoScore out of range: count=%d mult=%f mats=%v score=%d",
						count, mult, mats, result.EcoScore)
				}
			}
		}
	}
}

func TestScore_EcoScoreMonotoneInCount(t *testing.T) {
	prev := -1
	for _, count := range []int{1, 2, 5, 10, 25, 50, 100, 500} {
		obs := domain.ValidatedObservation{ContainerCount: count}
		score := scoring.Score(obs, testRegion).EcoScore
		if score < prev {
			t.Fatalf("ecoScore decreased: count=%d score=%d prev=%d", count, score, prev)
		}
		prev = score
	}
}

func TestScore_MaterialBonusRaisesScore(t *testing.T) {
	plain := scoring.Score(domain.ValidatedObservation{ContainerCount: 10}, testRegion)
	mixed := scoring.Score(domain.ValidatedObservation{
		ContainerCount: 10,
		Materials:      []string{"pet", "aluminum"},
	}, testRegion)

	if mixed.EcoScore <= plain.EcoScore {
		t.Errorf("expected material bonus to raise ecoScore: plain=%d mixed=%d",
			plain.EcoScore, mixed.EcoScore)
	}
}

func TestScore_Deterministic(t *testing.T) {
	obs := domain.ValidatedObservation{
		ContainerCount: 7,
		Confidence:     0.8,
		Materials:      []string{"pet", "glass"},
	}
	first := scoring.Score(obs, testRegion)
	for i := 0; i < 10; i++ {
		if scoring.Score(obs, testRegion) != first {
			t.Fatal("Score must be referentially transparent")
		}
	}
}
