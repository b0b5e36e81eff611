package regions_test

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/ecotrack/recycle-ledger-go/internal/domain"
	"github.com/ecotrack/recycle-ledger-go/internal/infra/regions"
)

func TestDefaults_HaveFallback(t *testing.T) {
	table := regions.Defaults()

	def := table.Default()
	if def.CurrencyPerContainer != domain.DefaultCurrencyPerContainer {
		t.Errorf("unexpected default currency rate: %f", def.CurrencyPerContainer)
	}
	if def.EcoMultiplier != 1.0 {
		t.Errorf("expected neutral default multiplier, got %f", def.EcoMultiplier)
	}
}

func TestProfile_CaseInsensitive(t *testing.T) {
	table := regions.Defaults()

	p, ok := table.Profile(" BR ")
	if !ok {
		t.Fatal("expected br profile to resolve")
	}
	if p.Code != "br" {
		t.Errorf("expected code 'br', got %q", p.Code)
	}
}

func TestLoadFile_OverridesAndClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.yaml")
	body := `
regions:
  - code: br
    name: Brazil (pilot)
    currency_per_container: 0.5
    co2_per_container: 0.07
    eco_multiplier: 9.0
  - code: nz
    name: New Zealand
    currency_per_container: 0.2
    co2_per_container: 0.05
    eco_multiplier: 1.1
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := regions.LoadFile(path, zap.NewNop())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	br, ok := table.Profile("br")
	if !ok || br.CurrencyPerContainer != 0.5 {
		t.Errorf("expected br override, got %+v", br)
	}
	if br.EcoMultiplier != domain.MaxEcoMultiplier {
		t.Errorf("expected multiplier clamped to %f, got %f", domain.MaxEcoMultiplier, br.EcoMultiplier)
	}

	if _, ok := table.Profile("nz"); !ok {
		t.Error("expected nz profile to be added")
	}
	if _, ok := table.Profile("us"); !ok {
		t.Error("expected built-in us profile to survive the merge")
	}
}

func TestLoadFile_MissingFileFails(t *testing.T) {
	if _, err := regions.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), zap.NewNop()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
