// Package validate is the single gatekeeper between untrusted collection
// observations and the ledger. Rules run in order and short-circuit; only
// containerCount is a hard gate, every other field degrades to a default.
package validate

import (
	"math"
	"time"

	"github.com/ecotrack/recycle-ledger-go/internal/domain"
)

// Observation carries the validator output plus an optional timestamp hint
// the ledger may use when stamping the event.
type Observation struct {
	domain.ValidatedObservation
	OccurredHint *time.Time
}

// Validate normalizes a raw decoded observation (typically the result of
// json.Unmarshal into any) into an Observation, or returns *domain.ErrRejected.
// It is pure: no logging, no state, no panics.
func Validate(raw any) (*Observation, error) {
	if raw == nil {
		return nil, &domain.ErrRejected{Reason: domain.RejectMissing}
	}

	obs, ok := raw.(map[string]any)
	if !ok {
		return nil, &domain.ErrRejected{Reason: domain.RejectWrongShape}
	}
	if len(obs) == 0 {
		return nil, &domain.ErrRejected{Reason: domain.RejectMissingField, Field: "containerCount"}
	}

	rawCount, ok := lookup(obs, "containerCount", "container_count")
	if !ok {
		return nil, &domain.ErrRejected{Reason: domain.RejectMissingField, Field: "containerCount"}
	}

	count, ok := numeric(rawCount)
	if !ok || !isFinite(count) || count <= 0 {
		return nil, &domain.ErrRejected{Reason: domain.RejectInvalidCount, Field: "containerCount"}
	}
	containers := int(math.Floor(count))
	if containers <= 0 {
		return nil, &domain.ErrRejected{Reason: domain.RejectInvalidCount, Field: "containerCount"}
	}

	out := &Observation{
		ValidatedObservation: domain.ValidatedObservation{
			ContainerCount: containers,
			// Fallbacks; replaced below when the observation supplies
			// usable values, or by region figures at scoring time.
			Currency: float64(containers) * domain.DefaultCurrencyPerContainer,
			CO2Kg:    float64(containers) * domain.DefaultCO2PerContainer,
		},
	}

	// A bad value in any soft field never rejects the observation.
	if v, ok := lookup(obs, "confidence"); ok {
		if f, ok := numeric(v); ok && isFinite(f) {
			out.Confidence = clamp01(f)
		}
	}
	if v, ok := lookup(obs, "declaredCurrency", "declared_currency", "currency"); ok {
		if f, ok := numeric(v); ok && isFinite(f) && f >= 0 {
			out.Currency = f
			out.CurrencySet = true
		}
	}
	if v, ok := lookup(obs, "declaredCo2", "declared_co2", "co2"); ok {
		if f, ok := numeric(v); ok && isFinite(f) && f >= 0 {
			out.CO2Kg = f
			out.CO2Set = true
		}
	}
	if v, ok := lookup(obs, "regionCode", "region_code"); ok {
		if s, ok := v.(string); ok {
			out.RegionCode = s
		}
	}
	if v, ok := lookup(obs, "materials", "materialTypes", "material_types"); ok {
		out.Materials = stringList(v)
	}
	if v, ok := lookup(obs, "timestampHint", "timestamp_hint"); ok {
		if t, ok := timestamp(v); ok {
			out.OccurredHint = &t
		}
	}

	return out, nil
}

func lookup(obs map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := obs[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// numeric coerces the numeric types json.Unmarshal and programmatic callers
// produce. Strings are not numbers; "abc" fails here.
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	default:
		return 0, false
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, it := range items {
		if s, ok := it.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func timestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed.UTC(), true
		}
	case float64:
		if isFinite(t) && t > 0 {
			return time.Unix(int64(t), 0).UTC(), true
		}
	}
	return time.Time{}, false
}
