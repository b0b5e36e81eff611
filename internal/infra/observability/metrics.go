package observability

import (
	"time"

	"github.com/ecotrack/recycle-ledger-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the ledger engine.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	appendDuration  *prometheus.HistogramVec
	eventsAppended  prometheus.Counter
	containersTotal prometheus.Counter
	rejections      *prometheus.CounterVec
	saveResults     *prometheus.CounterVec
	saveDuration    prometheus.Histogram
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// engine metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		appendDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_seconds",
				Help:    "Duration of ledger operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		eventsAppended: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_events_appended_total",
				Help: "Total collection events accepted into the ledger.",
			},
		),
		containersTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_containers_collected_total",
				Help: "Total containers across all accepted events.",
			},
		),
		rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_observations_rejected_total",
				Help: "Observations refused before reaching the ledger.",
			},
			[]string{"reason"},
		),
		saveResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_saves_total",
				Help: "Persistence gateway save attempts by result.",
			},
			[]string{"result"},
		),
		saveDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_save_duration_seconds",
				Help:    "Duration of persistence gateway saves.",
				Buckets: prometheus.DefBuckets,
			},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
	}
}

// RecordOperationDuration records the duration of a ledger operation.
func (m *Metrics) RecordOperationDuration(operation string, d time.Duration) {
	m.appendDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrAppend counts one accepted event and its containers.
func (m *Metrics) IncrAppend(containers int) {
	m.eventsAppended.Inc()
	m.containersTotal.Add(float64(containers))
}

// IncrRejection counts a refused observation by reason.
func (m *Metrics) IncrRejection(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}

// RecordSave counts a persistence attempt and its duration.
func (m *Metrics) RecordSave(d time.Duration, err error) {
	m.saveDuration.Observe(d.Seconds())
	if err != nil {
		m.saveResults.WithLabelValues("failure").Inc()
		return
	}
	m.saveResults.WithLabelValues("success").Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// GetEngineSnapshot returns a snapshot of engine counters suitable for the
// GET /v1/metrics/engine endpoint.
func (m *Metrics) GetEngineSnapshot() *domain.EngineMetrics {
	appended := counterValue(m.eventsAppended)
	containers := counterValue(m.containersTotal)

	rejected := 0.0
	for _, reason := range []domain.RejectionReason{
		domain.RejectMissing,
		domain.RejectWrongShape,
		domain.RejectMissingField,
		domain.RejectInvalidCount,
	} {
		rejected += counterVecValue(m.rejections, string(reason))
	}
	duplicates := counterVecValue(m.rejections, "duplicate")
	invariants := counterVecValue(m.rejections, "invariant")
	saveFailures := counterVecValue(m.saveResults, "failure")

	acceptRate := 0.0
	if total := appended + rejected + duplicates; total > 0 {
		acceptRate = appended / total
	}

	return &domain.EngineMetrics{
		EventsAppended:      int64(appended),
		ContainersCollected: int64(containers),
		RejectedTotal:       int64(rejected),
		DuplicateTotal:      int64(duplicates),
		InvariantViolations: int64(invariants),
		SaveFailures:        int64(saveFailures),
		AcceptRate:          acceptRate,
		Period:              "all_time",
	}
}

// counterVecValue extracts the current float64 value from a CounterVec for
// a given label.
func counterVecValue(cv *prometheus.CounterVec, label string) float64 {
	return counterValue(cv.WithLabelValues(label))
}

func counterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
