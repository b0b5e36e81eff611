// Package service provides the business logic layer (use cases) of the
// collection engine: the validate → score → append pipeline, session
// bracketing, window views and durability tracking.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ecotrack/recycle-ledger-go/internal/clock"
	"github.com/ecotrack/recycle-ledger-go/internal/domain"
	"github.com/ecotrack/recycle-ledger-go/internal/infra/observability"
	"github.com/ecotrack/recycle-ledger-go/internal/infra/resilience"
	"github.com/ecotrack/recycle-ledger-go/internal/ledger"
	"github.com/ecotrack/recycle-ledger-go/internal/port"
	"github.com/ecotrack/recycle-ledger-go/internal/scoring"
	"github.com/ecotrack/recycle-ledger-go/internal/session"
	"github.com/ecotrack/recycle-ledger-go/internal/validate"
)

var tracer = otel.Tracer("service/collection")

// CollectionService orchestrates the engine around the single-writer
// ledger. Appends are synchronous; persistence runs behind a bulkhead so a
// slow store never blocks a user-visible append.
type CollectionService struct {
	ledger   *ledger.Ledger
	sessions *session.Tracker
	regions  port.RegionSource
	store    port.StateStore
	dedupe   port.Cache[time.Time]
	clk      clock.Clock
	metrics  *observability.Metrics
	logger   *zap.Logger

	saveGate    *resilience.Bulkhead
	saveTimeout time.Duration

	mu   sync.Mutex
	sync domain.SyncStatus
}

// NewCollectionService wires the engine together. dedupe may be nil to
// disable duplicate-scan suppression.
func NewCollectionService(
	led *ledger.Ledger,
	sessions *session.Tracker,
	regions port.RegionSource,
	store port.StateStore,
	dedupe port.Cache[time.Time],
	clk clock.Clock,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *CollectionService {
	return &CollectionService{
		ledger:      led,
		sessions:    sessions,
		regions:     regions,
		store:       store,
		dedupe:      dedupe,
		clk:         clk,
		metrics:     metrics,
		logger:      logger,
		saveGate:    resilience.NewBulkhead(1),
		saveTimeout: 10 * time.Second,
	}
}

// Bootstrap loads persisted state into the ledger. Load failure or absent
// state leaves the ledger in its zero state; the engine keeps operating
// and the failure is reflected in the sync status.
func (s *CollectionService) Bootstrap(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "CollectionService.Bootstrap")
	defer span.End()

	state, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("bootstrap: load failed, starting from zero state", zap.Error(err))
		s.setSyncError(err)
		return err
	}

	drift, err := s.ledger.Restore(state)
	if err != nil {
		s.logger.Error("bootstrap: persisted log failed replay, starting from zero state", zap.Error(err))
		return err
	}
	if drift {
		s.logger.Warn("bootstrap: persisted aggregate diverged from replay, replay wins")
	}

	s.mu.Lock()
	s.sync = domain.SyncStatus{}
	if state != nil {
		s.sync.LastSavedAt = state.SavedAt
	}
	s.mu.Unlock()

	s.logger.Info("ledger restored",
		zap.Int("events", s.ledger.EventCount()),
		zap.Bool("aggregate_drift", drift),
	)
	return nil
}

// Record runs one raw observation through the full pipeline. The returned
// event is already reflected in the aggregate, the open session (if any)
// and the window views; durability follows asynchronously.
func (s *CollectionService) Record(ctx context.Context, raw any) (*domain.CollectionEvent, error) {
	ctx, span := tracer.Start(ctx, "CollectionService.Record")
	defer span.End()

	start := s.clk.Now()

	obs, err := validate.Validate(raw)
	if err != nil {
		var rejected *domain.ErrRejected
		if errors.As(err, &rejected) {
			s.metrics.IncrRejection(string(rejected.Reason))
			s.logger.Debug("observation rejected",
				zap.String("reason", string(rejected.Reason)),
				zap.String("field", rejected.Field),
			)
		}
		return nil, err
	}

	if err := s.checkDuplicate(obs); err != nil {
		s.metrics.IncrRejection("duplicate")
		return nil, err
	}

	region := s.resolveRegion(obs.RegionCode)
	span.SetAttributes(
		attribute.Int("observation.containers", obs.ContainerCount),
		attribute.String("observation.region", region.Code),
	)

	score := scoring.Score(obs.ValidatedObservation, region)

	event, err := s.ledger.Append(obs.ValidatedObservation, score, obs.OccurredHint)
	if err != nil {
		var invariant *domain.ErrInvariant
		if errors.As(err, &invariant) {
			s.metrics.IncrRejection("invariant")
			s.logger.Error("append refused: aggregate invariant violation",
				zap.String("aggregate_field", invariant.Field),
				zap.Float64("value", invariant.Value),
			)
		}
		return nil, err
	}

	// The session tracker observes the same event independently; it never
	// touches ledger state.
	s.sessions.Record(event.ContainerCount)

	s.metrics.IncrAppend(event.ContainerCount)
	s.metrics.RecordOperationDuration("append", s.clk.Now().Sub(start))

	s.markDirty()
	go s.saveAsync()

	s.logger.Info("collection event appended",
		zap.String("event_id", event.ID),
		zap.Int("containers", event.ContainerCount),
		zap.Int("points", event.PointsAwarded),
		zap.String("region", event.RegionCode),
	)
	return &event, nil
}

// resolveRegion falls back to the default profile for unknown or absent
// region codes.
func (s *CollectionService) resolveRegion(code string) domain.RegionProfile {
	if code != "" {
		if p, ok := s.regions.Profile(code); ok {
			return p
		}
		s.logger.Debug("unknown region code, using default", zap.String("region", code))
	}
	return s.regions.Default()
}

// checkDuplicate flags an identical observation fingerprint arriving within
// the dedupe TTL. Disabled when no cache is configured.
func (s *CollectionService) checkDuplicate(obs *validate.Observation) error {
	if s.dedupe == nil {
		return nil
	}

	fp := fmt.Sprintf("%d|%.4f|%s", obs.ContainerCount, obs.Confidence, obs.RegionCode)
	if _, seen := s.dedupe.Get(fp); seen {
		s.metrics.IncrCacheHit("dedupe")
		s.logger.Warn("duplicate observation suppressed", zap.String("fingerprint", fp))
		return &domain.ErrDuplicate{Fingerprint: fp}
	}
	s.metrics.IncrCacheMiss("dedupe")
	s.dedupe.Set(fp, s.clk.Now())
	return nil
}
