package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ecotrack/recycle-ledger-go/internal/domain"
)

// Session bracketing. The tracker is an independent observer of accepted
// events; Record feeds it automatically while a session is open.

// StartSession opens a scanning session.
func (s *CollectionService) StartSession(ctx context.Context) (domain.SessionSnapshot, error) {
	_, span := tracer.Start(ctx, "CollectionService.StartSession")
	defer span.End()

	if err := s.sessions.Start(); err != nil {
		return domain.SessionSnapshot{}, err
	}
	snapshot := s.sessions.Snapshot()
	s.logger.Info("scanning session started", zap.Time("started_at", snapshot.StartedAt))
	return snapshot, nil
}

// EndSession closes the session and returns its report. Ending an idle
// session yields a zeroed report.
func (s *CollectionService) EndSession(ctx context.Context) domain.SessionReport {
	_, span := tracer.Start(ctx, "CollectionService.EndSession")
	defer span.End()

	report := s.sessions.End()
	s.logger.Info("scanning session ended",
		zap.Int("containers", report.Containers),
		zap.Int("events", report.EventCount),
		zap.Float64("duration_seconds", report.DurationSeconds),
	)
	return report
}

// CurrentSession reports the in-progress session for display.
func (s *CollectionService) CurrentSession() domain.SessionSnapshot {
	return s.sessions.Snapshot()
}
