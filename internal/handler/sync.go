package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ecotrack/recycle-ledger-go/internal/service"
)

// syncStatusHandler reports whether the in-memory ledger is durable.
func syncStatusHandler(svc *service.CollectionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.SyncStatus())
	}
}

// syncFlushHandler forces a synchronous save and returns the resulting
// sync status.
func syncFlushHandler(svc *service.CollectionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/sync/flush")
		defer span.End()

		if err := svc.Flush(ctx); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, svc.SyncStatus())
	}
}
