package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ecotrack/recycle-ledger-go/internal/service"
)

// startSessionHandler opens a scanning session.
func startSessionHandler(svc *service.CollectionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/sessions/start")
		defer span.End()

		snapshot, err := svc.StartSession(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, snapshot)
	}
}

// endSessionHandler closes the session and returns its report. Ending an
// idle session is not an error; it yields a zeroed report.
func endSessionHandler(svc *service.CollectionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/sessions/end")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.EndSession(ctx))
	}
}

// currentSessionHandler reports the in-progress session for live display.
func currentSessionHandler(svc *service.CollectionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.CurrentSession())
	}
}
