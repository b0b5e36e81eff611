package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ecotrack/recycle-ledger-go/internal/service"
)

// todayStatsHandler sums events on the current UTC date.
func todayStatsHandler(svc *service.CollectionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.TodayStats())
	}
}

// weeklyStatsHandler covers the trailing 7 days.
func weeklyStatsHandler(svc *service.CollectionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.WeeklyStats())
	}
}

// monthlyStatsHandler covers the trailing 30 days.
func monthlyStatsHandler(svc *service.CollectionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.MonthlyStats())
	}
}

// overviewHandler returns the dashboard payload: lifetime aggregate, all
// three window views and the sync status in one response.
func overviewHandler(svc *service.CollectionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stats/overview")
		defer span.End()

		overview, err := svc.GetOverview(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, overview)
	}
}
