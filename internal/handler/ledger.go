package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ecotrack/recycle-ledger-go/internal/domain"
	"github.com/ecotrack/recycle-ledger-go/internal/service"
)

// aggregateHandler returns the authoritative lifetime summary.
func aggregateHandler(svc *service.CollectionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Aggregate())
	}
}

// eventsHandler lists ledger events, newest first. Query parameters:
//
//	limit  cap on returned events (default 50, max 500)
//	since  RFC 3339 instant; only events at or after it
//	date   UTC calendar date (YYYY-MM-DD); overrides since
func eventsHandler(svc *service.CollectionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var events []domain.CollectionEvent
		switch {
		case q.Get("date") != "":
			if _, err := time.Parse("2006-01-02", q.Get("date")); err != nil {
				writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
				return
			}
			events = svc.EventsOnDate(q.Get("date"))
		case q.Get("since") != "":
			since, err := time.Parse(time.RFC3339, q.Get("since"))
			if err != nil {
				writeError(w, http.StatusBadRequest, "since must be RFC 3339")
				return
			}
			events = svc.EventsSince(since)
		default:
			events = svc.RecentEvents(parseLimit(r, 50))
		}

		if limit := parseLimit(r, 50); len(events) > limit {
			events = events[:limit]
		}

		logger.Debug("events listed", zap.Int("count", len(events)))
		writeJSON(w, http.StatusOK, map[string]any{
			"events": events,
			"count":  len(events),
		})
	}
}
