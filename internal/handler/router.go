package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ecotrack/recycle-ledger-go/internal/infra/observability"
	"github.com/ecotrack/recycle-ledger-go/internal/service"
)

// NewRouter creates the HTTP router with all routes and middleware. When
// jwtSecret is non-empty the /v1 API requires a Bearer token; the
// operational endpoints stay open either way.
func NewRouter(svc *service.CollectionService, metrics *observability.Metrics, logger *zap.Logger, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svc))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		if jwtSecret != "" {
			r.Use(JWTAuthMiddleware(jwtSecret, logger))
		}

		// Ingestion
		r.Post("/collections", createCollectionHandler(svc, logger))

		// Ledger views
		r.Get("/ledger/aggregate", aggregateHandler(svc))
		r.Get("/ledger/events", eventsHandler(svc, logger))

		// Time-window stats
		r.Get("/stats/overview", overviewHandler(svc, logger))
		r.Get("/stats/today", todayStatsHandler(svc))
		r.Get("/stats/weekly", weeklyStatsHandler(svc))
		r.Get("/stats/monthly", monthlyStatsHandler(svc))

		// Scanning sessions
		r.Post("/sessions/start", startSessionHandler(svc, logger))
		r.Post("/sessions/end", endSessionHandler(svc))
		r.Get("/sessions/current", currentSessionHandler(svc))

		// Durability
		r.Get("/sync/status", syncStatusHandler(svc))
		r.Post("/sync/flush", syncFlushHandler(svc, logger))

		// Region reward profiles
		r.Get("/regions", regionsHandler(svc))
		r.Get("/regions/{code}", regionHandler(svc, logger))

		// Engine counters as JSON
		r.Get("/metrics/engine", engineMetricsHandler(metrics))
	})

	return r
}

// healthzHandler reports liveness plus a cheap view of engine health: the
// sync status tells an operator whether persistence is keeping up.
func healthzHandler(svc *service.CollectionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := svc.SyncStatus()
		state := "healthy"
		if status.LastError != "" {
			state = "degraded"
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":     state,
			"checked_at": time.Now().UTC().Format(time.RFC3339),
			"sync":       status,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
