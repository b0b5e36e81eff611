package handler

import (
	"net/http"

	"github.com/ecotrack/recycle-ledger-go/internal/infra/observability"
)

// engineMetricsHandler returns engine counters as JSON, for clients that
// do not scrape Prometheus.
func engineMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetEngineSnapshot())
	}
}
