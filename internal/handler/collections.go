// Package handler exposes the collection engine over HTTP. Handlers stay
// thin: decode, call the service, map errors, encode.
package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/ecotrack/recycle-ledger-go/internal/service"
)

var tracer = otel.Tracer("handler")

// createCollectionHandler ingests one raw scanner observation. The body is
// decoded into an untyped value on purpose: shape checking is the
// validator's job, not the transport's.
func createCollectionHandler(svc *service.CollectionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/collections")
		defer span.End()

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read request body")
			return
		}

		var raw any
		if len(body) > 0 {
			if err := json.Unmarshal(body, &raw); err != nil {
				writeError(w, http.StatusBadRequest, "request body is not valid JSON")
				return
			}
		}

		event, err := svc.Record(ctx, raw)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, event)
	}
}
