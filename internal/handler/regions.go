package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ecotrack/recycle-ledger-go/internal/service"
)

// regionsHandler lists the loaded region reward profiles.
func regionsHandler(svc *service.CollectionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regions := svc.Regions()
		writeJSON(w, http.StatusOK, map[string]any{
			"regions": regions,
			"count":   len(regions),
		})
	}
}

// regionHandler resolves a single region profile by code.
func regionHandler(svc *service.CollectionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		profile, err := svc.Region(code)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}
