package scheduler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apphttp "github.com/aptwatch/listing-pipeline/pkg/app/http"
)

// HTTP exposes an endpoint to trigger a scrape run on demand.
type HTTP struct {
	scheduler *Scheduler
	logger    *zap.Logger
}

// RegisterRoutes registers the scrape endpoints on the given chi router
func RegisterRoutes(r chi.Router, s *Scheduler, logger *zap.Logger) {
	h := &HTTP{scheduler: s, logger: logger}

	r.Post("/scrape/run", apphttp.HandleError(h.runScrape))
}

func (h *HTTP) runScrape(w http.ResponseWriter, r *http.Request) error {
	results := h.scheduler.RunOnce(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]any{"sources": results}); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
	return nil
}
