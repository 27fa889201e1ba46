package report

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/aptwatch/listing-pipeline/pkg/app/errors"
	apphttp "github.com/aptwatch/listing-pipeline/pkg/app/http"
)

// HTTP exposes the latest run snapshot.
type HTTP struct {
	reports Store
	logger  *zap.Logger
}

// RegisterRoutes registers the report endpoints on the given chi router
func RegisterRoutes(r chi.Router, reports Store, logger *zap.Logger) {
	h := &HTTP{reports: reports, logger: logger}

	r.Get("/reports/latest", apphttp.HandleError(h.getLatest))
}

func (h *HTTP) getLatest(w http.ResponseWriter, r *http.Request) error {
	rep, err := h.reports.Latest(r.Context())
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return apperrors.ResourceNotFoundError(err, "no reports generated yet")
		}
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
	return nil
}
