package pipeline

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/aptwatch/listing-pipeline/pkg/app/errors"
	apphttp "github.com/aptwatch/listing-pipeline/pkg/app/http"
	"github.com/aptwatch/listing-pipeline/pkg/listing"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service        Service
	maxUploadBytes int64
	logger         *zap.Logger
}

// RegisterRoutes registers the import pipeline endpoints on the given chi router
func RegisterRoutes(r chi.Router, service Service, maxUploadBytes int64, logger *zap.Logger) {
	h := &HTTP{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}

	r.Post("/imports/file", apphttp.HandleError(h.importFile))
	r.Post("/imports/batch", apphttp.HandleError(h.importBatch))
	r.Get("/imports/{id}", apphttp.HandleError(h.getSession))
}

// importFile handles multipart file uploads: one CSV or JSON file under the
// "file" field, plus an optional markInactive flag.
func (h *HTTP) importFile(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return apperrors.BadRequestError(err, "invalid multipart form")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return apperrors.BadRequestError(err, "no file uploaded")
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		return apperrors.BadRequestError(nil, "file exceeds upload size limit")
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read upload")
	}
	if int64(len(data)) > h.maxUploadBytes {
		return apperrors.BadRequestError(nil, "file exceeds upload size limit")
	}

	markInactive := r.FormValue("markInactive") == "true"

	outcome, err := h.service.ImportFile(r.Context(), header.Filename, data, markInactive)
	if err != nil {
		// A zero-valid batch carries its parse result alongside the error.
		if outcome != nil {
			h.writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":         "no valid records found in file",
				"sessionId":     outcome.SessionID,
				"importResult":  outcome.ImportResult,
				"importSummary": outcome.Summary,
			})
			return nil
		}
		return err
	}

	h.writeJSON(w, http.StatusCreated, outcome)
	return nil
}

type batchRequest struct {
	Source       string              `json:"source"`
	Listings     []listing.RawRecord `json:"listings"`
	MarkInactive bool                `json:"markInactive"`
}

// importBatch handles programmatic imports: a JSON array of raw listing
// objects plus a source label.
func (h *HTTP) importBatch(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxUploadBytes))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}

	var req batchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	if len(req.Listings) == 0 {
		return apperrors.BadRequestError(nil, "listings array is required")
	}

	outcome, err := h.service.ImportBatch(r.Context(), req.Source, req.Listings, req.MarkInactive)
	if err != nil {
		if outcome != nil {
			h.writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":         "no valid records found in batch",
				"sessionId":     outcome.SessionID,
				"importResult":  outcome.ImportResult,
				"importSummary": outcome.Summary,
			})
			return nil
		}
		return err
	}

	h.writeJSON(w, http.StatusCreated, outcome)
	return nil
}

// getSession returns the audit record for one import run.
func (h *HTTP) getSession(w http.ResponseWriter, r *http.Request) error {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return apperrors.BadRequestError(err, "invalid session id")
	}

	sess, err := h.service.GetSession(r.Context(), id)
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, sess)
	return nil
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}
