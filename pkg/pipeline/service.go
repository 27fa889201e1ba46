// Package pipeline orchestrates one import run end to end: parse, reconcile,
// notify, and record the session audit trail.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aptwatch/listing-pipeline/internal/metrics"
	apperrors "github.com/aptwatch/listing-pipeline/pkg/app/errors"
	"github.com/aptwatch/listing-pipeline/pkg/importer"
	"github.com/aptwatch/listing-pipeline/pkg/listing"
	"github.com/aptwatch/listing-pipeline/pkg/reconcile"
	"github.com/aptwatch/listing-pipeline/pkg/session"
	"github.com/aptwatch/listing-pipeline/pkg/sessionstore"
)

// ErrRunInProgress is returned when a run is requested while another import
// holds the pipeline.
var ErrRunInProgress = fmt.Errorf("an import run is already in progress")

// RunGuard serializes pipeline runs. Scheduled and manual triggers share one
// guard, so a manual upload cannot overlap a scheduled scrape.
type RunGuard struct {
	mu sync.Mutex
}

// TryAcquire attempts to take the guard without blocking.
func (g *RunGuard) TryAcquire() bool {
	return g.mu.TryLock()
}

// Release returns the guard.
func (g *RunGuard) Release() {
	g.mu.Unlock()
}

// Syncer reconciles validated records against the apartment store.
type Syncer interface {
	Sync(ctx context.Context, records []*listing.Record, sessionID uuid.UUID, markOthersInactive bool) *reconcile.SyncResult
}

// Notifier dispatches alerts for newly created apartments.
type Notifier interface {
	DispatchNewListings(ctx context.Context, newIDs []uuid.UUID, sessionID uuid.UUID) error
}

// Service is the import pipeline's public surface.
type Service interface {
	ImportFile(ctx context.Context, filename string, data []byte, markInactive bool) (*Outcome, error)
	ImportBatch(ctx context.Context, source string, raws []listing.RawRecord, markInactive bool) (*Outcome, error)
	GetSession(ctx context.Context, id uuid.UUID) (*session.Session, error)
}

// Outcome is the caller-facing result of one pipeline run.
type Outcome struct {
	SessionID    uuid.UUID             `json:"sessionId"`
	ImportResult *importer.Result      `json:"importResult"`
	SyncResult   *reconcile.SyncResult `json:"syncResult,omitempty"`
	Summary      string                `json:"summary"`
}

type service struct {
	engine   Syncer
	notifier Notifier
	sessions sessionstore.Store
	guard    *RunGuard
	logger   *zap.Logger
}

// NewService creates the pipeline service.
func NewService(engine Syncer, notifier Notifier, sessions sessionstore.Store, guard *RunGuard, logger *zap.Logger) *service {
	if guard == nil {
		guard = &RunGuard{}
	}
	return &service{
		engine:   engine,
		notifier: notifier,
		sessions: sessions,
		guard:    guard,
		logger:   logger,
	}
}

// ImportFile runs the pipeline over one uploaded CSV or JSON file. The format
// is chosen by filename extension.
func (s *service) ImportFile(ctx context.Context, filename string, data []byte, markInactive bool) (*Outcome, error) {
	format := importer.FormatJSON
	kind := session.KindFileJSON
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		format = importer.FormatCSV
		kind = session.KindFileCSV
	}

	return s.run(ctx, kind, "", filename, markInactive, func() (*importer.Result, error) {
		if format == importer.FormatCSV {
			return importer.ParseCSV(bytes.NewReader(data))
		}
		return importer.ParseJSON(data)
	}, format)
}

// ImportBatch runs the pipeline over raw listing objects submitted directly,
// bypassing file parsing.
func (s *service) ImportBatch(ctx context.Context, source string, raws []listing.RawRecord, markInactive bool) (*Outcome, error) {
	label := source
	if label == "" {
		label = "batch"
	}
	return s.run(ctx, session.KindBatch, source, label, markInactive, func() (*importer.Result, error) {
		return importer.ValidateBatch(raws), nil
	}, importer.FormatJSON)
}

// run is the shared pipeline skeleton: guard, open session, parse, sync,
// notify, close session exactly once.
func (s *service) run(
	ctx context.Context,
	kind session.Kind,
	source, filename string,
	markInactive bool,
	parse func() (*importer.Result, error),
	format importer.Format,
) (*Outcome, error) {
	if !s.guard.TryAcquire() {
		return nil, apperrors.LockedError(ErrRunInProgress, ErrRunInProgress.Error())
	}
	defer s.guard.Release()

	metricSource := source
	if metricSource == "" {
		metricSource = "upload"
	}

	sess := session.New(kind, source, filename)
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to open import session: %w", err))
	}

	s.logger.Info("import started",
		zap.String("session_id", sess.ID.String()),
		zap.String("kind", string(kind)),
		zap.String("filename", filename))

	importResult, err := parse()
	if err != nil {
		s.failSession(ctx, sess.ID, &session.Outcome{
			Summary: fmt.Sprintf("Import failed for %s: %s", filename, err.Error()),
			Errors:  []string{err.Error()},
		})
		metrics.ImportsTotal.WithLabelValues(metricSource, string(session.StatusFailed)).Inc()
		return nil, apperrors.BadRequestError(err, fmt.Sprintf("failed to parse %s", filename))
	}

	importSummary := importer.Summary(importResult, filename, format)

	if len(importResult.Valid) == 0 {
		s.failSession(ctx, sess.ID, &session.Outcome{
			Summary: fmt.Sprintf("Import failed: No valid records found in %s", filename),
			Errors:  rowErrorStrings(importResult),
		})
		metrics.ImportsTotal.WithLabelValues(metricSource, string(session.StatusFailed)).Inc()
		return &Outcome{
				SessionID:    sess.ID,
				ImportResult: importResult,
				Summary:      importSummary,
			}, apperrors.BadRequestError(
				nil, fmt.Sprintf("no valid records found in %s", filename))
	}

	syncStart := time.Now()
	syncResult := s.engine.Sync(ctx, importResult.Valid, sess.ID, markInactive)
	metrics.SyncDuration.WithLabelValues(metricSource).Observe(time.Since(syncStart).Seconds())

	// Alerting is best-effort: a notification failure never fails the run.
	if err := s.notifier.DispatchNewListings(ctx, syncResult.NewApartments, sess.ID); err != nil {
		s.logger.Error("failed to dispatch alerts",
			zap.String("session_id", sess.ID.String()),
			zap.Error(err))
	}

	syncSummary := reconcile.GenerateSyncSummary(syncResult, filename)
	finalSummary := importSummary + "\n\n" + syncSummary

	detail, err := json.Marshal(syncResult)
	if err != nil {
		s.logger.Error("failed to encode sync result", zap.Error(err))
	}

	outcome := &session.Outcome{
		Summary: finalSummary,
		Errors:  append(rowErrorStrings(importResult), syncResult.ErrorStrings()...),
		Detail:  detail,
	}
	if err := s.sessions.Complete(ctx, sess.ID, outcome); err != nil {
		s.logger.Error("failed to close import session",
			zap.String("session_id", sess.ID.String()),
			zap.Error(err))
	}

	metrics.ImportsTotal.WithLabelValues(metricSource, string(session.StatusCompleted)).Inc()

	s.logger.Info("import completed",
		zap.String("session_id", sess.ID.String()),
		zap.Int("new", syncResult.Stats.NewCount),
		zap.Int("updated", syncResult.Stats.UpdatedCount),
		zap.Int("removed", syncResult.Stats.RemovedCount),
		zap.Int("errors", syncResult.Stats.ErrorCount))

	return &Outcome{
		SessionID:    sess.ID,
		ImportResult: importResult,
		SyncResult:   syncResult,
		Summary:      finalSummary,
	}, nil
}

func (s *service) failSession(ctx context.Context, id uuid.UUID, outcome *session.Outcome) {
	if err := s.sessions.Fail(ctx, id, outcome); err != nil {
		s.logger.Error("failed to mark session failed",
			zap.String("session_id", id.String()),
			zap.Error(err))
	}
}

// GetSession returns one session's audit record.
func (s *service) GetSession(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		if err == sessionstore.ErrSessionNotFound {
			return nil, apperrors.ResourceNotFoundError(err, "import session not found")
		}
		return nil, apperrors.GeneralError(fmt.Errorf("failed to load import session: %w", err))
	}
	return sess, nil
}

func rowErrorStrings(result *importer.Result) []string {
	out := make([]string, len(result.Errors))
	for i, e := range result.Errors {
		out[i] = fmt.Sprintf("Row %d: %s", e.Row, e.Error)
	}
	return out
}
