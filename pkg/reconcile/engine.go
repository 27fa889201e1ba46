// Package reconcile contains the engine that reconciles validated listing
// batches against the persisted apartment store: create, update, heartbeat,
// and stale-marking transitions.
package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aptwatch/listing-pipeline/internal/metrics"
	"github.com/aptwatch/listing-pipeline/pkg/apartment"
	"github.com/aptwatch/listing-pipeline/pkg/apartmentstore"
	"github.com/aptwatch/listing-pipeline/pkg/listing"
)

// DefaultGracePeriod is how long a listing may be absent from feeds before
// stale-marking deactivates it. Partial or rotating feeds make shorter
// windows too aggressive.
const DefaultGracePeriod = 7 * 24 * time.Hour

// Store is the slice of the apartment store the engine writes through. The
// engine is the sole writer of create/update/deactivate transitions.
type Store interface {
	GetByExternalID(ctx context.Context, externalID string) (*apartment.Apartment, error)
	Create(ctx context.Context, apt *apartment.Apartment) error
	Update(ctx context.Context, apt *apartment.Apartment) error
	Touch(ctx context.Context, id uuid.UUID, seenAt time.Time) error
	MarkInactiveStale(ctx context.Context, keepExternalIDs []string, cutoff time.Time) ([]uuid.UUID, error)
}

// Engine reconciles listing batches sequentially, one record at a time.
type Engine struct {
	store  Store
	grace  time.Duration
	logger *zap.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewEngine creates an Engine. A non-positive grace falls back to
// DefaultGracePeriod.
func NewEngine(store Store, grace time.Duration, logger *zap.Logger) *Engine {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Engine{
		store:  store,
		grace:  grace,
		logger: logger,
		now:    time.Now,
	}
}

// Sync reconciles a batch of validated records against the store. Each record
// is processed independently: a failure is recorded in the result and the
// batch continues. When markOthersInactive is set, active listings absent
// from the batch and unseen for longer than the grace period are deactivated
// after all upserts finish.
func (e *Engine) Sync(ctx context.Context, records []*listing.Record, sessionID uuid.UUID, markOthersInactive bool) *SyncResult {
	result := newSyncResult(len(records))

	e.logger.Info("starting sync",
		zap.Int("records", len(records)),
		zap.String("session_id", sessionID.String()),
		zap.Bool("mark_others_inactive", markOthersInactive))

	for _, rec := range records {
		if err := e.syncOne(ctx, rec, result); err != nil {
			e.logger.Error("failed to sync listing",
				zap.String("external_id", rec.ExternalID),
				zap.Error(err))
			metrics.RecordsProcessed.WithLabelValues("error").Inc()
			result.Errors = append(result.Errors, SyncError{
				ExternalID: rec.ExternalID,
				Error:      err.Error(),
			})
		}
	}

	if markOthersInactive {
		keep := make([]string, len(records))
		for i, rec := range records {
			keep[i] = rec.ExternalID
		}
		cutoff := e.now().Add(-e.grace)
		removed, err := e.store.MarkInactiveStale(ctx, keep, cutoff)
		if err != nil {
			e.logger.Error("failed to mark stale listings inactive", zap.Error(err))
			result.Errors = append(result.Errors, SyncError{Error: err.Error()})
		} else {
			if removed != nil {
				result.RemovedApartments = removed
			}
			metrics.RecordsProcessed.WithLabelValues("removed").Add(float64(len(removed)))
			if len(removed) > 0 {
				e.logger.Info("marked stale listings inactive", zap.Int("count", len(removed)))
			}
		}
	}

	result.finalize()

	e.logger.Info("sync completed",
		zap.Int("new", result.Stats.NewCount),
		zap.Int("updated", result.Stats.UpdatedCount),
		zap.Int("removed", result.Stats.RemovedCount),
		zap.Int("errors", result.Stats.ErrorCount),
		zap.String("session_id", sessionID.String()))

	return result
}

func (e *Engine) syncOne(ctx context.Context, rec *listing.Record, result *SyncResult) error {
	now := e.now().UTC()

	existing, err := e.store.GetByExternalID(ctx, rec.ExternalID)
	if err != nil {
		if err != apartmentstore.ErrApartmentNotFound {
			return err
		}

		apt := apartment.New(rec, now)
		if err := e.store.Create(ctx, apt); err != nil {
			return err
		}
		metrics.RecordsProcessed.WithLabelValues("created").Inc()
		result.NewApartments = append(result.NewApartments, apt.ID)
		e.logger.Debug("created listing", zap.String("external_id", rec.ExternalID))
		return nil
	}

	if HasSignificantChanges(&existing.Record, rec) {
		existing.ApplyRecord(rec, now)
		if err := e.store.Update(ctx, existing); err != nil {
			return err
		}
		metrics.RecordsProcessed.WithLabelValues("updated").Inc()
		result.UpdatedApartments = append(result.UpdatedApartments, existing.ID)
		e.logger.Debug("updated listing", zap.String("external_id", rec.ExternalID))
		return nil
	}

	// Heartbeat: nothing changed, but the listing is demonstrably fresh.
	// Touch also re-activates a listing that had gone stale and reappeared.
	if err := e.store.Touch(ctx, existing.ID, now); err != nil {
		return err
	}
	metrics.RecordsProcessed.WithLabelValues("unchanged").Inc()
	e.logger.Debug("no changes, refreshed timestamp", zap.String("external_id", rec.ExternalID))
	return nil
}
