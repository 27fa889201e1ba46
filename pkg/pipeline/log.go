package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aptwatch/listing-pipeline/pkg/listing"
	"github.com/aptwatch/listing-pipeline/pkg/session"
)

const serviceName = "ImportPipeline"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the pipeline Service.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) ImportFile(ctx context.Context, filename string, data []byte, markInactive bool) (outcome *Outcome, err error) {
	start := time.Now()
	ls.logger.Info("ImportFile started",
		zap.String("service", serviceName),
		zap.String("filename", filename),
		zap.Int("bytes", len(data)),
		zap.Bool("mark_inactive", markInactive),
	)

	defer func() {
		ls.logOutcome("ImportFile", time.Since(start), outcome, err)
	}()

	return ls.svc.ImportFile(ctx, filename, data, markInactive)
}

func (ls *logService) ImportBatch(ctx context.Context, source string, raws []listing.RawRecord, markInactive bool) (outcome *Outcome, err error) {
	start := time.Now()
	ls.logger.Info("ImportBatch started",
		zap.String("service", serviceName),
		zap.String("source", source),
		zap.Int("listings", len(raws)),
		zap.Bool("mark_inactive", markInactive),
	)

	defer func() {
		ls.logOutcome("ImportBatch", time.Since(start), outcome, err)
	}()

	return ls.svc.ImportBatch(ctx, source, raws, markInactive)
}

func (ls *logService) GetSession(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	return ls.svc.GetSession(ctx, id)
}

func (ls *logService) logOutcome(method string, duration time.Duration, outcome *Outcome, err error) {
	if err != nil {
		ls.logger.Error(method+" failed",
			zap.String("service", serviceName),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	fields := []zap.Field{
		zap.String("service", serviceName),
		zap.Duration("duration", duration),
		zap.String("session_id", outcome.SessionID.String()),
	}
	if outcome.SyncResult != nil {
		fields = append(fields,
			zap.Int("new", outcome.SyncResult.Stats.NewCount),
			zap.Int("updated", outcome.SyncResult.Stats.UpdatedCount),
		)
	}
	ls.logger.Info(method+" completed", fields...)
}
