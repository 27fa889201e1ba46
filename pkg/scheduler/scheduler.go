// Package scheduler drives periodic feed scrapes through the import pipeline.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aptwatch/listing-pipeline/internal/metrics"
	apperrors "github.com/aptwatch/listing-pipeline/pkg/app/errors"
	"github.com/aptwatch/listing-pipeline/pkg/config"
	"github.com/aptwatch/listing-pipeline/pkg/listing"
	"github.com/aptwatch/listing-pipeline/pkg/pipeline"
	"github.com/aptwatch/listing-pipeline/pkg/report"
)

// Fetcher downloads one feed's raw listings.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]listing.RawRecord, error)
}

// Reporter persists the market snapshot closing out one run.
type Reporter interface {
	Generate(ctx context.Context, totals report.RunTotals) (*report.Report, error)
}

// DigestSender pushes the end-of-run summary to subscribers.
type DigestSender interface {
	DispatchDailyDigest(ctx context.Context, newListings, updatedListings int) error
}

// SourceResult is the outcome of importing one feed during a run.
type SourceResult struct {
	Source  string `json:"source"`
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Scheduler periodically pulls each configured feed and runs it through the
// pipeline. Overlap protection comes from the pipeline's own run guard, so a
// scheduled run simply skips when a manual import is in flight.
type Scheduler struct {
	cfg      config.SchedulerConfig
	sources  map[string]string
	fetcher  Fetcher
	pipeline pipeline.Service
	reporter Reporter
	digest   DigestSender
	logger   *zap.Logger
}

// New creates a Scheduler. Reporter and digest are optional; a nil value
// skips that run-closing step.
func New(
	cfg config.SchedulerConfig,
	sources map[string]string,
	fetcher Fetcher,
	svc pipeline.Service,
	reporter Reporter,
	digest DigestSender,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		sources:  sources,
		fetcher:  fetcher,
		pipeline: svc,
		reporter: reporter,
		digest:   digest,
		logger:   logger,
	}
}

// Start blocks running scheduled scrapes until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info("scheduler disabled")
		return
	}

	s.logger.Info("scheduler started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Int("sources", len(s.sources)))

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce scrapes every configured source through the pipeline, then closes
// the run with a market snapshot and the subscriber digest. One source
// failing does not stop the others; a pipeline busy with a manual import
// skips the remaining sources for this run.
func (s *Scheduler) RunOnce(ctx context.Context) []SourceResult {
	results := make([]SourceResult, 0, len(s.sources))
	var totals report.RunTotals

	for source, url := range s.sources {
		res := SourceResult{Source: source}

		raws, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			s.logger.Error("feed fetch failed", zap.String("source", source), zap.Error(err))
			metrics.FeedFetches.WithLabelValues(source, "error").Inc()
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		metrics.FeedFetches.WithLabelValues(source, "ok").Inc()
		if len(raws) == 0 {
			s.logger.Info("feed returned no listings", zap.String("source", source))
			results = append(results, res)
			continue
		}

		outcome, err := s.pipeline.ImportBatch(ctx, source, raws, s.cfg.MarkInactive)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			if apperrors.Is(err, apperrors.CategoryLocked) {
				s.logger.Warn("pipeline busy, skipping remaining sources this run",
					zap.String("source", source))
				break
			}
			s.logger.Error("feed import failed", zap.String("source", source), zap.Error(err))
			continue
		}

		res.Summary = outcome.Summary
		results = append(results, res)

		if sr := outcome.SyncResult; sr != nil {
			totals.NewListings += sr.Stats.NewCount
			totals.UpdatedListings += sr.Stats.UpdatedCount
			totals.RemovedListings += sr.Stats.RemovedCount
			totals.NewApartments = append(totals.NewApartments, sr.NewApartments...)
			totals.UpdatedApartments = append(totals.UpdatedApartments, sr.UpdatedApartments...)
		}
	}

	s.closeRun(ctx, totals)
	return results
}

// closeRun persists the run snapshot and notifies digest subscribers.
// Neither step can fail the run itself.
func (s *Scheduler) closeRun(ctx context.Context, totals report.RunTotals) {
	if s.reporter != nil {
		if _, err := s.reporter.Generate(ctx, totals); err != nil {
			s.logger.Error("failed to generate run report", zap.Error(err))
		}
	}
	if s.digest != nil {
		if err := s.digest.DispatchDailyDigest(ctx, totals.NewListings, totals.UpdatedListings); err != nil {
			s.logger.Error("failed to send daily digest", zap.Error(err))
		}
	}
}
