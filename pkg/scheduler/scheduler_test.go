package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/aptwatch/listing-pipeline/pkg/app/errors"
	"github.com/aptwatch/listing-pipeline/pkg/config"
	"github.com/aptwatch/listing-pipeline/pkg/listing"
	"github.com/aptwatch/listing-pipeline/pkg/pipeline"
	"github.com/aptwatch/listing-pipeline/pkg/reconcile"
	"github.com/aptwatch/listing-pipeline/pkg/report"
	"github.com/aptwatch/listing-pipeline/pkg/session"
)

type mockFetcher struct {
	FetchFunc func(ctx context.Context, url string) ([]listing.RawRecord, error)
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) ([]listing.RawRecord, error) {
	return m.FetchFunc(ctx, url)
}

type mockPipeline struct {
	ImportBatchFunc func(ctx context.Context, source string, raws []listing.RawRecord, markInactive bool) (*pipeline.Outcome, error)

	batchCalls []string
}

func (m *mockPipeline) ImportFile(ctx context.Context, filename string, data []byte, markInactive bool) (*pipeline.Outcome, error) {
	return nil, errors.New("unexpected ImportFile call")
}

func (m *mockPipeline) ImportBatch(ctx context.Context, source string, raws []listing.RawRecord, markInactive bool) (*pipeline.Outcome, error) {
	m.batchCalls = append(m.batchCalls, source)
	return m.ImportBatchFunc(ctx, source, raws, markInactive)
}

func (m *mockPipeline) GetSession(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	return nil, errors.New("unexpected GetSession call")
}

func testConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:      true,
		Interval:     time.Hour,
		MarkInactive: true,
	}
}

func TestRunOnceImportsEachSource(t *testing.T) {
	sources := map[string]string{
		"streeteasy": "http://feeds.local/streeteasy",
		"zillow":     "http://feeds.local/zillow",
	}

	fetcher := &mockFetcher{
		FetchFunc: func(ctx context.Context, url string) ([]listing.RawRecord, error) {
			return []listing.RawRecord{{"externalId": "x"}}, nil
		},
	}

	var markInactive []bool
	svc := &mockPipeline{
		ImportBatchFunc: func(ctx context.Context, source string, raws []listing.RawRecord, mark bool) (*pipeline.Outcome, error) {
			markInactive = append(markInactive, mark)
			return &pipeline.Outcome{Summary: "ok: " + source}, nil
		},
	}

	s := New(testConfig(), sources, fetcher, svc, nil, nil, zap.NewNop())
	results := s.RunOnce(context.Background())

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if len(svc.batchCalls) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(svc.batchCalls))
	}
	for _, mark := range markInactive {
		if !mark {
			t.Fatal("expected markInactive to follow config")
		}
	}
	for _, res := range results {
		if res.Error != "" {
			t.Fatalf("unexpected error for %s: %s", res.Source, res.Error)
		}
		if res.Summary == "" {
			t.Fatalf("expected summary for %s", res.Source)
		}
	}
}

func TestRunOnceFetchFailureDoesNotStopOthers(t *testing.T) {
	sources := map[string]string{
		"streeteasy": "http://feeds.local/streeteasy",
		"zillow":     "http://feeds.local/zillow",
	}

	fetcher := &mockFetcher{
		FetchFunc: func(ctx context.Context, url string) ([]listing.RawRecord, error) {
			if url == "http://feeds.local/streeteasy" {
				return nil, errors.New("connection refused")
			}
			return []listing.RawRecord{{"externalId": "x"}}, nil
		},
	}

	svc := &mockPipeline{
		ImportBatchFunc: func(ctx context.Context, source string, raws []listing.RawRecord, mark bool) (*pipeline.Outcome, error) {
			return &pipeline.Outcome{Summary: "ok"}, nil
		},
	}

	s := New(testConfig(), sources, fetcher, svc, nil, nil, zap.NewNop())
	results := s.RunOnce(context.Background())

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if len(svc.batchCalls) != 1 || svc.batchCalls[0] != "zillow" {
		t.Fatalf("expected only zillow imported, got %v", svc.batchCalls)
	}
}

func TestRunOnceSkipsEmptyFeeds(t *testing.T) {
	sources := map[string]string{"streeteasy": "http://feeds.local/streeteasy"}

	fetcher := &mockFetcher{
		FetchFunc: func(ctx context.Context, url string) ([]listing.RawRecord, error) {
			return nil, nil
		},
	}

	svc := &mockPipeline{
		ImportBatchFunc: func(ctx context.Context, source string, raws []listing.RawRecord, mark bool) (*pipeline.Outcome, error) {
			return &pipeline.Outcome{}, nil
		},
	}

	s := New(testConfig(), sources, fetcher, svc, nil, nil, zap.NewNop())
	s.RunOnce(context.Background())

	if len(svc.batchCalls) != 0 {
		t.Fatalf("expected no imports for empty feed, got %v", svc.batchCalls)
	}
}

func TestRunOnceStopsWhenPipelineBusy(t *testing.T) {
	sources := map[string]string{
		"streeteasy": "http://feeds.local/streeteasy",
		"zillow":     "http://feeds.local/zillow",
		"redfin":     "http://feeds.local/redfin",
	}

	fetcher := &mockFetcher{
		FetchFunc: func(ctx context.Context, url string) ([]listing.RawRecord, error) {
			return []listing.RawRecord{{"externalId": "x"}}, nil
		},
	}

	svc := &mockPipeline{
		ImportBatchFunc: func(ctx context.Context, source string, raws []listing.RawRecord, mark bool) (*pipeline.Outcome, error) {
			return nil, apperrors.LockedError(nil, "an import is already running")
		},
	}

	s := New(testConfig(), sources, fetcher, svc, nil, nil, zap.NewNop())
	s.RunOnce(context.Background())

	if len(svc.batchCalls) != 1 {
		t.Fatalf("expected run to stop after first locked import, got %d calls", len(svc.batchCalls))
	}
}

func TestStartDisabledReturnsImmediately(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	s := New(cfg, nil, &mockFetcher{}, &mockPipeline{}, nil, nil, zap.NewNop())

	done := make(chan struct{})
	go func() {
		s.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected disabled scheduler to return immediately")
	}
}

type mockReporter struct {
	totals []report.RunTotals
}

func (m *mockReporter) Generate(_ context.Context, totals report.RunTotals) (*report.Report, error) {
	m.totals = append(m.totals, totals)
	return &report.Report{}, nil
}

type mockDigest struct {
	calls []dispatchedDigest
}

type dispatchedDigest struct {
	newListings     int
	updatedListings int
}

func (m *mockDigest) DispatchDailyDigest(_ context.Context, newListings, updatedListings int) error {
	m.calls = append(m.calls, dispatchedDigest{newListings, updatedListings})
	return nil
}

func TestRunOnceClosesRunWithReportAndDigest(t *testing.T) {
	sources := map[string]string{
		"streeteasy": "http://feeds.local/streeteasy",
		"zillow":     "http://feeds.local/zillow",
	}

	fetcher := &mockFetcher{
		FetchFunc: func(ctx context.Context, url string) ([]listing.RawRecord, error) {
			return []listing.RawRecord{{"externalId": "x"}}, nil
		},
	}

	newID := uuid.New()
	svc := &mockPipeline{
		ImportBatchFunc: func(ctx context.Context, source string, raws []listing.RawRecord, mark bool) (*pipeline.Outcome, error) {
			return &pipeline.Outcome{
				Summary: "ok",
				SyncResult: &reconcile.SyncResult{
					NewApartments:     []uuid.UUID{newID},
					UpdatedApartments: []uuid.UUID{},
					Stats:             reconcile.Stats{NewCount: 1, UpdatedCount: 2},
				},
			}, nil
		},
	}

	reporter := &mockReporter{}
	digest := &mockDigest{}

	s := New(testConfig(), sources, fetcher, svc, reporter, digest, zap.NewNop())
	s.RunOnce(context.Background())

	if len(reporter.totals) != 1 {
		t.Fatalf("expected 1 report per run, got %d", len(reporter.totals))
	}
	totals := reporter.totals[0]
	if totals.NewListings != 2 || totals.UpdatedListings != 4 {
		t.Fatalf("totals = %+v, want sums across both sources", totals)
	}
	if len(totals.NewApartments) != 2 {
		t.Fatalf("expected new apartment ids aggregated, got %v", totals.NewApartments)
	}

	if len(digest.calls) != 1 {
		t.Fatalf("expected 1 digest per run, got %d", len(digest.calls))
	}
	if digest.calls[0] != (dispatchedDigest{2, 4}) {
		t.Fatalf("digest got %+v, want {2 4}", digest.calls[0])
	}
}
