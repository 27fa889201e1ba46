package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aptwatch/listing-pipeline/pkg/pgutil"
	mghelper "github.com/aptwatch/listing-pipeline/pkg/pgutil/migrations"
)

func setupStore(t *testing.T) (context.Context, *pgStore) {
	t.Helper()
	pgutil.RequireDockerAccess(t)

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	if err := mghelper.CreateSchema(ctx, db, &ReportDao{}); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return ctx, NewStore(db)
}

func TestPgStore_CreateAndLatest(t *testing.T) {
	ctx, store := setupStore(t)

	older := &Report{
		Date:          time.Now().Add(-24 * time.Hour).UTC(),
		TotalListings: 10,
		Summary:       "yesterday",
		NewApartments: []uuid.UUID{uuid.New()},
	}
	newer := &Report{
		Date:          time.Now().UTC(),
		TotalListings: 12,
		NewListings:   2,
		PriceStats:    PriceStats{MedianPriceCents: 300000},
		Summary:       "today",
	}
	for _, rep := range []*Report{older, newer} {
		if err := store.Create(ctx, rep); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	got, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() failed: %v", err)
	}
	if got.Summary != "today" {
		t.Fatalf("Latest() returned %q, want the newest report", got.Summary)
	}
	if got.TotalListings != 12 || got.NewListings != 2 {
		t.Errorf("counts not round-tripped: %+v", got)
	}
	if got.MedianPriceCents != 300000 {
		t.Errorf("MedianPriceCents = %d, want 300000", got.MedianPriceCents)
	}
}

func TestPgStore_LatestEmpty(t *testing.T) {
	ctx, store := setupStore(t)

	_, err := store.Latest(ctx)
	if !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}
