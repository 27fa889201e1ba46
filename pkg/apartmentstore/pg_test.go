package apartmentstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aptwatch/listing-pipeline/pkg/apartment"
	"github.com/aptwatch/listing-pipeline/pkg/listing"
	"github.com/aptwatch/listing-pipeline/pkg/pgutil"
	mghelper "github.com/aptwatch/listing-pipeline/pkg/pgutil/migrations"
)

func setupStore(t *testing.T) (context.Context, *pgStore) {
	t.Helper()
	pgutil.RequireDockerAccess(t)

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	if err := mghelper.CreateSchema(ctx, db, &ApartmentDao{}); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return ctx, NewStore(db)
}

func newTestApartment(externalID string, priceCents int64) *apartment.Apartment {
	fee := int64(150000)
	return apartment.New(&listing.Record{
		ExternalID:     externalID,
		Source:         listing.SourceStreetEasy,
		URL:            "https://streeteasy.com/" + externalID,
		Title:          "Listing " + externalID,
		Address:        "1 Main St",
		Borough:        "Manhattan",
		PriceCents:     priceCents,
		BrokerFeeCents: &fee,
		IsNoFee:        false,
		Bedrooms:       1,
		Bathrooms:      1,
		Images:         []string{"https://img.example/" + externalID + ".jpg"},
		Features:       []string{"hardwood floors"},
	}, time.Now().UTC())
}

func TestPgStore_CreateAndGet(t *testing.T) {
	ctx, store := setupStore(t)

	apt := newTestApartment("se-1", 250000)
	if err := store.Create(ctx, apt); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	got, err := store.GetByExternalID(ctx, "se-1")
	if err != nil {
		t.Fatalf("GetByExternalID() failed: %v", err)
	}
	if got.ID != apt.ID {
		t.Errorf("ID = %v, want %v", got.ID, apt.ID)
	}
	if got.PriceCents != 250000 {
		t.Errorf("PriceCents = %d, want 250000", got.PriceCents)
	}
	if got.BrokerFeeCents == nil || *got.BrokerFeeCents != 150000 {
		t.Errorf("BrokerFeeCents = %v, want 150000", got.BrokerFeeCents)
	}
	if !got.IsActive {
		t.Error("newly created apartment should be active")
	}
	if len(got.Images) != 1 || len(got.Features) != 1 {
		t.Errorf("array columns not round-tripped: %v %v", got.Images, got.Features)
	}
}

func TestPgStore_ArchiveLifecycle(t *testing.T) {
	ctx, store := setupStore(t)

	apt := newTestApartment("se-1", 250000)
	if err := store.Create(ctx, apt); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	got, err := store.GetByExternalID(ctx, "se-1")
	if err != nil {
		t.Fatalf("GetByExternalID() failed: %v", err)
	}
	if got.IsArchived {
		t.Error("new apartment should not be archived")
	}

	got.IsArchived = true
	if err := store.Update(ctx, got); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	got, err = store.GetByExternalID(ctx, "se-1")
	if err != nil {
		t.Fatalf("GetByExternalID() failed: %v", err)
	}
	if !got.IsArchived {
		t.Fatal("archive flag not persisted")
	}

	// a feed reappearance clears the archive flag
	got.ApplyRecord(&got.Record, time.Now().UTC())
	if err := store.Update(ctx, got); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	got, err = store.GetByExternalID(ctx, "se-1")
	if err != nil {
		t.Fatalf("GetByExternalID() failed: %v", err)
	}
	if got.IsArchived {
		t.Error("archive flag not cleared by a fresh record")
	}
}

func TestPgStore_GetMissing(t *testing.T) {
	ctx, store := setupStore(t)

	_, err := store.GetByExternalID(ctx, "nope")
	if !errors.Is(err, ErrApartmentNotFound) {
		t.Fatalf("expected ErrApartmentNotFound, got %v", err)
	}
}

func TestPgStore_Update(t *testing.T) {
	ctx, store := setupStore(t)

	apt := newTestApartment("se-1", 250000)
	if err := store.Create(ctx, apt); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	apt.PriceCents = 260000
	apt.Title = "Renamed"
	if err := store.Update(ctx, apt); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	got, err := store.GetByExternalID(ctx, "se-1")
	if err != nil {
		t.Fatalf("GetByExternalID() failed: %v", err)
	}
	if got.PriceCents != 260000 || got.Title != "Renamed" {
		t.Errorf("update not persisted: %+v", got.Record)
	}
}

func TestPgStore_TouchReactivates(t *testing.T) {
	ctx, store := setupStore(t)

	apt := newTestApartment("se-1", 250000)
	apt.IsActive = false
	apt.LastSeenAt = time.Now().Add(-10 * 24 * time.Hour).UTC()
	if err := store.Create(ctx, apt); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	seenAt := time.Now().UTC()
	if err := store.Touch(ctx, apt.ID, seenAt); err != nil {
		t.Fatalf("Touch() failed: %v", err)
	}

	got, err := store.GetByExternalID(ctx, "se-1")
	if err != nil {
		t.Fatalf("GetByExternalID() failed: %v", err)
	}
	if !got.IsActive {
		t.Error("Touch did not re-activate the apartment")
	}
	if got.LastSeenAt.Unix() != seenAt.Unix() {
		t.Errorf("LastSeenAt = %v, want %v", got.LastSeenAt, seenAt)
	}
}

func TestPgStore_MarkInactiveStale(t *testing.T) {
	ctx, store := setupStore(t)

	stale := newTestApartment("stale", 200000)
	stale.LastSeenAt = time.Now().Add(-8 * 24 * time.Hour).UTC()
	fresh := newTestApartment("fresh", 200000)
	fresh.LastSeenAt = time.Now().Add(-3 * 24 * time.Hour).UTC()
	current := newTestApartment("current", 200000)

	for _, apt := range []*apartment.Apartment{stale, fresh, current} {
		if err := store.Create(ctx, apt); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	cutoff := time.Now().Add(-7 * 24 * time.Hour)
	removed, err := store.MarkInactiveStale(ctx, []string{"current"}, cutoff)
	if err != nil {
		t.Fatalf("MarkInactiveStale() failed: %v", err)
	}
	if len(removed) != 1 || removed[0] != stale.ID {
		t.Fatalf("removed = %v, want [%v]", removed, stale.ID)
	}

	got, _ := store.GetByExternalID(ctx, "stale")
	if got.IsActive {
		t.Error("stale apartment still active")
	}
	got, _ = store.GetByExternalID(ctx, "fresh")
	if !got.IsActive {
		t.Error("fresh apartment deactivated inside grace window")
	}

	// empty keep list must not touch anything
	removed, err = store.MarkInactiveStale(ctx, nil, cutoff)
	if err != nil {
		t.Fatalf("MarkInactiveStale(empty) failed: %v", err)
	}
	if len(removed) != 0 {
		t.Fatalf("empty batch removed %d apartments", len(removed))
	}
}

func TestPgStore_ListActiveByIDs(t *testing.T) {
	ctx, store := setupStore(t)

	active := newTestApartment("active", 300000)
	inactive := newTestApartment("inactive", 200000)
	inactive.IsActive = false

	for _, apt := range []*apartment.Apartment{active, inactive} {
		if err := store.Create(ctx, apt); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	got, err := store.ListActiveByIDs(ctx, []uuid.UUID{active.ID, inactive.ID})
	if err != nil {
		t.Fatalf("ListActiveByIDs() failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != active.ID {
		t.Fatalf("got %d apartments, want only the active one", len(got))
	}

	got, err = store.ListActiveByIDs(ctx, nil)
	if err != nil {
		t.Fatalf("ListActiveByIDs(nil) failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("empty id list returned %d apartments", len(got))
	}
}

func TestPgStore_CountActive(t *testing.T) {
	ctx, store := setupStore(t)

	a := newTestApartment("a", 200000)
	b := newTestApartment("b", 200000)
	b.IsActive = false
	for _, apt := range []*apartment.Apartment{a, b} {
		if err := store.Create(ctx, apt); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	count, err := store.CountActive(ctx)
	if err != nil {
		t.Fatalf("CountActive() failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("CountActive = %d, want 1", count)
	}
}

func TestPgStore_ActivePriceCents(t *testing.T) {
	ctx, store := setupStore(t)

	a := newTestApartment("a", 200000)
	b := newTestApartment("b", 350000)
	c := newTestApartment("c", 500000)
	c.IsActive = false
	for _, apt := range []*apartment.Apartment{a, b, c} {
		if err := store.Create(ctx, apt); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	prices, err := store.ActivePriceCents(ctx)
	if err != nil {
		t.Fatalf("ActivePriceCents() failed: %v", err)
	}
	if len(prices) != 2 {
		t.Fatalf("got %d prices, want 2", len(prices))
	}
	var sum int64
	for _, p := range prices {
		sum += p
	}
	if sum != 550000 {
		t.Fatalf("prices = %v, want 200000 and 350000", prices)
	}
}
