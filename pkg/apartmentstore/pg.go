package apartmentstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/aptwatch/listing-pipeline/pkg/apartment"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the apartment store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) GetByExternalID(ctx context.Context, externalID string) (*apartment.Apartment, error) {
	dao := new(ApartmentDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("external_id = ?", externalID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApartmentNotFound
		}
		return nil, fmt.Errorf("failed to get apartment: %w", err)
	}
	return toApartment(dao), nil
}

func (s *pgStore) Create(ctx context.Context, apt *apartment.Apartment) error {
	dao := toApartmentDao(apt)

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create apartment: %w", err)
	}
	return nil
}

func (s *pgStore) Update(ctx context.Context, apt *apartment.Apartment) error {
	dao := toApartmentDao(apt)
	dao.UpdatedAt = time.Now().UTC()

	res, err := s.db.NewUpdate().
		Model(dao).
		WherePK().
		ExcludeColumn("created_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update apartment: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrApartmentNotFound
	}
	return nil
}

// Touch refreshes last_seen_at for a listing that reappeared unchanged and
// re-activates it if it had gone stale.
func (s *pgStore) Touch(ctx context.Context, id uuid.UUID, seenAt time.Time) error {
	res, err := s.db.NewUpdate().
		Model((*ApartmentDao)(nil)).
		Set("last_seen_at = ?", seenAt).
		Set("is_active = TRUE").
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to touch apartment: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrApartmentNotFound
	}
	return nil
}

// MarkInactiveStale deactivates active listings that were absent from the
// current batch and have not been seen since before cutoff. An empty batch
// is a no-op so a failed feed never wipes the catalog. Returns the IDs of
// the listings deactivated.
func (s *pgStore) MarkInactiveStale(ctx context.Context, keepExternalIDs []string, cutoff time.Time) ([]uuid.UUID, error) {
	if len(keepExternalIDs) == 0 {
		return nil, nil
	}

	var stale []ApartmentDao
	err := s.db.NewSelect().
		Model(&stale).
		Column("id").
		Where("is_active = TRUE").
		Where("external_id NOT IN (?)", bun.In(keepExternalIDs)).
		Where("last_seen_at < ?", cutoff).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find stale apartments: %w", err)
	}
	if len(stale) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(stale))
	for i := range stale {
		ids[i] = stale[i].ID
	}

	_, err = s.db.NewUpdate().
		Model((*ApartmentDao)(nil)).
		Set("is_active = FALSE").
		Set("updated_at = ?", time.Now().UTC()).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to mark stale apartments inactive: %w", err)
	}
	return ids, nil
}

func (s *pgStore) ListActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]*apartment.Apartment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var daos []ApartmentDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("id IN (?)", bun.In(ids)).
		Where("is_active = TRUE").
		Order("price_cents ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list apartments: %w", err)
	}

	apartments := make([]*apartment.Apartment, len(daos))
	for i := range daos {
		apartments[i] = toApartment(&daos[i])
	}
	return apartments, nil
}

// ActivePriceCents lists the price of every active listing, feeding the
// run report's price statistics.
func (s *pgStore) ActivePriceCents(ctx context.Context) ([]int64, error) {
	var prices []int64
	err := s.db.NewSelect().
		Model((*ApartmentDao)(nil)).
		Column("price_cents").
		Where("is_active = TRUE").
		Scan(ctx, &prices)
	if err != nil {
		return nil, fmt.Errorf("failed to list active prices: %w", err)
	}
	return prices, nil
}

func (s *pgStore) CountActive(ctx context.Context) (int64, error) {
	count, err := s.db.NewSelect().
		Model((*ApartmentDao)(nil)).
		Where("is_active = TRUE").
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count active apartments: %w", err)
	}
	return int64(count), nil
}
