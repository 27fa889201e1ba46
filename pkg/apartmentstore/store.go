// Package apartmentstore persists apartments in PostgreSQL.
package apartmentstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/aptwatch/listing-pipeline/pkg/apartment"
)

// ErrApartmentNotFound is returned when a lookup finds no matching record.
var ErrApartmentNotFound = errors.New("apartment not found")

// Store defines apartment persistence as used by the reconciliation engine
// and the notification dispatcher.
type Store interface {
	GetByExternalID(ctx context.Context, externalID string) (*apartment.Apartment, error)
	Create(ctx context.Context, apt *apartment.Apartment) error
	Update(ctx context.Context, apt *apartment.Apartment) error
	Touch(ctx context.Context, id uuid.UUID, seenAt time.Time) error
	MarkInactiveStale(ctx context.Context, keepExternalIDs []string, cutoff time.Time) ([]uuid.UUID, error)
	ListActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]*apartment.Apartment, error)
	CountActive(ctx context.Context) (int64, error)
	ActivePriceCents(ctx context.Context) ([]int64, error)
}
