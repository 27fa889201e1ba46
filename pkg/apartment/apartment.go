// Package apartment defines the persisted apartment entity: a validated
// listing record plus the lifecycle state the reconciliation engine manages.
package apartment

import (
	"time"

	"github.com/google/uuid"

	"github.com/aptwatch/listing-pipeline/pkg/listing"
)

// Apartment is one persisted listing. The embedded Record carries the
// listing payload; the remaining fields track reconciliation lifecycle.
// IsActive is false once the listing stopped appearing in its source feed
// for longer than the configured grace period. IsArchived marks listings
// taken out of circulation by hand; any reappearance in a feed clears it.
type Apartment struct {
	listing.Record

	ID         uuid.UUID
	IsActive   bool
	IsArchived bool
	LastSeenAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// New builds an active apartment from a freshly validated record.
func New(rec *listing.Record, seenAt time.Time) *Apartment {
	return &Apartment{
		Record:     *rec,
		ID:         uuid.New(),
		IsActive:   true,
		LastSeenAt: seenAt,
	}
}

// ApplyRecord overwrites the listing payload with a newer version of the
// same logical listing and refreshes the lifecycle state.
func (a *Apartment) ApplyRecord(rec *listing.Record, seenAt time.Time) {
	a.Record = *rec
	a.IsActive = true
	a.IsArchived = false
	a.LastSeenAt = seenAt
}
