package reconcile

import (
	"time"

	"github.com/aptwatch/listing-pipeline/pkg/listing"
)

// HasSignificantChanges compares the fields that warrant a full update when
// they differ between the persisted record and a fresh import. URL, images,
// and features are deliberately excluded: cosmetic churn on those fields
// would otherwise rewrite rows on every run. Dates compare by timestamp
// equality so formatting differences never count as changes.
func HasSignificantChanges(existing, incoming *listing.Record) bool {
	if existing.PriceCents != incoming.PriceCents {
		return true
	}
	if !int64PtrEqual(existing.BrokerFeeCents, incoming.BrokerFeeCents) {
		return true
	}
	if !int64PtrEqual(existing.SecurityDepositCents, incoming.SecurityDepositCents) {
		return true
	}
	if existing.IsNoFee != incoming.IsNoFee {
		return true
	}

	if existing.Title != incoming.Title ||
		existing.Address != incoming.Address ||
		existing.Neighborhood != incoming.Neighborhood {
		return true
	}

	if existing.Bedrooms != incoming.Bedrooms ||
		existing.Bathrooms != incoming.Bathrooms ||
		!intPtrEqual(existing.Sqft, incoming.Sqft) {
		return true
	}

	if !timePtrEqual(existing.AvailableFrom, incoming.AvailableFrom) ||
		!timePtrEqual(existing.AvailableTo, incoming.AvailableTo) {
		return true
	}

	if existing.IsDoorman != incoming.IsDoorman ||
		existing.HasConcierge != incoming.HasConcierge ||
		existing.HasAC != incoming.HasAC ||
		existing.HasDishwasher != incoming.HasDishwasher ||
		existing.HasElevator != incoming.HasElevator ||
		existing.HasLaundryUnit != incoming.HasLaundryUnit ||
		existing.HasLaundryBuilding != incoming.HasLaundryBuilding ||
		existing.IsCatFriendly != incoming.IsCatFriendly {
		return true
	}

	if existing.HasAsbestos != incoming.HasAsbestos ||
		existing.HasLeadPaint != incoming.HasLeadPaint ||
		existing.HasBedbugs != incoming.HasBedbugs ||
		existing.HasMold != incoming.HasMold {
		return true
	}

	if existing.ContactName != incoming.ContactName ||
		existing.ContactPhone != incoming.ContactPhone ||
		existing.ContactEmail != incoming.ContactEmail {
		return true
	}

	return existing.Description != incoming.Description
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
