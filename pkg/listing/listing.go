// Package listing holds the canonical listing domain model and the
// normalization/validation boundary between raw external feed data and the
// strongly typed records the rest of the pipeline operates on.
package listing

import "time"

// Source identifies the external site a listing was collected from.
type Source string

const (
	SourceStreetEasy Source = "streeteasy"
	SourceZillow     Source = "zillow"
	SourceApartments Source = "apartments"
	SourceRedfin     Source = "redfin"
	SourceTrulia     Source = "trulia"
	SourceOther      Source = "other"
)

// KnownSources lists every accepted Source value.
var KnownSources = []Source{
	SourceStreetEasy,
	SourceZillow,
	SourceApartments,
	SourceRedfin,
	SourceTrulia,
	SourceOther,
}

// Known reports whether s is one of the accepted source values.
func (s Source) Known() bool {
	for _, known := range KnownSources {
		if s == known {
			return true
		}
	}
	return false
}

func sourceNames() []string {
	names := make([]string, len(KnownSources))
	for i, s := range KnownSources {
		names[i] = string(s)
	}
	return names
}

// Record is one validated external listing. Prices are integer cents.
// A Record is only produced by Validate and is treated as immutable
// afterwards: the ExternalID/Source pair identifies one logical listing
// across re-imports.
type Record struct {
	ExternalID string
	Source     Source

	URL          string
	Title        string
	Address      string
	Neighborhood string
	Borough      string

	Latitude  *float64
	Longitude *float64

	PriceCents           int64
	BrokerFeeCents       *int64
	SecurityDepositCents *int64
	IsNoFee              bool

	Bedrooms    int
	Bathrooms   int
	Sqft        *int
	Floor       string
	TotalFloors string

	IsDoorman          bool
	HasConcierge       bool
	HasAC              bool
	HasDishwasher      bool
	HasElevator        bool
	HasLaundryUnit     bool
	HasLaundryBuilding bool
	IsCatFriendly      bool

	AvailableFrom *time.Time
	AvailableTo   *time.Time

	HasAsbestos  bool
	HasLeadPaint bool
	HasBedbugs   bool
	HasMold      bool

	ContactName  string
	ContactPhone string
	ContactEmail string
	Description  string

	Images   []string
	Features []string
}
