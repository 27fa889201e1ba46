package apartmentstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/aptwatch/listing-pipeline/pkg/apartment"
	"github.com/aptwatch/listing-pipeline/pkg/listing"
)

// ApartmentDao is a data access object that maps directly to the 'apartments' table in PostgreSQL.
type ApartmentDao struct {
	bun.BaseModel `bun:"table:apartments,alias:a"`

	ID         uuid.UUID `bun:"id,pk,type:uuid"`
	ExternalID string    `bun:"external_id,unique,notnull,type:varchar(255)"`
	Source     string    `bun:"source,notnull,type:varchar(32)"`

	URL          string   `bun:"url,notnull,type:text"`
	Title        string   `bun:"title,notnull,type:text"`
	Address      string   `bun:"address,notnull,type:text"`
	Neighborhood string   `bun:"neighborhood,type:varchar(255)"`
	Borough      string   `bun:"borough,notnull,type:varchar(64)"`
	Latitude     *float64 `bun:"latitude"`
	Longitude    *float64 `bun:"longitude"`

	PriceCents           int64  `bun:"price_cents,notnull"`
	BrokerFeeCents       *int64 `bun:"broker_fee_cents"`
	SecurityDepositCents *int64 `bun:"security_deposit_cents"`
	IsNoFee              bool   `bun:"is_no_fee,notnull,default:false"`

	Bedrooms    int    `bun:"bedrooms,notnull,default:0"`
	Bathrooms   int    `bun:"bathrooms,notnull,default:1"`
	Sqft        *int   `bun:"sqft"`
	Floor       string `bun:"floor,type:varchar(32)"`
	TotalFloors string `bun:"total_floors,type:varchar(32)"`

	IsDoorman          bool `bun:"is_doorman,notnull,default:false"`
	HasConcierge       bool `bun:"has_concierge,notnull,default:false"`
	HasAC              bool `bun:"has_ac,notnull,default:false"`
	HasDishwasher      bool `bun:"has_dishwasher,notnull,default:false"`
	HasElevator        bool `bun:"has_elevator,notnull,default:false"`
	HasLaundryUnit     bool `bun:"has_laundry_unit,notnull,default:false"`
	HasLaundryBuilding bool `bun:"has_laundry_building,notnull,default:false"`
	IsCatFriendly      bool `bun:"is_cat_friendly,notnull,default:false"`

	AvailableFrom *time.Time `bun:"available_from"`
	AvailableTo   *time.Time `bun:"available_to"`

	HasAsbestos  bool `bun:"has_asbestos,notnull,default:false"`
	HasLeadPaint bool `bun:"has_lead_paint,notnull,default:false"`
	HasBedbugs   bool `bun:"has_bedbugs,notnull,default:false"`
	HasMold      bool `bun:"has_mold,notnull,default:false"`

	ContactName  string `bun:"contact_name,type:varchar(255)"`
	ContactPhone string `bun:"contact_phone,type:varchar(64)"`
	ContactEmail string `bun:"contact_email,type:varchar(255)"`
	Description  string `bun:"description,type:text"`

	Images   []string `bun:"images,array"`
	Features []string `bun:"features,array"`

	IsActive   bool      `bun:"is_active,notnull,default:true"`
	IsArchived bool      `bun:"is_archived,notnull,default:false"`
	LastSeenAt time.Time `bun:"last_seen_at,notnull"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,default:current_timestamp"`
}

// toApartmentDao converts an apartment.Apartment to ApartmentDao.
func toApartmentDao(apt *apartment.Apartment) *ApartmentDao {
	return &ApartmentDao{
		ID:         apt.ID,
		ExternalID: apt.ExternalID,
		Source:     string(apt.Source),

		URL:          apt.URL,
		Title:        apt.Title,
		Address:      apt.Address,
		Neighborhood: apt.Neighborhood,
		Borough:      apt.Borough,
		Latitude:     apt.Latitude,
		Longitude:    apt.Longitude,

		PriceCents:           apt.PriceCents,
		BrokerFeeCents:       apt.BrokerFeeCents,
		SecurityDepositCents: apt.SecurityDepositCents,
		IsNoFee:              apt.IsNoFee,

		Bedrooms:    apt.Bedrooms,
		Bathrooms:   apt.Bathrooms,
		Sqft:        apt.Sqft,
		Floor:       apt.Floor,
		TotalFloors: apt.TotalFloors,

		IsDoorman:          apt.IsDoorman,
		HasConcierge:       apt.HasConcierge,
		HasAC:              apt.HasAC,
		HasDishwasher:      apt.HasDishwasher,
		HasElevator:        apt.HasElevator,
		HasLaundryUnit:     apt.HasLaundryUnit,
		HasLaundryBuilding: apt.HasLaundryBuilding,
		IsCatFriendly:      apt.IsCatFriendly,

		AvailableFrom: apt.AvailableFrom,
		AvailableTo:   apt.AvailableTo,

		HasAsbestos:  apt.HasAsbestos,
		HasLeadPaint: apt.HasLeadPaint,
		HasBedbugs:   apt.HasBedbugs,
		HasMold:      apt.HasMold,

		ContactName:  apt.ContactName,
		ContactPhone: apt.ContactPhone,
		ContactEmail: apt.ContactEmail,
		Description:  apt.Description,

		Images:   apt.Images,
		Features: apt.Features,

		IsActive:   apt.IsActive,
		IsArchived: apt.IsArchived,
		LastSeenAt: apt.LastSeenAt,
		CreatedAt:  apt.CreatedAt,
		UpdatedAt:  apt.UpdatedAt,
	}
}

// toApartment converts an ApartmentDao to apartment.Apartment.
func toApartment(dao *ApartmentDao) *apartment.Apartment {
	return &apartment.Apartment{
		Record: listing.Record{
			ExternalID: dao.ExternalID,
			Source:     listing.Source(dao.Source),

			URL:          dao.URL,
			Title:        dao.Title,
			Address:      dao.Address,
			Neighborhood: dao.Neighborhood,
			Borough:      dao.Borough,
			Latitude:     dao.Latitude,
			Longitude:    dao.Longitude,

			PriceCents:           dao.PriceCents,
			BrokerFeeCents:       dao.BrokerFeeCents,
			SecurityDepositCents: dao.SecurityDepositCents,
			IsNoFee:              dao.IsNoFee,

			Bedrooms:    dao.Bedrooms,
			Bathrooms:   dao.Bathrooms,
			Sqft:        dao.Sqft,
			Floor:       dao.Floor,
			TotalFloors: dao.TotalFloors,

			IsDoorman:          dao.IsDoorman,
			HasConcierge:       dao.HasConcierge,
			HasAC:              dao.HasAC,
			HasDishwasher:      dao.HasDishwasher,
			HasElevator:        dao.HasElevator,
			HasLaundryUnit:     dao.HasLaundryUnit,
			HasLaundryBuilding: dao.HasLaundryBuilding,
			IsCatFriendly:      dao.IsCatFriendly,

			AvailableFrom: dao.AvailableFrom,
			AvailableTo:   dao.AvailableTo,

			HasAsbestos:  dao.HasAsbestos,
			HasLeadPaint: dao.HasLeadPaint,
			HasBedbugs:   dao.HasBedbugs,
			HasMold:      dao.HasMold,

			ContactName:  dao.ContactName,
			ContactPhone: dao.ContactPhone,
			ContactEmail: dao.ContactEmail,
			Description:  dao.Description,

			Images:   dao.Images,
			Features: dao.Features,
		},

		ID:         dao.ID,
		IsActive:   dao.IsActive,
		IsArchived: dao.IsArchived,
		LastSeenAt: dao.LastSeenAt,
		CreatedAt:  dao.CreatedAt,
		UpdatedAt:  dao.UpdatedAt,
	}
}
