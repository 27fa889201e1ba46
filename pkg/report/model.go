package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ReportDao is a data access object that maps directly to the 'reports' table in PostgreSQL.
type ReportDao struct {
	bun.BaseModel `bun:"table:reports,alias:rep"`

	ID   uuid.UUID `bun:"id,pk,type:uuid"`
	Date time.Time `bun:"date,notnull"`

	TotalListings   int `bun:"total_listings,notnull,default:0"`
	NewListings     int `bun:"new_listings,notnull,default:0"`
	UpdatedListings int `bun:"updated_listings,notnull,default:0"`
	RemovedListings int `bun:"removed_listings,notnull,default:0"`

	AveragePriceCents int64 `bun:"average_price_cents,notnull,default:0"`
	MedianPriceCents  int64 `bun:"median_price_cents,notnull,default:0"`
	LowestPriceCents  int64 `bun:"lowest_price_cents,notnull,default:0"`
	HighestPriceCents int64 `bun:"highest_price_cents,notnull,default:0"`

	Summary           string      `bun:"summary,notnull,type:text"`
	NewApartments     []uuid.UUID `bun:"new_apartments,array,type:uuid[]"`
	UpdatedApartments []uuid.UUID `bun:"updated_apartments,array,type:uuid[]"`
	CreatedAt         time.Time   `bun:"created_at,nullzero,default:current_timestamp"`
}

func toReportDao(rep *Report) *ReportDao {
	return &ReportDao{
		ID:   rep.ID,
		Date: rep.Date,

		TotalListings:   rep.TotalListings,
		NewListings:     rep.NewListings,
		UpdatedListings: rep.UpdatedListings,
		RemovedListings: rep.RemovedListings,

		AveragePriceCents: rep.AveragePriceCents,
		MedianPriceCents:  rep.MedianPriceCents,
		LowestPriceCents:  rep.LowestPriceCents,
		HighestPriceCents: rep.HighestPriceCents,

		Summary:           rep.Summary,
		NewApartments:     rep.NewApartments,
		UpdatedApartments: rep.UpdatedApartments,
		CreatedAt:         rep.CreatedAt,
	}
}

func toReport(dao *ReportDao) *Report {
	return &Report{
		ID:   dao.ID,
		Date: dao.Date,

		TotalListings:   dao.TotalListings,
		NewListings:     dao.NewListings,
		UpdatedListings: dao.UpdatedListings,
		RemovedListings: dao.RemovedListings,

		PriceStats: PriceStats{
			AveragePriceCents: dao.AveragePriceCents,
			MedianPriceCents:  dao.MedianPriceCents,
			LowestPriceCents:  dao.LowestPriceCents,
			HighestPriceCents: dao.HighestPriceCents,
		},

		Summary:           dao.Summary,
		NewApartments:     dao.NewApartments,
		UpdatedApartments: dao.UpdatedApartments,
		CreatedAt:         dao.CreatedAt,
	}
}
