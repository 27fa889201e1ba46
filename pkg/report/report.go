// Package report persists a market snapshot after each scrape run: how many
// listings the run produced and where active prices landed afterwards.
package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// RunTotals aggregates reconciliation counts across all sources of one run.
type RunTotals struct {
	NewListings       int
	UpdatedListings   int
	RemovedListings   int
	NewApartments     []uuid.UUID
	UpdatedApartments []uuid.UUID
}

// PriceStats summarizes active listing prices in cents. Median is the upper
// median for even-sized sets.
type PriceStats struct {
	AveragePriceCents int64 `json:"averagePriceCents"`
	MedianPriceCents  int64 `json:"medianPriceCents"`
	LowestPriceCents  int64 `json:"lowestPriceCents"`
	HighestPriceCents int64 `json:"highestPriceCents"`
}

// ComputePriceStats folds a price list into summary statistics. An empty
// list yields all zeroes.
func ComputePriceStats(prices []int64) PriceStats {
	if len(prices) == 0 {
		return PriceStats{}
	}

	sorted := make([]int64, len(prices))
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum int64
	for _, p := range sorted {
		sum += p
	}

	return PriceStats{
		AveragePriceCents: int64(math.Round(float64(sum) / float64(len(sorted)))),
		MedianPriceCents:  sorted[len(sorted)/2],
		LowestPriceCents:  sorted[0],
		HighestPriceCents: sorted[len(sorted)-1],
	}
}

// Report is one persisted run snapshot.
type Report struct {
	ID   uuid.UUID `json:"id"`
	Date time.Time `json:"date"`

	TotalListings   int `json:"totalListings"`
	NewListings     int `json:"newListings"`
	UpdatedListings int `json:"updatedListings"`
	RemovedListings int `json:"removedListings"`

	PriceStats

	Summary           string      `json:"summary"`
	NewApartments     []uuid.UUID `json:"newApartments"`
	UpdatedApartments []uuid.UUID `json:"updatedApartments"`
	CreatedAt         time.Time   `json:"createdAt"`
}

// Summarize renders the one-line digest stored with the snapshot.
func Summarize(date time.Time, totals RunTotals) string {
	return fmt.Sprintf("Scrape report for %s: found %d new listings and updated %d existing listings.",
		date.Format("Mon Jan 2 2006"), totals.NewListings, totals.UpdatedListings)
}
