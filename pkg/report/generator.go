package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrReportNotFound is returned when no snapshot has been generated yet.
var ErrReportNotFound = errors.New("report not found")

// PriceLister is the slice of the apartment store the generator needs.
type PriceLister interface {
	ActivePriceCents(ctx context.Context) ([]int64, error)
}

// Store persists run snapshots.
type Store interface {
	Create(ctx context.Context, rep *Report) error
	Latest(ctx context.Context) (*Report, error)
}

// Generator builds and persists the snapshot closing out one scrape run.
type Generator struct {
	apartments PriceLister
	reports    Store
	logger     *zap.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(apartments PriceLister, reports Store, logger *zap.Logger) *Generator {
	return &Generator{
		apartments: apartments,
		reports:    reports,
		logger:     logger,
	}
}

// Generate snapshots the active catalog against the run's totals.
func (g *Generator) Generate(ctx context.Context, totals RunTotals) (*Report, error) {
	prices, err := g.apartments.ActivePriceCents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active prices: %w", err)
	}

	now := time.Now().UTC()
	rep := &Report{
		ID:   uuid.New(),
		Date: now,

		TotalListings:   len(prices),
		NewListings:     totals.NewListings,
		UpdatedListings: totals.UpdatedListings,
		RemovedListings: totals.RemovedListings,

		PriceStats: ComputePriceStats(prices),

		Summary:           Summarize(now, totals),
		NewApartments:     totals.NewApartments,
		UpdatedApartments: totals.UpdatedApartments,
	}

	if err := g.reports.Create(ctx, rep); err != nil {
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}

	g.logger.Info("run report generated",
		zap.Int("total_listings", rep.TotalListings),
		zap.Int("new", rep.NewListings),
		zap.Int("updated", rep.UpdatedListings),
		zap.Int("removed", rep.RemovedListings),
		zap.Int64("median_price_cents", rep.MedianPriceCents))
	return rep, nil
}
