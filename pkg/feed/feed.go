// Package feed fetches raw listing batches from remote JSON feeds.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/aptwatch/listing-pipeline/pkg/config"
	"github.com/aptwatch/listing-pipeline/pkg/listing"
)

// Client downloads listing feeds over HTTP. Feeds respond with either a bare
// JSON array of listing objects or an object wrapping one under "listings".
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a feed client with the configured request timeout.
func NewClient(cfg *config.FeedsConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
	}
}

const maxFeedBytes = 32 << 20

// Fetch downloads one feed and decodes it into raw records.
func (c *Client) Fetch(ctx context.Context, url string) ([]listing.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}

	var raws []listing.RawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		var wrapper struct {
			Listings []listing.RawRecord `json:"listings"`
		}
		if werr := json.Unmarshal(data, &wrapper); werr != nil || wrapper.Listings == nil {
			return nil, fmt.Errorf("feed is not a listing array: %w", err)
		}
		raws = wrapper.Listings
	}

	c.logger.Debug("feed fetched", zap.String("url", url), zap.Int("listings", len(raws)))
	return raws, nil
}
