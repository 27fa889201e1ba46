package reconcile

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// SyncError is one failed record within an otherwise continuing sync.
// ExternalID is empty for batch-level failures such as stale-marking.
type SyncError struct {
	ExternalID string `json:"externalId,omitempty"`
	Error      string `json:"error"`
}

// Stats aggregates the outcome counts of one sync.
type Stats struct {
	TotalProcessed int `json:"totalProcessed"`
	NewCount       int `json:"newCount"`
	UpdatedCount   int `json:"updatedCount"`
	RemovedCount   int `json:"removedCount"`
	ErrorCount     int `json:"errorCount"`
}

// SyncResult is the full outcome of one reconciliation run. It is persisted
// verbatim as the session's detail snapshot.
type SyncResult struct {
	NewApartments     []uuid.UUID `json:"newApartments"`
	UpdatedApartments []uuid.UUID `json:"updatedApartments"`
	RemovedApartments []uuid.UUID `json:"removedApartments"`
	Errors            []SyncError `json:"errors"`
	Stats             Stats       `json:"stats"`
}

func newSyncResult(total int) *SyncResult {
	return &SyncResult{
		NewApartments:     []uuid.UUID{},
		UpdatedApartments: []uuid.UUID{},
		RemovedApartments: []uuid.UUID{},
		Errors:            []SyncError{},
		Stats:             Stats{TotalProcessed: total},
	}
}

func (r *SyncResult) finalize() {
	r.Stats.NewCount = len(r.NewApartments)
	r.Stats.UpdatedCount = len(r.UpdatedApartments)
	r.Stats.RemovedCount = len(r.RemovedApartments)
	r.Stats.ErrorCount = len(r.Errors)
}

// ErrorStrings flattens the error list for the session audit record.
func (r *SyncResult) ErrorStrings() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		if e.ExternalID != "" {
			out[i] = fmt.Sprintf("%s: %s", e.ExternalID, e.Error)
		} else {
			out[i] = e.Error
		}
	}
	return out
}

// GenerateSyncSummary renders a human-readable digest of one sync run.
func GenerateSyncSummary(result *SyncResult, source string) string {
	total := result.Stats.TotalProcessed
	successRate := 0
	if total > 0 {
		succeeded := result.Stats.NewCount + result.Stats.UpdatedCount
		successRate = int(math.Round(float64(succeeded) / float64(total) * 100))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Database Sync Summary (%s):\n", source)
	fmt.Fprintf(&b, "- Total processed: %d\n", total)
	fmt.Fprintf(&b, "- New apartments: %d\n", result.Stats.NewCount)
	fmt.Fprintf(&b, "- Updated apartments: %d\n", result.Stats.UpdatedCount)
	fmt.Fprintf(&b, "- Removed/inactive: %d\n", result.Stats.RemovedCount)
	fmt.Fprintf(&b, "- Errors: %d\n", result.Stats.ErrorCount)
	fmt.Fprintf(&b, "- Success rate: %d%%\n", successRate)

	if len(result.Errors) > 0 {
		b.WriteString("\nFirst few errors:\n")
		for i, e := range result.Errors {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "%s: %s\n", e.ExternalID, e.Error)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
