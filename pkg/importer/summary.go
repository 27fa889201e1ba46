package importer

import (
	"fmt"
	"math"
	"strings"
)

// Summary renders a human-readable digest of one parsed batch, suitable for
// operator logs and the import session record.
func Summary(result *Result, filename string, format Format) string {
	total := result.TotalRows()
	successRate := 0
	if total > 0 {
		successRate = int(math.Round(float64(len(result.Valid)) / float64(total) * 100))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Import Summary for %s:\n", filename)
	fmt.Fprintf(&b, "- Format: %s\n", strings.ToUpper(string(format)))
	fmt.Fprintf(&b, "- Total records: %d\n", total)
	fmt.Fprintf(&b, "- Successfully parsed: %d\n", len(result.Valid))
	fmt.Fprintf(&b, "- Errors: %d\n", len(result.Errors))
	fmt.Fprintf(&b, "- Success rate: %d%%\n", successRate)

	if len(result.Errors) > 0 {
		b.WriteString("\nFirst few errors:\n")
		for i, e := range result.Errors {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "Row %d: %s\n", e.Row, e.Error)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
