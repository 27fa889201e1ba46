// Package importer parses uploaded CSV and JSON listing batches into
// validated records, isolating per-row failures so one bad row never sinks
// a file.
package importer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aptwatch/listing-pipeline/pkg/listing"
)

// Format identifies the wire format of an uploaded batch.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// RowError records one rejected row. Row is the 1-based data row index,
// counted from the first row after the CSV header (or the first array
// element for JSON).
type RowError struct {
	Row   int    `json:"row"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error"`
}

// Result is the outcome of parsing one batch: the rows that survived
// normalization and validation, and everything that did not.
type Result struct {
	Valid  []*listing.Record `json:"valid"`
	Errors []RowError        `json:"errors"`
}

// TotalRows is the number of data rows seen in the batch.
func (r *Result) TotalRows() int {
	return len(r.Valid) + len(r.Errors)
}

// ValidateBatch runs each raw record through normalization and validation,
// rejecting intra-batch duplicates of the same externalId so a later row
// cannot silently overwrite an earlier one during reconciliation.
func ValidateBatch(raws []listing.RawRecord) *Result {
	result := &Result{Valid: []*listing.Record{}, Errors: []RowError{}}
	seen := make(map[string]int, len(raws))

	for i, raw := range raws {
		row := i + 1
		rec, err := listing.Normalize(raw).Validate()
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: row, Data: raw, Error: err.Error()})
			continue
		}
		if firstRow, dup := seen[rec.ExternalID]; dup {
			result.Errors = append(result.Errors, RowError{
				Row:   row,
				Data:  raw,
				Error: fmt.Sprintf("duplicate externalId %q (first seen at row %d)", rec.ExternalID, firstRow),
			})
			continue
		}
		seen[rec.ExternalID] = row
		result.Valid = append(result.Valid, rec)
	}

	return result
}

// ParseCSV reads a header-prefixed CSV batch. Unknown columns are ignored;
// ragged rows are tolerated. Only an unreadable stream or a missing header
// fails the whole batch.
func ParseCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv batch is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	var raws []listing.RawRecord
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", len(raws)+1, err)
		}
		raw := make(listing.RawRecord, len(header))
		for i, col := range header {
			if i < len(fields) && fields[i] != "" {
				raw[col] = fields[i]
			}
		}
		raws = append(raws, raw)
	}

	return ValidateBatch(raws), nil
}

// ParseJSON reads a JSON batch: a bare array of listing objects, an object
// with a top-level "listings" array, or a single listing object treated as a
// one-element batch.
func ParseJSON(data []byte) (*Result, error) {
	var raws []listing.RawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		var wrapper struct {
			Listings []listing.RawRecord `json:"listings"`
		}
		if json.Unmarshal(data, &wrapper) == nil && wrapper.Listings != nil {
			raws = wrapper.Listings
		} else {
			var single listing.RawRecord
			if err := json.Unmarshal(data, &single); err != nil {
				return nil, fmt.Errorf("json batch must be a listing object or an array of listing objects: %w", err)
			}
			raws = []listing.RawRecord{single}
		}
	}

	return ValidateBatch(raws), nil
}
