package listing

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// The normalizer is deliberately total: malformed scalar input degrades to a
// missing value instead of failing the record, so one sloppy column in a
// scraped feed does not cost the whole row.

// ParseNumber coerces a raw feed value into a float64. Numeric types pass
// through; strings are stripped of currency symbols and thousands separators
// before parsing. Returns ok=false for empty or non-numeric input.
func ParseNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		cleaned := strings.ReplaceAll(strings.ReplaceAll(v, "$", ""), ",", "")
		cleaned = strings.TrimSpace(cleaned)
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ParseBool coerces a raw feed value into a bool. True for boolean true,
// nonzero numbers, and the usual affirmative strings; everything else is
// false.
func ParseBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1", "y", "on":
			return true
		}
		return false
	default:
		return false
	}
}

// ParseStringArray coerces a raw feed value into a string slice. Arrays pass
// through; strings are tried as a JSON array first, then comma-split with
// empty segments dropped.
func ParseStringArray(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}
		}
		var parsed any
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			// valid JSON that is not an array yields nothing; only
			// non-JSON strings fall through to the comma split
			arr, ok := parsed.([]any)
			if !ok {
				return []string{}
			}
			out := make([]string, 0, len(arr))
			for _, item := range arr {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
			return out
		}
		out := []string{}
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	default:
		return []string{}
	}
}

// dateFormats are tried in order when a date arrives as a string.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// ParseDate coerces a raw feed value into a timestamp. Returns ok=false when
// the value is absent or unparseable.
func ParseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, format := range dateFormats {
			if t, err := time.Parse(format, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// fieldAliases maps canonical field names to the snake_case synonyms accepted
// from external feeds. Consulted once during normalization; a truthy value
// under any synonym counts.
var fieldAliases = map[string][]string{
	"isNoFee":            {"no_fee", "noFee"},
	"isDoorman":          {"doorman"},
	"hasConcierge":       {"concierge"},
	"hasAC":              {"ac", "air_conditioning"},
	"hasDishwasher":      {"dishwasher"},
	"hasElevator":        {"elevator"},
	"hasLaundryUnit":     {"laundry_unit"},
	"hasLaundryBuilding": {"laundry_building"},
	"isCatFriendly":      {"cat_friendly", "pets_allowed"},
	"hasAsbestos":        {"asbestos"},
	"hasLeadPaint":       {"lead_paint"},
	"hasBedbugs":         {"bedbugs"},
	"hasMold":            {"mold"},
}

// RawRecord is the weakly typed pre-validation representation of one listing,
// as decoded from a CSV row or JSON object.
type RawRecord map[string]any

func (r RawRecord) str(key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func (r RawRecord) boolField(key string) bool {
	if ParseBool(r[key]) {
		return true
	}
	for _, alias := range fieldAliases[key] {
		if ParseBool(r[alias]) {
			return true
		}
	}
	return false
}

func (r RawRecord) numField(key string) *float64 {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	f, ok := ParseNumber(v)
	if !ok {
		return nil
	}
	return &f
}

func (r RawRecord) dateField(key string) *time.Time {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	t, ok := ParseDate(v)
	if !ok {
		return nil
	}
	return &t
}

// Normalize coerces a raw record's heterogeneous field representations into
// the typed Candidate handed to Validate. It never fails: unusable values
// simply end up missing and are for the validator to judge.
func Normalize(raw RawRecord) *Candidate {
	c := &Candidate{
		ExternalID:   raw.str("externalId"),
		Source:       strings.ToLower(raw.str("source")),
		URL:          raw.str("url"),
		Title:        raw.str("title"),
		Address:      raw.str("address"),
		Neighborhood: raw.str("neighborhood"),
		Borough:      raw.str("borough"),

		Latitude:  raw.numField("latitude"),
		Longitude: raw.numField("longitude"),

		Price:           raw.numField("price"),
		BrokerFee:       raw.numField("brokerFee"),
		SecurityDeposit: raw.numField("securityDeposit"),
		IsNoFee:         raw.boolField("isNoFee"),

		Sqft:        raw.numField("sqft"),
		Floor:       raw.str("floor"),
		TotalFloors: raw.str("totalFloors"),

		IsDoorman:          raw.boolField("isDoorman"),
		HasConcierge:       raw.boolField("hasConcierge"),
		HasAC:              raw.boolField("hasAC"),
		HasDishwasher:      raw.boolField("hasDishwasher"),
		HasElevator:        raw.boolField("hasElevator"),
		HasLaundryUnit:     raw.boolField("hasLaundryUnit"),
		HasLaundryBuilding: raw.boolField("hasLaundryBuilding"),
		IsCatFriendly:      raw.boolField("isCatFriendly"),

		AvailableFrom: raw.dateField("availableFrom"),
		AvailableTo:   raw.dateField("availableTo"),

		HasAsbestos:  raw.boolField("hasAsbestos"),
		HasLeadPaint: raw.boolField("hasLeadPaint"),
		HasBedbugs:   raw.boolField("hasBedbugs"),
		HasMold:      raw.boolField("hasMold"),

		ContactName:  raw.str("contactName"),
		ContactPhone: raw.str("contactPhone"),
		ContactEmail: raw.str("contactEmail"),
		Description:  raw.str("description"),

		Images:   ParseStringArray(raw["images"]),
		Features: ParseStringArray(raw["features"]),
	}

	if bedrooms := raw.numField("bedrooms"); bedrooms != nil {
		c.Bedrooms = int(*bedrooms)
	}
	if bathrooms := raw.numField("bathrooms"); bathrooms != nil {
		c.Bathrooms = int(*bathrooms)
	}

	return c
}
