package listing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Candidate is the normalized but not yet validated form of a listing.
// Required fields use pointers so absence is distinguishable from zero.
type Candidate struct {
	ExternalID   string `validate:"required"`
	Source       string `validate:"required"`
	URL          string `validate:"required,url"`
	Title        string `validate:"required"`
	Address      string `validate:"required"`
	Neighborhood string
	Borough      string `default:"Manhattan"`

	Latitude  *float64 `validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `validate:"omitempty,gte=-180,lte=180"`

	Price           *float64 `validate:"required,gte=0"`
	BrokerFee       *float64 `validate:"omitempty,gte=0"`
	SecurityDeposit *float64 `validate:"omitempty,gte=0"`
	IsNoFee         bool

	Bedrooms  int      `validate:"gte=0"`
	Bathrooms int      `default:"1" validate:"gte=1"`
	Sqft      *float64 `validate:"omitempty,gt=0"`

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
	ContactEmail string `validate:"omitempty,email"`
	Description  string

	Images   []string
	Features []string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError aggregates every rule violation found in a candidate.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// fieldMessage renders one validator violation in the terms callers report
// back to feed operators.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// dollarsToCents converts a dollar amount to integer cents with half-up
// rounding. Feed prices arrive as floats, so the conversion goes through
// decimal to avoid picking up binary representation error.
func dollarsToCents(dollars float64) int64 {
	return decimal.NewFromFloat(dollars).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Validate checks a candidate against all field rules, applies defaults, and
// on success builds the immutable Record with monetary amounts converted to
// cents. All violations are collected; the returned error lists every one.
func (c *Candidate) Validate() (*Record, error) {
	verr := &ValidationError{}

	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}

	if err := validate.Struct(c); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, err
		}
		for _, fe := range fieldErrs {
			verr.Violations = append(verr.Violations, fieldMessage(fe))
		}
	}

	source := Source(c.Source)
	if c.Source != "" && !source.Known() {
		verr.Violations = append(verr.Violations,
			fmt.Sprintf("source must be one of %s", strings.Join(sourceNames(), ", ")))
	}
	if c.Price != nil && (math.IsNaN(*c.Price) || math.IsInf(*c.Price, 0)) {
		verr.Violations = append(verr.Violations, "Price must be a finite number")
	}
	if c.AvailableFrom != nil && c.AvailableTo != nil && c.AvailableTo.Before(*c.AvailableFrom) {
		verr.Violations = append(verr.Violations, "AvailableTo must not precede AvailableFrom")
	}

	if len(verr.Violations) > 0 {
		return nil, verr
	}

	rec := &Record{
		ExternalID:   c.ExternalID,
		Source:       source,
		URL:          c.URL,
		Title:        c.Title,
		Address:      c.Address,
		Neighborhood: c.Neighborhood,
		Borough:      c.Borough,
		Latitude:     c.Latitude,
		Longitude:    c.Longitude,

		PriceCents: dollarsToCents(*c.Price),
		IsNoFee:    c.IsNoFee,

		Bedrooms:  c.Bedrooms,
		Bathrooms: c.Bathrooms,

		Floor:       c.Floor,
		TotalFloors: c.TotalFloors,

		IsDoorman:          c.IsDoorman,
		HasConcierge:       c.HasConcierge,
		HasAC:              c.HasAC,
		HasDishwasher:      c.HasDishwasher,
		HasElevator:        c.HasElevator,
		HasLaundryUnit:     c.HasLaundryUnit,
		HasLaundryBuilding: c.HasLaundryBuilding,
		IsCatFriendly:      c.IsCatFriendly,

		AvailableFrom: c.AvailableFrom,
		AvailableTo:   c.AvailableTo,

		HasAsbestos:  c.HasAsbestos,
		HasLeadPaint: c.HasLeadPaint,
		HasBedbugs:   c.HasBedbugs,
		HasMold:      c.HasMold,

		ContactName:  c.ContactName,
		ContactPhone: c.ContactPhone,
		ContactEmail: c.ContactEmail,
		Description:  c.Description,
		Images:       c.Images,
		Features:     c.Features,
	}

	if c.BrokerFee != nil {
		cents := dollarsToCents(*c.BrokerFee)
		rec.BrokerFeeCents = &cents
	}
	if c.SecurityDeposit != nil {
		cents := dollarsToCents(*c.SecurityDeposit)
		rec.SecurityDepositCents = &cents
	}
	if c.Sqft != nil {
		sqft := int(*c.Sqft)
		rec.Sqft = &sqft
	}

	return rec, nil
}
