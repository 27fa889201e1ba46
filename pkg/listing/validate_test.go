package listing

import (
	"strings"
	"testing"
	"time"
)

func validCandidate() *Candidate {
	price := 2850.0
	return &Candidate{
		ExternalID: "se-100",
		Source:     "streeteasy",
		URL:        "https://streeteasy.com/listing/se-100",
		Title:      "Sunny 1BR in Chelsea",
		Address:    "200 W 20th St",
		Price:      &price,
		Bedrooms:   1,
	}
}

func TestValidate_AppliesDefaults(t *testing.T) {
	rec, err := validCandidate().Validate()
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if rec.Borough != "Manhattan" {
		t.Errorf("Borough = %q, want Manhattan", rec.Borough)
	}
	if rec.Bathrooms != 1 {
		t.Errorf("Bathrooms = %d, want default 1", rec.Bathrooms)
	}
}

func TestValidate_CentsConversion(t *testing.T) {
	c := validCandidate()
	price := 2850.555
	fee := 0.1 + 0.2
	c.Price = &price
	c.BrokerFee = &fee

	rec, err := c.Validate()
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if rec.PriceCents != 285056 {
		t.Errorf("PriceCents = %d, want 285056", rec.PriceCents)
	}
	if rec.BrokerFeeCents == nil || *rec.BrokerFeeCents != 30 {
		t.Errorf("BrokerFeeCents = %v, want 30", rec.BrokerFeeCents)
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	price := -5.0
	c := &Candidate{
		ExternalID:   "",
		Source:       "craigslist",
		Title:        "",
		Address:      "1 Main St",
		Price:        &price,
		ContactEmail: "not-an-email",
	}

	_, err := c.Validate()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	msg := verr.Error()
	for _, want := range []string{
		"ExternalID is required",
		"URL is required",
		"Title is required",
		"Price must be at least 0",
		"ContactEmail must be a valid email address",
		"source must be one of",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("violations missing %q; got %q", want, msg)
		}
	}
}

func TestValidate_DateOrdering(t *testing.T) {
	c := validCandidate()
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	c.AvailableFrom = &from
	c.AvailableTo = &to

	_, err := c.Validate()
	if err == nil {
		t.Fatal("expected validation error for inverted availability window")
	}
	if !strings.Contains(err.Error(), "AvailableTo must not precede AvailableFrom") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_CoordinateBounds(t *testing.T) {
	c := validCandidate()
	lat := 91.0
	c.Latitude = &lat

	_, err := c.Validate()
	if err == nil {
		t.Fatal("expected validation error for out-of-range latitude")
	}
	if !strings.Contains(err.Error(), "Latitude must be at most 90") {
		t.Fatalf("unexpected error: %v", err)
	}
}
