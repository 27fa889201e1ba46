// Package notify dispatches SMS alerts to subscribers when new listings that
// match their alert preferences land in the store.
package notify

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber is one person receiving listing alerts.
type Subscriber struct {
	ID          uuid.UUID
	PhoneNumber string
	IsVerified  bool
	SMSEnabled  bool
	NoFeeAlerts bool
	DailyDigest bool
}

// Eligible reports whether the subscriber should receive no-fee alerts.
func (s *Subscriber) Eligible() bool {
	return s.IsVerified && s.SMSEnabled && s.NoFeeAlerts
}

// DigestEligible reports whether the subscriber should receive the
// end-of-run digest.
func (s *Subscriber) DigestEligible() bool {
	return s.IsVerified && s.SMSEnabled && s.DailyDigest
}

// Delivery status of a logged notification.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Notification is the audit record of one delivery attempt.
type Notification struct {
	ID           uuid.UUID
	SubscriberID uuid.UUID
	Type         string
	Title        string
	Message      string
	SessionID    uuid.UUID
	ApartmentIDs []uuid.UUID
	Status       string
	SentAt       *time.Time
	ErrorMessage string
	CreatedAt    time.Time
}
