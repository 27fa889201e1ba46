package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aptwatch/listing-pipeline/internal/metrics"
	"github.com/aptwatch/listing-pipeline/pkg/apartment"
)

// ApartmentLister is the slice of the apartment store the dispatcher needs.
type ApartmentLister interface {
	ListActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]*apartment.Apartment, error)
}

// Policy decides whether a newly created apartment is alert-worthy.
type Policy func(apt *apartment.Apartment) bool

// NoFeeOnly is the default policy: alert on new no-fee listings.
func NoFeeOnly(apt *apartment.Apartment) bool {
	return apt.IsNoFee
}

// Dispatcher fans out SMS alerts for newly imported listings. Delivery
// failures are logged per subscriber and never fail the pipeline run.
type Dispatcher struct {
	apartments    ApartmentLister
	subscribers   SubscriberStore
	notifications NotificationStore
	sender        Sender
	policy        Policy
	logger        *zap.Logger
}

// NewDispatcher creates a Dispatcher. A nil policy defaults to NoFeeOnly.
func NewDispatcher(
	apartments ApartmentLister,
	subscribers SubscriberStore,
	notifications NotificationStore,
	sender Sender,
	policy Policy,
	logger *zap.Logger,
) *Dispatcher {
	if policy == nil {
		policy = NoFeeOnly
	}
	return &Dispatcher{
		apartments:    apartments,
		subscribers:   subscribers,
		notifications: notifications,
		sender:        sender,
		policy:        policy,
		logger:        logger,
	}
}

// ComposeAlert renders the SMS body for a set of alert-worthy apartments:
// the first three summarized, the remainder counted.
func ComposeAlert(apartments []*apartment.Apartment) string {
	summaries := make([]string, 0, 3)
	for i, apt := range apartments {
		if i == 3 {
			break
		}
		beds := "Studio"
		if apt.Bedrooms > 0 {
			beds = fmt.Sprintf("%dBR", apt.Bedrooms)
		}
		hood := apt.Neighborhood
		if hood == "" {
			hood = "Manhattan"
		}
		dollars := (apt.PriceCents + 50) / 100
		summaries = append(summaries, fmt.Sprintf("%s in %s - $%d", beds, hood, dollars))
	}

	moreText := ""
	if len(apartments) > 3 {
		moreText = fmt.Sprintf(" and %d more", len(apartments)-3)
	}

	return fmt.Sprintf("🏠 NEW NO-FEE APARTMENTS: %s%s. Check your dashboard for details!",
		strings.Join(summaries, ", "), moreText)
}

// DispatchNewListings sends one alert per eligible subscriber covering the
// alert-worthy apartments among newIDs. A run with nothing to say is a no-op.
func (d *Dispatcher) DispatchNewListings(ctx context.Context, newIDs []uuid.UUID, sessionID uuid.UUID) error {
	if len(newIDs) == 0 {
		return nil
	}

	candidates, err := d.apartments.ListActiveByIDs(ctx, newIDs)
	if err != nil {
		return fmt.Errorf("failed to load new apartments: %w", err)
	}

	matched := make([]*apartment.Apartment, 0, len(candidates))
	for _, apt := range candidates {
		if d.policy(apt) {
			matched = append(matched, apt)
		}
	}
	if len(matched) == 0 {
		d.logger.Info("no alert-worthy apartments in batch", zap.String("session_id", sessionID.String()))
		return nil
	}

	subscribers, err := d.subscribers.ListEligible(ctx)
	if err != nil {
		return fmt.Errorf("failed to load subscribers: %w", err)
	}
	if len(subscribers) == 0 {
		d.logger.Info("no subscribers eligible for alerts")
		return nil
	}

	message := ComposeAlert(matched)
	apartmentIDs := make([]uuid.UUID, len(matched))
	for i, apt := range matched {
		apartmentIDs[i] = apt.ID
	}

	sent := d.deliver(ctx, subscribers, Notification{
		Type:         "sms",
		Title:        "New No-Fee Apartments Alert",
		Message:      message,
		SessionID:    sessionID,
		ApartmentIDs: apartmentIDs,
	})

	d.logger.Info("alerts dispatched",
		zap.Int("subscribers", len(subscribers)),
		zap.Int("sent", sent),
		zap.Int("apartments", len(matched)),
		zap.String("session_id", sessionID.String()))
	return nil
}

// ComposeDigest renders the end-of-run digest SMS body.
func ComposeDigest(newListings, updatedListings int) string {
	return fmt.Sprintf("Daily Apartment Update: %d new listings and %d updated listings found today. Visit your dashboard for details.",
		newListings, updatedListings)
}

// DispatchDailyDigest sends the end-of-run summary to subscribers who opted
// into the digest. A run with no changes is a no-op.
func (d *Dispatcher) DispatchDailyDigest(ctx context.Context, newListings, updatedListings int) error {
	if newListings == 0 && updatedListings == 0 {
		return nil
	}

	subscribers, err := d.subscribers.ListDigestEligible(ctx)
	if err != nil {
		return fmt.Errorf("failed to load subscribers: %w", err)
	}
	if len(subscribers) == 0 {
		d.logger.Info("no subscribers opted into the daily digest")
		return nil
	}

	sent := d.deliver(ctx, subscribers, Notification{
		Type:    "sms",
		Title:   "Daily Apartment Update",
		Message: ComposeDigest(newListings, updatedListings),
	})

	d.logger.Info("daily digest dispatched",
		zap.Int("subscribers", len(subscribers)),
		zap.Int("sent", sent),
		zap.Int("new", newListings),
		zap.Int("updated", updatedListings))
	return nil
}

// deliver sends one message per subscriber and logs every attempt. The
// template carries everything but the subscriber.
func (d *Dispatcher) deliver(ctx context.Context, subscribers []*Subscriber, template Notification) int {
	sent := 0
	for _, sub := range subscribers {
		sendErr := d.sender.Send(ctx, sub.PhoneNumber, template.Message)

		record := template
		record.SubscriberID = sub.ID
		record.Status = StatusSent
		if sendErr != nil {
			record.Status = StatusFailed
			record.ErrorMessage = sendErr.Error()
			d.logger.Error("failed to send alert",
				zap.String("subscriber_id", sub.ID.String()),
				zap.Error(sendErr))
		} else {
			now := time.Now().UTC()
			record.SentAt = &now
			sent++
		}
		metrics.NotificationsSent.WithLabelValues(record.Status).Inc()

		if err := d.notifications.Create(ctx, &record); err != nil {
			d.logger.Error("failed to log notification",
				zap.String("subscriber_id", sub.ID.String()),
				zap.Error(err))
		}
	}
	return sent
}
