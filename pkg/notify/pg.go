package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type pgSubscriberStore struct {
	db *bun.DB
}

// NewSubscriberStore creates a new postgres implementation of the subscriber store
func NewSubscriberStore(db *bun.DB) *pgSubscriberStore {
	return &pgSubscriberStore{db: db}
}

func (s *pgSubscriberStore) ListEligible(ctx context.Context) ([]*Subscriber, error) {
	var daos []SubscriberDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("is_verified = TRUE").
		Where("sms_enabled = TRUE").
		Where("no_fee_alerts = TRUE").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}

	subscribers := make([]*Subscriber, len(daos))
	for i := range daos {
		subscribers[i] = toSubscriber(&daos[i])
	}
	return subscribers, nil
}

func (s *pgSubscriberStore) ListDigestEligible(ctx context.Context) ([]*Subscriber, error) {
	var daos []SubscriberDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("is_verified = TRUE").
		Where("sms_enabled = TRUE").
		Where("daily_digest = TRUE").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list digest subscribers: %w", err)
	}

	subscribers := make([]*Subscriber, len(daos))
	for i := range daos {
		subscribers[i] = toSubscriber(&daos[i])
	}
	return subscribers, nil
}

type pgNotificationStore struct {
	db *bun.DB
}

// NewNotificationStore creates a new postgres implementation of the notification log
func NewNotificationStore(db *bun.DB) *pgNotificationStore {
	return &pgNotificationStore{db: db}
}

func (s *pgNotificationStore) Create(ctx context.Context, n *Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	dao := toNotificationDao(n)

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to log notification: %w", err)
	}
	return nil
}
