package notify

import (
	"context"

	"github.com/google/uuid"

	"github.com/aptwatch/listing-pipeline/pkg/apartment"
)

type mockApartmentLister struct {
	ListActiveByIDsFunc func(ctx context.Context, ids []uuid.UUID) ([]*apartment.Apartment, error)
}

func (m *mockApartmentLister) ListActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]*apartment.Apartment, error) {
	return m.ListActiveByIDsFunc(ctx, ids)
}

type mockSubscriberStore struct {
	ListEligibleFunc       func(ctx context.Context) ([]*Subscriber, error)
	ListDigestEligibleFunc func(ctx context.Context) ([]*Subscriber, error)
}

func (m *mockSubscriberStore) ListEligible(ctx context.Context) ([]*Subscriber, error) {
	return m.ListEligibleFunc(ctx)
}

func (m *mockSubscriberStore) ListDigestEligible(ctx context.Context) ([]*Subscriber, error) {
	return m.ListDigestEligibleFunc(ctx)
}

type mockNotificationStore struct {
	created []*Notification
	err     error
}

func (m *mockNotificationStore) Create(_ context.Context, n *Notification) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, n)
	return nil
}

type mockSender struct {
	sent   []string
	failTo map[string]error
}

func (m *mockSender) Send(_ context.Context, to, _ string) error {
	if err, ok := m.failTo[to]; ok {
		return err
	}
	m.sent = append(m.sent, to)
	return nil
}
