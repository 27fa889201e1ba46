package notify

import (
	"context"
)

// SubscriberStore lists the subscribers eligible for each alert category.
type SubscriberStore interface {
	ListEligible(ctx context.Context) ([]*Subscriber, error)
	ListDigestEligible(ctx context.Context) ([]*Subscriber, error)
}

// NotificationStore logs delivery attempts.
type NotificationStore interface {
	Create(ctx context.Context, n *Notification) error
}
