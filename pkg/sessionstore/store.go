// Package sessionstore persists import sessions in PostgreSQL.
package sessionstore

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/aptwatch/listing-pipeline/pkg/session"
)

// ErrSessionNotFound is returned when a session lookup finds no matching record.
var ErrSessionNotFound = errors.New("import session not found")

// ErrSessionClosed is returned when completing or failing a session that has
// already reached a terminal state.
var ErrSessionClosed = errors.New("import session already closed")

// Store defines import session persistence.
type Store interface {
	Create(ctx context.Context, sess *session.Session) error
	Complete(ctx context.Context, id uuid.UUID, outcome *session.Outcome) error
	Fail(ctx context.Context, id uuid.UUID, outcome *session.Outcome) error
	Get(ctx context.Context, id uuid.UUID) (*session.Session, error)
}
