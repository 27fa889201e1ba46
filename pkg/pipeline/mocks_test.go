package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/aptwatch/listing-pipeline/pkg/listing"
	"github.com/aptwatch/listing-pipeline/pkg/reconcile"
	"github.com/aptwatch/listing-pipeline/pkg/session"
	"github.com/aptwatch/listing-pipeline/pkg/sessionstore"
)

type mockSyncer struct {
	SyncFunc func(ctx context.Context, records []*listing.Record, sessionID uuid.UUID, markOthersInactive bool) *reconcile.SyncResult
	calls    int
}

func (m *mockSyncer) Sync(ctx context.Context, records []*listing.Record, sessionID uuid.UUID, markOthersInactive bool) *reconcile.SyncResult {
	m.calls++
	return m.SyncFunc(ctx, records, sessionID, markOthersInactive)
}

type mockNotifier struct {
	DispatchFunc func(ctx context.Context, newIDs []uuid.UUID, sessionID uuid.UUID) error
	calls        int
	lastIDs      []uuid.UUID
}

func (m *mockNotifier) DispatchNewListings(ctx context.Context, newIDs []uuid.UUID, sessionID uuid.UUID) error {
	m.calls++
	m.lastIDs = newIDs
	if m.DispatchFunc != nil {
		return m.DispatchFunc(ctx, newIDs, sessionID)
	}
	return nil
}

// memSessionStore is an in-memory sessionstore.Store for pipeline tests.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session.Session

	createErr error
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[uuid.UUID]*session.Session{}}
}

func (m *memSessionStore) Create(_ context.Context, sess *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	clone := *sess
	m.sessions[sess.ID] = &clone
	return nil
}

func (m *memSessionStore) close(id uuid.UUID, status session.Status, outcome *session.Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return sessionstore.ErrSessionNotFound
	}
	if sess.Status != session.StatusProcessing {
		return sessionstore.ErrSessionClosed
	}
	sess.Status = status
	if outcome != nil {
		sess.Summary = outcome.Summary
		sess.Errors = outcome.Errors
		sess.Detail = outcome.Detail
	}
	return nil
}

func (m *memSessionStore) Complete(_ context.Context, id uuid.UUID, outcome *session.Outcome) error {
	return m.close(id, session.StatusCompleted, outcome)
}

func (m *memSessionStore) Fail(_ context.Context, id uuid.UUID, outcome *session.Outcome) error {
	return m.close(id, session.StatusFailed, outcome)
}

func (m *memSessionStore) Get(_ context.Context, id uuid.UUID) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, sessionstore.ErrSessionNotFound
	}
	clone := *sess
	return &clone, nil
}
