package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aptwatch/listing-pipeline/pkg/apartment"
	"github.com/aptwatch/listing-pipeline/pkg/apartmentstore"
)

// memStore is an in-memory Store used by the engine tests.
type memStore struct {
	mu         sync.Mutex
	byExternal map[string]*apartment.Apartment

	createErr map[string]error
	updateErr map[string]error
	touched   []uuid.UUID
	created   []string
	updated   []string

	markCalls [][]string
	markIDs   []uuid.UUID
	markErr   error
}

func newMemStore() *memStore {
	return &memStore{byExternal: map[string]*apartment.Apartment{}}
}

func (m *memStore) GetByExternalID(_ context.Context, externalID string) (*apartment.Apartment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	apt, ok := m.byExternal[externalID]
	if !ok {
		return nil, apartmentstore.ErrApartmentNotFound
	}
	clone := *apt
	return &clone, nil
}

func (m *memStore) Create(_ context.Context, apt *apartment.Apartment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.createErr[apt.ExternalID]; err != nil {
		return err
	}
	clone := *apt
	m.byExternal[apt.ExternalID] = &clone
	m.created = append(m.created, apt.ExternalID)
	return nil
}

func (m *memStore) Update(_ context.Context, apt *apartment.Apartment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.updateErr[apt.ExternalID]; err != nil {
		return err
	}
	clone := *apt
	m.byExternal[apt.ExternalID] = &clone
	m.updated = append(m.updated, apt.ExternalID)
	return nil
}

func (m *memStore) Touch(_ context.Context, id uuid.UUID, seenAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, apt := range m.byExternal {
		if apt.ID == id {
			apt.LastSeenAt = seenAt
			apt.IsActive = true
			m.touched = append(m.touched, id)
			return nil
		}
	}
	return apartmentstore.ErrApartmentNotFound
}

func (m *memStore) MarkInactiveStale(_ context.Context, keep []string, cutoff time.Time) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markCalls = append(m.markCalls, keep)
	if m.markErr != nil {
		return nil, m.markErr
	}
	if len(keep) == 0 {
		return nil, nil
	}

	keepSet := make(map[string]bool, len(keep))
	for _, id := range keep {
		keepSet[id] = true
	}

	var removed []uuid.UUID
	for extID, apt := range m.byExternal {
		if apt.IsActive && !keepSet[extID] && apt.LastSeenAt.Before(cutoff) {
			apt.IsActive = false
			removed = append(removed, apt.ID)
		}
	}
	m.markIDs = removed
	return removed, nil
}
