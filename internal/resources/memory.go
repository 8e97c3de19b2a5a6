// internal/resources/memory.go
package resources

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memStore is the in-memory Store used when no database is configured.
type memStore struct {
	mu   sync.RWMutex
	byID map[string]Resource
}

func NewMemoryStore() Store {
	return &memStore{byID: map[string]Resource{}}
}

func (m *memStore) List(ctx context.Context) ([]Resource, error) {
	return m.filter(func(Resource) bool { return true }), nil
}

func (m *memStore) ListPublic(ctx context.Context) ([]Resource, error) {
	return m.filter(func(r Resource) bool { return r.Public }), nil
}

func (m *memStore) ListByOwner(ctx context.Context, owner string) ([]Resource, error) {
	return m.filter(func(r Resource) bool { return r.Owner == owner }), nil
}

func (m *memStore) ListByRequiredRole(ctx context.Context, role string) ([]Resource, error) {
	return m.filter(func(r Resource) bool { return r.RequiredRole == role }), nil
}

func (m *memStore) Get(ctx context.Context, id string) (Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byID[id]
	if !ok {
		return Resource{}, ErrNotFound
	}
	return r, nil
}

func (m *memStore) Create(ctx context.Context, r Resource) (Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	m.byID[r.ID] = r
	return r, nil
}

func (m *memStore) Update(ctx context.Context, r Resource) (Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.byID[r.ID]
	if !ok {
		return Resource{}, ErrNotFound
	}
	r.CreatedAt = existing.CreatedAt
	r.UpdatedAt = time.Now().UTC()
	m.byID[r.ID] = r
	return r, nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memStore) filter(keep func(Resource) bool) []Resource {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Resource
	for _, r := range m.byID {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
