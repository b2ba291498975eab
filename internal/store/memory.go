package store

import (
	"context"
	"sync"

	"github.com/serroba/shortlink-client/internal/shortener"
)

// MemoryStore is an in-memory shortener.Repository.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[string]shortener.Link
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{links: make(map[string]shortener.Link)}
}

func (m *MemoryStore) Create(_ context.Context, link *shortener.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[link.ID]; ok {
		return shortener.ErrIDTaken
	}

	m.links[link.ID] = *link

	return nil
}

func (m *MemoryStore) GetByID(_ context.Context, id string) (*shortener.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[id]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &link, nil
}

func (m *MemoryStore) Exists(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.links[id]

	return ok, nil
}

// List returns the links in no particular order.
func (m *MemoryStore) List(_ context.Context) ([]*shortener.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*shortener.Link, 0, len(m.links))

	for _, link := range m.links {
		out = append(out, &link)
	}

	return out, nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

var _ shortener.Repository = (*MemoryStore)(nil)
