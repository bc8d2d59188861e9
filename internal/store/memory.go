package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryEntry struct {
	run       Run
	expiresAt time.Time
}

// MemoryStore keeps runs in memory for a fixed TTL.
// A zero TTL keeps runs until the process exits.
type MemoryStore struct {
	mu    sync.RWMutex
	store map[string]*memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		store: make(map[string]*memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (m *MemoryStore) Put(_ context.Context, run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := &memoryEntry{run: run}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}
	m.store[run.ID] = e
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.store[id]
	if !ok || m.expired(e, m.now()) {
		return Run{}, ErrNotFound
	}
	return e.run, nil
}

func (m *MemoryStore) List(_ context.Context, limit int) ([]Run, error) {
	m.mu.RLock()
	now := m.now()
	out := make([]Run, 0, len(m.store))
	for _, e := range m.store {
		if !m.expired(e, now) {
			out = append(out, e.run)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]*memoryEntry)
	return nil
}

// Cleanup removes expired entries every interval until ctx is done.
func (m *MemoryStore) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.evict()
		}
	}
}

func (m *MemoryStore) evict() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for id, e := range m.store {
		if m.expired(e, now) {
			delete(m.store, id)
			n++
		}
	}
	return n
}

func (m *MemoryStore) expired(e *memoryEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}
