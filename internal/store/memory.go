package store

import (
	"context"
	"sync"
	"time"

	"github.com/linkmagico/chatbot/internal/model"
)

type memoryEntry struct {
	record    *model.ExtractedRecord
	createdAt time.Time
}

// MemoryStore is the in-process cache backend. Records are cloned on the
// way in and out so the cache retains sole ownership of its entries.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates a MemoryStore with the given TTL. A zero ttl uses
// DefaultTTL.
func NewMemory(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, url string) (*model.ExtractedRecord, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[url]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if m.now().Sub(entry.createdAt) >= m.ttl {
		return nil, false, nil
	}
	return entry.record.Clone(), true, nil
}

func (m *MemoryStore) Put(_ context.Context, url string, rec *model.ExtractedRecord) error {
	m.mu.Lock()
	m.entries[url] = memoryEntry{record: rec.Clone(), createdAt: m.now()}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for url, entry := range m.entries {
		if m.now().Sub(entry.createdAt) >= m.ttl {
			delete(m.entries, url)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryStore) Close() error { return nil }
