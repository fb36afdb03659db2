package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryKV is an in-process KVStore, used by tests and STORE_DRIVER=memory
type MemoryKV struct {
	mu      sync.Mutex
	entries map[string]Entry
	now     func() time.Time
}

// NewMemoryKV creates an empty in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// SetClock replaces the time source used to stamp entries
func (m *MemoryKV) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Get retrieves a value by key
func (m *MemoryKV) Get(ctx context.Context, key string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	entry.Value = append([]byte(nil), entry.Value...)
	return entry, nil
}

// Put writes a value guarded by the expected version
func (m *MemoryKV) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.entries[key]
	if expectedVersion != AnyVersion && current.Version != expectedVersion {
		return 0, ErrVersionConflict
	}

	next := Entry{
		Value:     append([]byte(nil), value...),
		Version:   current.Version + 1,
		UpdatedAt: m.now().UTC(),
	}
	m.entries[key] = next
	return next.Version, nil
}

// DeleteIdleSessions removes all keys of sessions not written since cutoff
func (m *MemoryKV) DeleteIdleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	latest := make(map[string]time.Time)
	for key, entry := range m.entries {
		sid := SessionOfKey(key)
		if entry.UpdatedAt.After(latest[sid]) {
			latest[sid] = entry.UpdatedAt
		}
	}

	var deleted int64
	for key := range m.entries {
		if latest[SessionOfKey(key)].Before(cutoff) {
			delete(m.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

// Len returns the number of stored keys
func (m *MemoryKV) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
