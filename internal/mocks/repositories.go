package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/headlines-digest-api/internal/models"
	"github.com/headlines-digest-api/internal/repository"
)

// MockKVStore is an in-memory KVStore with error injection
type MockKVStore struct {
	*repository.MemoryKV
	mu sync.Mutex

	GetError    error
	PutError    error
	DeleteError error
	// Conflicts makes the next N conditional puts fail with ErrVersionConflict
	Conflicts int

	GetCalls int
	PutCalls int
	PutKeys  []string
}

// Verify interface compliance
var _ repository.KVStore = (*MockKVStore)(nil)

func NewMockKVStore() *MockKVStore {
	return &MockKVStore{MemoryKV: repository.NewMemoryKV()}
}

func (m *MockKVStore) Get(ctx context.Context, key string) (repository.Entry, error) {
	m.mu.Lock()
	m.GetCalls++
	err := m.GetError
	m.mu.Unlock()
	if err != nil {
		return repository.Entry{}, err
	}
	return m.MemoryKV.Get(ctx, key)
}

func (m *MockKVStore) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	m.mu.Lock()
	m.PutCalls++
	m.PutKeys = append(m.PutKeys, key)
	err := m.PutError
	if err == nil && m.Conflicts > 0 && expectedVersion != repository.AnyVersion {
		m.Conflicts--
		err = repository.ErrVersionConflict
	}
	m.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return m.MemoryKV.Put(ctx, key, value, expectedVersion)
}

func (m *MockKVStore) DeleteIdleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	err := m.DeleteError
	m.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return m.MemoryKV.DeleteIdleSessions(ctx, cutoff)
}

// MockPreferenceRepository is a mock implementation of PreferenceRepository
type MockPreferenceRepository struct {
	mu         sync.Mutex
	Prefs      map[string]models.Preferences
	MergeError error
	MergeCalls []models.PreferenceHint
}

var _ repository.PreferenceRepository = (*MockPreferenceRepository)(nil)

func NewMockPreferenceRepository() *MockPreferenceRepository {
	return &MockPreferenceRepository{Prefs: make(map[string]models.Preferences)}
}

func (m *MockPreferenceRepository) Get(ctx context.Context, sessionID string) models.Preferences {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Prefs[sessionID]
}

func (m *MockPreferenceRepository) Merge(ctx context.Context, sessionID string, hint models.PreferenceHint) (models.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MergeCalls = append(m.MergeCalls, hint)
	merged := m.Prefs[sessionID].Merge(hint)
	if m.MergeError != nil {
		return merged, m.MergeError
	}
	m.Prefs[sessionID] = merged
	return merged, nil
}

// MockSeenRepository is a mock implementation of SeenRepository
type MockSeenRepository struct {
	mu          sync.Mutex
	Seen        map[string][]int64
	AppendError error
	AppendCalls [][]int64
}

var _ repository.SeenRepository = (*MockSeenRepository)(nil)

func NewMockSeenRepository() *MockSeenRepository {
	return &MockSeenRepository{Seen: make(map[string][]int64)}
}

func (m *MockSeenRepository) Get(ctx context.Context, sessionID string) models.SeenHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := append([]int64{}, m.Seen[sessionID]...)
	return models.SeenHistory{IDs: ids, UpdatedAt: time.Now()}
}

func (m *MockSeenRepository) Append(ctx context.Context, sessionID string, ids []int64) (models.SeenHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendCalls = append(m.AppendCalls, append([]int64{}, ids...))
	merged := models.SeenHistory{IDs: m.Seen[sessionID]}.Union(ids, 0)
	if m.AppendError != nil {
		return models.SeenHistory{IDs: merged}, m.AppendError
	}
	m.Seen[sessionID] = merged
	return models.SeenHistory{IDs: merged, UpdatedAt: time.Now()}, nil
}
