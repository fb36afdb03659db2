package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/headlines-digest-api/internal/models"
	"github.com/headlines-digest-api/internal/service"
)

// MockDigestService is a mock implementation of DigestService
type MockDigestService struct {
	mu       sync.Mutex
	RunFunc  func(ctx context.Context, req models.DigestRequest) (*models.DigestResult, error)
	Requests []models.DigestRequest
	Prefs    map[string]models.Preferences
	SeenIDs  map[string][]int64
	Counters service.DigestStats
}

// Verify interface compliance
var _ service.DigestService = (*MockDigestService)(nil)

func NewMockDigestService() *MockDigestService {
	return &MockDigestService{
		Prefs:   make(map[string]models.Preferences),
		SeenIDs: make(map[string][]int64),
	}
}

func (m *MockDigestService) Run(ctx context.Context, req models.DigestRequest) (*models.DigestResult, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, req)
	}
	return &models.DigestResult{SessionID: req.SessionID, Articles: []models.DigestItem{}}, nil
}

func (m *MockDigestService) Preferences(ctx context.Context, sessionID string) models.Preferences {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Prefs[sessionID]
}

func (m *MockDigestService) Seen(ctx context.Context, sessionID string) models.SeenHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.SeenHistory{IDs: append([]int64{}, m.SeenIDs[sessionID]...)}
}

func (m *MockDigestService) Stats() service.DigestStats {
	return m.Counters
}

// MockInferrer returns a fixed hint, or Err, after an optional Delay
type MockInferrer struct {
	mu    sync.Mutex
	Hint  models.PreferenceHint
	Err   error
	Delay time.Duration
	Panic bool
	Calls []string
}

var _ service.Inferrer = (*MockInferrer)(nil)

func (m *MockInferrer) Infer(ctx context.Context, current models.Preferences, message string) (models.PreferenceHint, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, message)
	m.mu.Unlock()

	if m.Panic {
		panic("inferrer exploded")
	}
	if err := wait(ctx, m.Delay); err != nil {
		return models.PreferenceHint{}, err
	}
	return m.Hint, m.Err
}

// MockSummarizer returns "summary of <title>" unless the article id is listed in Fail.
// It records the peak number of concurrent calls.
type MockSummarizer struct {
	mu     sync.Mutex
	Fail   map[int64]error
	Delays map[int64]time.Duration
	Calls  []int64

	active int
	Peak   int
}

var _ service.Summarizer = (*MockSummarizer)(nil)

func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{
		Fail:   make(map[int64]error),
		Delays: make(map[int64]time.Duration),
	}
}

func (m *MockSummarizer) Summarize(ctx context.Context, message string, article models.Article) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, article.ID)
	m.active++
	if m.active > m.Peak {
		m.Peak = m.active
	}
	delay := m.Delays[article.ID]
	failure := m.Fail[article.ID]
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.active--
		m.mu.Unlock()
	}()

	if err := wait(ctx, delay); err != nil {
		return "", err
	}
	if failure != nil {
		return "", failure
	}
	return "summary of " + article.Title, nil
}

// MockArticleSource serves a swappable candidate pool
type MockArticleSource struct {
	mu    sync.Mutex
	items []models.Article
}

var _ service.ArticleSource = (*MockArticleSource)(nil)

func NewMockArticleSource(items []models.Article) *MockArticleSource {
	return &MockArticleSource{items: items}
}

func (m *MockArticleSource) Set(items []models.Article) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
}

func (m *MockArticleSource) Articles() []models.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Article{}, m.items...)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
