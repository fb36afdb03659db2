package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/headlines-digest-api/internal/config"
	"github.com/headlines-digest-api/internal/llm"
	"github.com/headlines-digest-api/internal/models"
	"github.com/rs/zerolog"
)

func testConfig(driver string) *config.Config {
	cfg := &config.Config{}
	cfg.Store.Driver = driver
	cfg.Digest = config.DigestConfig{Limit: 5, SeenHistoryLimit: 100, SummaryConcurrency: 2}
	cfg.LLM = config.LLMConfig{
		InferenceProvider: config.ProviderKeyword,
		SummaryProvider:   config.ProviderTemplate,
		InferenceTimeout:  time.Second,
		SummaryTimeout:    time.Second,
	}
	return cfg
}

func TestNew_Memory(t *testing.T) {
	a, err := New(context.Background(), testConfig(config.DriverMemory), true, zerolog.Nop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close()

	result, err := a.Services.Digest.Run(context.Background(), models.DigestRequest{SessionID: "s", Message: "politics"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Articles) == 0 {
		t.Error("Expected articles from the built-in catalog")
	}
	for _, item := range result.Articles {
		found := false
		for _, tag := range item.TopicTags {
			found = found || tag == "politics"
		}
		if !found {
			t.Errorf("Expected politics articles only, got %+v", item)
		}
	}
}

func TestNew_SQLiteSurvivesReopen(t *testing.T) {
	cfg := testConfig(config.DriverSQLite)
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	a, err := New(ctx, cfg, true, zerolog.Nop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := a.Services.Digest.Run(ctx, models.DigestRequest{SessionID: "s", Message: "finance"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	a.Close()

	b, err := New(ctx, cfg, true, zerolog.Nop())
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer b.Close()

	prefs := b.Services.Digest.Preferences(ctx, "s")
	if len(prefs.Topics) != 1 || prefs.Topics[0] != "finance" {
		t.Errorf("Expected persisted finance topic, got %+v", prefs)
	}
	if len(b.Services.Digest.Seen(ctx, "s").IDs) == 0 {
		t.Error("Expected persisted seen history")
	}
}

func TestNew_BadCatalog(t *testing.T) {
	cfg := testConfig(config.DriverMemory)
	cfg.Digest.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := New(context.Background(), cfg, false, zerolog.Nop()); err == nil {
		t.Error("Expected an error for a missing catalog file")
	}
}

func TestNewAdapters_Defaults(t *testing.T) {
	inferrer, summarizer, err := newAdapters(context.Background(), testConfig(config.DriverMemory), llm.Vocabulary{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("newAdapters failed: %v", err)
	}
	if _, ok := inferrer.(*llm.KeywordInferrer); !ok {
		t.Errorf("Expected keyword inferrer, got %T", inferrer)
	}
	if _, ok := summarizer.(llm.TemplateSummarizer); !ok {
		t.Errorf("Expected template summarizer, got %T", summarizer)
	}
}
