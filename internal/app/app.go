// Package app assembles the digest pipeline from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/headlines-digest-api/internal/catalog"
	"github.com/headlines-digest-api/internal/config"
	"github.com/headlines-digest-api/internal/llm"
	"github.com/headlines-digest-api/internal/repository"
	"github.com/headlines-digest-api/internal/service"
	"github.com/rs/zerolog"
)

// App is a fully wired pipeline and the resources it owns
type App struct {
	Backend  *repository.Backend
	Catalog  *catalog.Catalog
	Services *service.Services
}

// New opens the store, loads the catalog and builds the configured adapters.
// Postgres migrations are applied when migrate is true.
func New(ctx context.Context, cfg *config.Config, migrate bool, log zerolog.Logger) (*App, error) {
	backend, err := repository.Open(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if migrate && cfg.Store.Driver == config.DriverPostgres {
		if err := backend.DB.RunMigrations(cfg.Store.MigrationsPath); err != nil {
			backend.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	cat, err := catalog.Load(cfg.Digest.CatalogPath)
	if err != nil {
		backend.Close()
		return nil, err
	}
	log.Info().Int("articles", cat.Len()).Str("path", cfg.Digest.CatalogPath).Msg("Catalog loaded")

	inferrer, summarizer, err := newAdapters(ctx, cfg, llm.NewVocabulary(cat.Articles()), log)
	if err != nil {
		backend.Close()
		return nil, err
	}

	repos := repository.New(backend.KV, cfg.Digest.SeenHistoryLimit, log)
	return &App{
		Backend:  backend,
		Catalog:  cat,
		Services: service.NewServices(repos, cat, inferrer, summarizer, cfg, log),
	}, nil
}

// Close releases the store
func (a *App) Close() error {
	return a.Backend.Close()
}

func newAdapters(ctx context.Context, cfg *config.Config, vocab llm.Vocabulary, log zerolog.Logger) (service.Inferrer, service.Summarizer, error) {
	var gen llm.Generator
	if cfg.LLM.InferenceProvider == config.ProviderGemini || cfg.LLM.SummaryProvider == config.ProviderGemini {
		g, err := llm.NewGeminiGenerator(ctx, cfg.LLM.GeminiAPIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		gen = g
	}

	var inferrer service.Inferrer = llm.NewKeywordInferrer(vocab)
	if cfg.LLM.InferenceProvider == config.ProviderGemini {
		inferrer = llm.NewGeminiInferrer(gen, cfg.LLM.GeminiModel, vocab, log)
	}

	var summarizer service.Summarizer = llm.TemplateSummarizer{}
	if cfg.LLM.SummaryProvider == config.ProviderGemini {
		summarizer = llm.NewGeminiSummarizer(gen, cfg.LLM.GeminiModel, log)
	}

	log.Info().
		Str("inference", cfg.LLM.InferenceProvider).
		Str("summary", cfg.LLM.SummaryProvider).
		Msg("Language model adapters configured")
	return inferrer, summarizer, nil
}
