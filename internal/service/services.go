package service

import (
	"context"

	"github.com/headlines-digest-api/internal/config"
	"github.com/headlines-digest-api/internal/models"
	"github.com/headlines-digest-api/internal/repository"
	"github.com/rs/zerolog"
)

// Inferrer extracts a preference hint from a free-text message
type Inferrer interface {
	Infer(ctx context.Context, current models.Preferences, message string) (models.PreferenceHint, error)
}

// Summarizer writes a short summary of an article for the given query
type Summarizer interface {
	Summarize(ctx context.Context, message string, article models.Article) (string, error)
}

// ArticleSource supplies the candidate pool for every digest
type ArticleSource interface {
	Articles() []models.Article
}

// DigestService defines the interface for the digest pipeline
type DigestService interface {
	Run(ctx context.Context, req models.DigestRequest) (*models.DigestResult, error)
	Preferences(ctx context.Context, sessionID string) models.Preferences
	Seen(ctx context.Context, sessionID string) models.SeenHistory
	Stats() DigestStats
}

// JanitorService defines the interface for expiring idle session state
type JanitorService interface {
	Start(ctx context.Context) error
	Stop()
	Sweep(ctx context.Context) (int64, error)
}

// Services holds all service interfaces
type Services struct {
	Digest  DigestService
	Janitor JanitorService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, articles ArticleSource, inferrer Inferrer, summarizer Summarizer, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Digest:  newDigestService(repos, articles, inferrer, summarizer, cfg, log),
		Janitor: newJanitorService(repos.KV, cfg.Session, log),
	}
}
