package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/headlines-digest-api/internal/config"
	"github.com/headlines-digest-api/internal/models"
	"github.com/headlines-digest-api/internal/repository"
	"github.com/headlines-digest-api/internal/selection"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyMessage is returned when the request message is empty or whitespace
var ErrEmptyMessage = errors.New("message is required")

// Pipeline step names, used as the "step" log field
const (
	StepValidate           = "validate"
	StepGetPreferences     = "get-user-preferences"
	StepInferPreferences   = "infer-preferences"
	StepMergePreferences   = "merge-preferences"
	StepUpdatePreferences  = "update-preferences"
	StepGetSeenArticles    = "get-seen-articles"
	StepFilterArticles     = "filter-articles"
	StepUpdateSeenArticles = "update-seen-articles"
	StepSummarizeArticles  = "summarize-articles"
)

const (
	defaultSummaryConcurrency = 5
	defaultInferenceTimeout   = 5 * time.Second
	defaultSummaryTimeout     = 10 * time.Second
)

// DigestStats are the pipeline counters exposed on /metrics
type DigestStats struct {
	CatalogSize        int   `json:"catalog_size"`
	DigestsServed      int64 `json:"digests_served"`
	PreferenceUpdates  int64 `json:"preference_updates"`
	SummaryFallbacks   int64 `json:"summary_fallbacks"`
	InferenceFallbacks int64 `json:"inference_fallbacks"`
}

// digestService is the concrete implementation of DigestService
type digestService struct {
	prefs      repository.PreferenceRepository
	seen       repository.SeenRepository
	articles   ArticleSource
	inferrer   Inferrer
	summarizer Summarizer
	cfg        config.Config
	log        zerolog.Logger

	served             atomic.Int64
	preferenceUpdates  atomic.Int64
	summaryFallbacks   atomic.Int64
	inferenceFallbacks atomic.Int64
}

func newDigestService(repos *repository.Repositories, articles ArticleSource, inferrer Inferrer, summarizer Summarizer, cfg *config.Config, log zerolog.Logger) *digestService {
	c := *cfg
	if c.Digest.Limit <= 0 {
		c.Digest.Limit = selection.DefaultLimit
	}
	if c.Digest.SummaryConcurrency <= 0 {
		c.Digest.SummaryConcurrency = defaultSummaryConcurrency
	}
	if c.LLM.InferenceTimeout <= 0 {
		c.LLM.InferenceTimeout = defaultInferenceTimeout
	}
	if c.LLM.SummaryTimeout <= 0 {
		c.LLM.SummaryTimeout = defaultSummaryTimeout
	}

	return &digestService{
		prefs:      repos.Preferences,
		seen:       repos.Seen,
		articles:   articles,
		inferrer:   inferrer,
		summarizer: summarizer,
		cfg:        c,
		log:        log.With().Str("service", "digest").Logger(),
	}
}

// Run executes the digest pipeline for one request.
//
// Stages run in sequence and every store or model failure degrades to a
// default, so the only error returned is ErrEmptyMessage. The message reaches
// the inferrer and summarizer as sent; trimming is only for validation.
func (s *digestService) Run(ctx context.Context, req models.DigestRequest) (*models.DigestResult, error) {
	sid := req.SessionID
	log := s.log.With().Str("session_id", sid).Logger()

	done := s.step(log, StepValidate)
	if strings.TrimSpace(req.Message) == "" {
		done()
		return nil, ErrEmptyMessage
	}
	message := req.Message
	candidates := s.articles.Articles()
	done()

	done = s.step(log, StepGetPreferences)
	stored := s.prefs.Get(ctx, sid)
	done()

	done = s.step(log, StepInferPreferences)
	hint := s.infer(ctx, log, stored, message)
	done()

	done = s.step(log, StepMergePreferences)
	effective := stored.Effective(hint)
	done()

	done = s.step(log, StepUpdatePreferences)
	updated := false
	if !hint.IsEmpty() {
		if _, err := s.prefs.Merge(ctx, sid, hint); err != nil {
			log.Warn().Err(err).Msg("Failed to persist preferences")
		} else {
			updated = true
			s.preferenceUpdates.Add(1)
		}
	}
	done()

	done = s.step(log, StepGetSeenArticles)
	seenSet := s.seen.Get(ctx, sid).Set()
	done()

	done = s.step(log, StepFilterArticles)
	selected, trace := selection.Explain(candidates, seenSet, effective, s.cfg.Digest.Limit)
	log.Debug().Interface("trace", trace).Strs("topics", effective.Topics).Str("region", effective.Region).Msg("Articles selected")
	done()

	done = s.step(log, StepUpdateSeenArticles)
	newSeen := 0
	if delta := unseenIDs(selected, seenSet); len(delta) > 0 {
		if _, err := s.seen.Append(ctx, sid, delta); err != nil {
			log.Warn().Err(err).Int("count", len(delta)).Msg("Failed to persist seen articles")
		} else {
			newSeen = len(delta)
		}
	}
	done()

	done = s.step(log, StepSummarizeArticles)
	items := s.summarize(ctx, log, message, selected)
	done()

	s.served.Add(1)
	log.Info().
		Int("articles", len(items)).
		Int("new_seen", newSeen).
		Bool("preferences_updated", updated).
		Msg("Digest served")

	return &models.DigestResult{
		SessionID:              sid,
		Articles:               items,
		NewArticlesSeen:        newSeen,
		TotalArticlesProcessed: len(candidates),
		PreferencesUpdated:     updated,
	}, nil
}

// infer calls the inferrer under its own deadline; any failure yields an empty hint
func (s *digestService) infer(ctx context.Context, log zerolog.Logger, current models.Preferences, message string) (hint models.PreferenceHint) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.LLM.InferenceTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Preference inference panicked - recovered")
			s.inferenceFallbacks.Add(1)
			hint = models.PreferenceHint{}
		}
	}()

	hint, err := s.inferrer.Infer(ctx, current, message)
	if err != nil {
		log.Warn().Err(err).Msg("Preference inference failed, continuing without hint")
		s.inferenceFallbacks.Add(1)
		return models.PreferenceHint{}
	}
	return hint
}

// summarize fans out one summary call per article, bounded by SummaryConcurrency.
// Output order matches the selection order.
func (s *digestService) summarize(ctx context.Context, log zerolog.Logger, message string, articles []models.Article) []models.DigestItem {
	items := make([]models.DigestItem, len(articles))

	var g errgroup.Group
	g.SetLimit(s.cfg.Digest.SummaryConcurrency)
	for i, a := range articles {
		g.Go(func() error {
			items[i] = models.NewDigestItem(a, s.summarizeOne(ctx, log, message, a))
			return nil
		})
	}
	_ = g.Wait()

	return items
}

func (s *digestService) summarizeOne(ctx context.Context, log zerolog.Logger, message string, a models.Article) (summary string) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.LLM.SummaryTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Int64("article_id", a.ID).Msg("Summarization panicked - recovered")
			s.summaryFallbacks.Add(1)
			summary = a.FallbackSummary()
		}
	}()

	summary, err := s.summarizer.Summarize(ctx, message, a)
	if err == nil && strings.TrimSpace(summary) == "" {
		err = errors.New("empty summary")
	}
	if err != nil {
		log.Warn().Err(err).Int64("article_id", a.ID).Msg("Summarization failed, using fallback")
		s.summaryFallbacks.Add(1)
		return a.FallbackSummary()
	}
	return strings.TrimSpace(summary)
}

// step logs the start of a pipeline step and returns a func that logs its completion
func (s *digestService) step(log zerolog.Logger, name string) func() {
	start := time.Now()
	log.Debug().Str("step", name).Msg("Step started")
	return func() {
		log.Debug().Str("step", name).Dur("duration", time.Since(start)).Msg("Step completed")
	}
}

// Preferences returns the stored preferences of a session
func (s *digestService) Preferences(ctx context.Context, sessionID string) models.Preferences {
	return s.prefs.Get(ctx, sessionID)
}

// Seen returns the stored seen history of a session
func (s *digestService) Seen(ctx context.Context, sessionID string) models.SeenHistory {
	return s.seen.Get(ctx, sessionID)
}

// Stats returns a snapshot of the pipeline counters
func (s *digestService) Stats() DigestStats {
	return DigestStats{
		CatalogSize:        len(s.articles.Articles()),
		DigestsServed:      s.served.Load(),
		PreferenceUpdates:  s.preferenceUpdates.Load(),
		SummaryFallbacks:   s.summaryFallbacks.Load(),
		InferenceFallbacks: s.inferenceFallbacks.Load(),
	}
}

// unseenIDs returns the ids of selected articles that are not in seen, in order
func unseenIDs(selected []models.Article, seen map[int64]struct{}) []int64 {
	var ids []int64
	for _, a := range selected {
		if _, ok := seen[a.ID]; !ok {
			ids = append(ids, a.ID)
		}
	}
	return ids
}
