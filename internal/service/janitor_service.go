package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/headlines-digest-api/internal/config"
	"github.com/headlines-digest-api/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// janitorService is the concrete implementation of JanitorService
type janitorService struct {
	kv       repository.KVStore
	ttl      time.Duration
	schedule string
	now      func() time.Time
	log      zerolog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
}

func newJanitorService(kv repository.KVStore, cfg config.SessionConfig, log zerolog.Logger) *janitorService {
	return &janitorService{
		kv:       kv,
		ttl:      cfg.TTL,
		schedule: cfg.JanitorSchedule,
		now:      time.Now,
		log:      log.With().Str("service", "janitor").Logger(),
	}
}

// Start schedules Sweep on the configured cron schedule. It does not block.
// A zero TTL or an empty schedule disables the janitor.
func (s *janitorService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if s.ttl <= 0 || s.schedule == "" {
		s.log.Info().Msg("Session janitor disabled")
		return nil
	}

	c := cron.New()
	s.ctx, s.cancel = context.WithCancel(ctx)
	if _, err := c.AddFunc(s.schedule, func() {
		if _, err := s.Sweep(s.ctx); err != nil {
			s.log.Error().Err(err).Msg("Session sweep failed")
		}
	}); err != nil {
		s.cancel()
		return fmt.Errorf("invalid janitor schedule %q: %w", s.schedule, err)
	}

	c.Start()
	s.cron = c
	s.running = true
	s.log.Info().Str("schedule", s.schedule).Dur("ttl", s.ttl).Msg("Session janitor started")
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *janitorService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	<-s.cron.Stop().Done()
	s.running = false
	s.log.Info().Msg("Session janitor stopped")
}

// Sweep deletes every key of sessions with no write to any of their keys within TTL
func (s *janitorService) Sweep(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}

	cutoff := s.now().Add(-s.ttl)
	removed, err := s.kv.DeleteIdleSessions(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	s.log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("Session sweep completed")
	return removed, nil
}
