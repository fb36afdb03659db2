package repository

import (
	"context"
	"time"

	"github.com/headlines-digest-api/internal/models"
	"github.com/rs/zerolog"
)

// seenRepo is the concrete implementation of SeenRepository
type seenRepo struct {
	kv    KVStore
	limit int
	now   func() time.Time
	log   zerolog.Logger
}

// NewSeenRepo creates a new seen-history repository.
// limit caps the stored ids to the most recent ones; 0 keeps everything.
func NewSeenRepo(kv KVStore, limit int, now func() time.Time, log zerolog.Logger) SeenRepository {
	return &seenRepo{
		kv:    kv,
		limit: limit,
		now:   now,
		log:   log.With().Str("repository", "seen").Logger(),
	}
}

// Get retrieves a session's seen history, or the empty record
func (r *seenRepo) Get(ctx context.Context, sessionID string) models.SeenHistory {
	key := SeenKey(sessionID)
	seen, version, err := loadJSON[models.SeenHistory](ctx, r.kv, key)
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("Failed to get seen articles")
		return r.empty()
	}
	if version == 0 {
		return r.empty()
	}
	if seen.IDs == nil {
		seen.IDs = []int64{}
	}
	return seen
}

// Append unions ids into the stored seen history
func (r *seenRepo) Append(ctx context.Context, sessionID string, ids []int64) (models.SeenHistory, error) {
	if len(ids) == 0 {
		return r.Get(ctx, sessionID), nil
	}

	key := SeenKey(sessionID)
	merged, err := updateJSON(ctx, r.kv, r.log, key, func(current models.SeenHistory) models.SeenHistory {
		return models.SeenHistory{
			IDs:       current.Union(ids, r.limit),
			UpdatedAt: r.now().UTC(),
		}
	})
	if err != nil {
		return merged, err
	}

	r.log.Debug().
		Str("key", key).
		Int("appended", len(ids)).
		Int("total", len(merged.IDs)).
		Msg("Seen articles updated")
	return merged, nil
}

func (r *seenRepo) empty() models.SeenHistory {
	return models.SeenHistory{IDs: []int64{}, UpdatedAt: r.now().UTC()}
}
