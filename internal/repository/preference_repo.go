package repository

import (
	"context"

	"github.com/headlines-digest-api/internal/models"
	"github.com/rs/zerolog"
)

// preferenceRepo is the concrete implementation of PreferenceRepository
type preferenceRepo struct {
	kv  KVStore
	log zerolog.Logger
}

// NewPreferenceRepo creates a new preference repository
func NewPreferenceRepo(kv KVStore, log zerolog.Logger) PreferenceRepository {
	return &preferenceRepo{
		kv:  kv,
		log: log.With().Str("repository", "preferences").Logger(),
	}
}

// Get retrieves a session's preferences, or the empty record
func (r *preferenceRepo) Get(ctx context.Context, sessionID string) models.Preferences {
	key := PreferencesKey(sessionID)
	prefs, _, err := loadJSON[models.Preferences](ctx, r.kv, key)
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("Failed to get preferences")
		return models.Preferences{}
	}
	return prefs
}

// Merge unions hint into the stored preferences
func (r *preferenceRepo) Merge(ctx context.Context, sessionID string, hint models.PreferenceHint) (models.Preferences, error) {
	key := PreferencesKey(sessionID)
	merged, err := updateJSON(ctx, r.kv, r.log, key, func(current models.Preferences) models.Preferences {
		return current.Merge(hint)
	})
	if err != nil {
		return merged, err
	}

	r.log.Debug().
		Str("key", key).
		Strs("topics", merged.Topics).
		Str("region", merged.Region).
		Msg("Preferences updated")
	return merged, nil
}
