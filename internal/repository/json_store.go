package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// maxWriteAttempts bounds optimistic retries before falling back to last-write-wins
const maxWriteAttempts = 3

// loadJSON decodes the value under key. The returned version is valid whenever
// the entry was read, even if decoding failed.
func loadJSON[T any](ctx context.Context, kv KVStore, key string) (T, int64, error) {
	var zero T
	entry, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return zero, 0, nil
	}
	if err != nil {
		return zero, 0, err
	}

	var v T
	if err := json.Unmarshal(entry.Value, &v); err != nil {
		return zero, entry.Version, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return v, entry.Version, nil
}

// updateJSON performs a read-modify-write of the value under key, retrying on
// version conflicts. When every attempt conflicts the last computed value is
// written unconditionally. A failed read aborts without writing; an undecodable
// value is replaced.
func updateJSON[T any](ctx context.Context, kv KVStore, log zerolog.Logger, key string, apply func(T) T) (T, error) {
	var next T
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		current, version, err := loadJSON[T](ctx, kv, key)
		if err != nil && version == 0 {
			// the record may exist; writing now could clobber it
			return apply(current), fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Stored value is corrupt, replacing it")
		}

		next = apply(current)
		raw, err := json.Marshal(next)
		if err != nil {
			return next, fmt.Errorf("failed to encode %s: %w", key, err)
		}

		expected := version
		if attempt == maxWriteAttempts {
			expected = AnyVersion
		}

		_, err = kv.Put(ctx, key, raw, expected)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return next, fmt.Errorf("failed to write %s: %w", key, err)
		}
		log.Debug().Str("key", key).Int("attempt", attempt).Msg("Concurrent update detected, retrying")
	}
	return next, fmt.Errorf("failed to write %s: %w", key, ErrVersionConflict)
}
