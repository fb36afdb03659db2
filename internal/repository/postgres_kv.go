package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/headlines-digest-api/internal/database"
)

// postgresKV is the PostgreSQL implementation of KVStore
type postgresKV struct {
	db *database.DB
}

// NewPostgresKV creates a KVStore on the kv_entries table
func NewPostgresKV(db *database.DB) KVStore {
	return &postgresKV{db: db}
}

// Get retrieves a value by key
func (s *postgresKV) Get(ctx context.Context, key string) (Entry, error) {
	query := `SELECT value, version, updated_at FROM kv_entries WHERE key = $1`

	var entry Entry
	err := s.db.QueryRowContext(ctx, query, key).Scan(&entry.Value, &entry.Version, &entry.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Put upserts a value guarded by the expected version
func (s *postgresKV) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	query := `
		INSERT INTO kv_entries (key, value, version, updated_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			version = kv_entries.version + 1,
			updated_at = EXCLUDED.updated_at
		WHERE $4::bigint < 0 OR kv_entries.version = $4::bigint
		RETURNING version
	`

	var version int64
	err := s.db.QueryRowContext(ctx, query, key, string(value), time.Now().UTC(), expectedVersion).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrVersionConflict
	}
	if err != nil {
		return 0, err
	}
	if expectedVersion > 0 && version != expectedVersion+1 {
		return version, ErrVersionConflict
	}
	return version, nil
}

// sessions are grouped by the key suffix after the first colon; strpos is 0
// for keys without one, so the whole key is the group
const postgresDeleteIdleSessions = `
DELETE FROM kv_entries
WHERE substr(key, strpos(key, ':') + 1) IN (
	SELECT substr(key, strpos(key, ':') + 1)
	FROM kv_entries
	GROUP BY 1
	HAVING MAX(updated_at) < $1
)`

// DeleteIdleSessions removes all keys of sessions not written since cutoff
func (s *postgresKV) DeleteIdleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, postgresDeleteIdleSessions, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
