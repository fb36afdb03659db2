package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/headlines-digest-api/internal/database"
)

// sqliteKV is the SQLite implementation of KVStore.
// updated_at is stored as unix milliseconds.
type sqliteKV struct {
	db *database.DB
}

// NewSQLiteKV creates a KVStore on the kv_entries table of a SQLite database
func NewSQLiteKV(db *database.DB) KVStore {
	return &sqliteKV{db: db}
}

// Get retrieves a value by key
func (s *sqliteKV) Get(ctx context.Context, key string) (Entry, error) {
	query := `SELECT value, version, updated_at FROM kv_entries WHERE key = ?`

	var entry Entry
	var updatedAt int64
	err := s.db.QueryRowContext(ctx, query, key).Scan(&entry.Value, &entry.Version, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	entry.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return entry, nil
}

// Put upserts a value guarded by the expected version
func (s *sqliteKV) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	query := `
		INSERT INTO kv_entries (key, value, version, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			version = kv_entries.version + 1,
			updated_at = excluded.updated_at
		WHERE ? < 0 OR kv_entries.version = ?
		RETURNING version
	`

	var version int64
	err := s.db.QueryRowContext(ctx, query,
		key, value, time.Now().UnixMilli(), expectedVersion, expectedVersion,
	).Scan(&version)
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

const sqliteDeleteIdleSessions = `
DELETE FROM kv_entries
WHERE substr(key, instr(key, ':') + 1) IN (
	SELECT substr(key, instr(key, ':') + 1)
	FROM kv_entries
	GROUP BY 1
	HAVING MAX(updated_at) < ?
)`

// DeleteIdleSessions removes all keys of sessions not written since cutoff
func (s *sqliteKV) DeleteIdleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, sqliteDeleteIdleSessions, cutoff.UnixMilli())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
