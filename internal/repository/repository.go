package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/headlines-digest-api/internal/models"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned by a KVStore when the key does not exist
	ErrNotFound = errors.New("key not found")
	// ErrVersionConflict is returned by a KVStore when the stored version differs from the expected one
	ErrVersionConflict = errors.New("version conflict")
)

// AnyVersion makes Put overwrite regardless of the stored version
const AnyVersion int64 = -1

// Entry is a stored value with its optimistic concurrency stamp
type Entry struct {
	Value     []byte
	Version   int64
	UpdatedAt time.Time
}

// KVStore is the durable key-value backend for session state
type KVStore interface {
	// Get returns ErrNotFound when the key is absent
	Get(ctx context.Context, key string) (Entry, error)
	// Put writes value if the stored version equals expectedVersion (0 = must not exist,
	// AnyVersion = unconditional) and returns the new version
	Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error)
	// DeleteIdleSessions removes every key of each session whose most recent
	// write across all its keys is before cutoff
	DeleteIdleSessions(ctx context.Context, cutoff time.Time) (int64, error)
}

// PreferenceRepository reads and merges per-session preferences
type PreferenceRepository interface {
	// Get never fails; errors degrade to the empty record
	Get(ctx context.Context, sessionID string) models.Preferences
	// Merge unions hint into the stored preferences and persists the result.
	// The merged record is returned even when the write fails.
	Merge(ctx context.Context, sessionID string, hint models.PreferenceHint) (models.Preferences, error)
}

// SeenRepository reads and appends per-session seen-article history
type SeenRepository interface {
	// Get never fails; errors degrade to the empty record
	Get(ctx context.Context, sessionID string) models.SeenHistory
	// Append unions ids into the stored history and persists the result.
	// The merged record is returned even when the write fails.
	Append(ctx context.Context, sessionID string, ids []int64) (models.SeenHistory, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	KV          KVStore
	Preferences PreferenceRepository
	Seen        SeenRepository
}

// New creates all repositories on top of the given key-value store
func New(kv KVStore, seenLimit int, log zerolog.Logger) *Repositories {
	return &Repositories{
		KV:          kv,
		Preferences: NewPreferenceRepo(kv, log),
		Seen:        NewSeenRepo(kv, seenLimit, time.Now, log),
	}
}

// PreferencesKey is the store key of a session's preferences
func PreferencesKey(sessionID string) string {
	return "prefs:" + sessionID
}

// SeenKey is the store key of a session's seen history
func SeenKey(sessionID string) string {
	return "seen:" + sessionID
}

// SessionOfKey returns the session a key belongs to: everything after the
// first colon, or the whole key when it has no namespace
func SessionOfKey(key string) string {
	if _, sid, ok := strings.Cut(key, ":"); ok {
		return sid
	}
	return key
}
