package repository

import (
	"fmt"

	"github.com/headlines-digest-api/internal/config"
	"github.com/headlines-digest-api/internal/database"
	"github.com/rs/zerolog"
)

// Backend is an opened key-value store plus the database behind it, if any
type Backend struct {
	KV KVStore
	DB *database.DB
}

// Open connects the store selected by cfg.Store.Driver
func Open(cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			return nil, err
		}
		return &Backend{KV: NewPostgresKV(db), DB: db}, nil
	case config.DriverSQLite:
		db, err := database.NewSQLite(cfg.Store.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		return &Backend{KV: NewSQLiteKV(db), DB: db}, nil
	case config.DriverMemory:
		log.Warn().Msg("Using in-memory store, session state is lost on restart")
		return &Backend{KV: NewMemoryKV()}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Close releases the database connection, if any
func (b *Backend) Close() error {
	if b.DB == nil {
		return nil
	}
	return b.DB.Close()
}
