package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Inference and summary providers
const (
	ProviderKeyword  = "keyword"
	ProviderTemplate = "template"
	ProviderGemini   = "gemini"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage configuration
	Store StoreConfig

	// Database configuration (postgres driver)
	Database DatabaseConfig

	// Digest pipeline configuration
	Digest DigestConfig

	// LLM provider configuration
	LLM LLMConfig

	// Session configuration
	Session SessionConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StoreConfig selects the key-value backend
type StoreConfig struct {
	Driver         string
	SQLitePath     string
	MigrationsPath string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// DigestConfig holds pipeline settings
type DigestConfig struct {
	CatalogPath        string
	Limit              int
	SeenHistoryLimit   int
	SummaryConcurrency int
}

// LLMConfig holds inference and summarization settings
type LLMConfig struct {
	InferenceProvider string
	SummaryProvider   string
	GeminiAPIKey      string
	GeminiModel       string
	InferenceTimeout  time.Duration
	SummaryTimeout    time.Duration
}

// SessionConfig holds session lifetime settings
type SessionConfig struct {
	TTL             time.Duration
	JanitorSchedule string
	CookieSecure    bool
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Store: StoreConfig{
			Driver:         getEnv("STORE_DRIVER", DriverPostgres),
			SQLitePath:     getEnv("SQLITE_PATH", "./data/headlines.db"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "headlines"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Digest: DigestConfig{
			CatalogPath:        getEnv("CATALOG_PATH", ""),
			Limit:              getIntEnv("DIGEST_LIMIT", 5),
			SeenHistoryLimit:   getIntEnv("SEEN_HISTORY_LIMIT", 1000),
			SummaryConcurrency: getIntEnv("SUMMARY_CONCURRENCY", 5),
		},
		LLM: LLMConfig{
			InferenceProvider: getEnv("INFERENCE_PROVIDER", ProviderKeyword),
			SummaryProvider:   getEnv("SUMMARY_PROVIDER", ProviderTemplate),
			GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
			GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash-lite"),
			InferenceTimeout:  getDurationEnv("INFERENCE_TIMEOUT", 5*time.Second),
			SummaryTimeout:    getDurationEnv("SUMMARY_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			TTL:             getDurationEnv("SESSION_TTL", 30*24*time.Hour),
			JanitorSchedule: getEnv("JANITOR_SCHEDULE", "@hourly"),
			CookieSecure:    getBoolEnv("SESSION_COOKIE_SECURE", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of: postgres, sqlite, memory")
	}

	if c.LLM.InferenceProvider != ProviderKeyword && c.LLM.InferenceProvider != ProviderGemini {
		return fmt.Errorf("INFERENCE_PROVIDER must be one of: keyword, gemini")
	}
	if c.LLM.SummaryProvider != ProviderTemplate && c.LLM.SummaryProvider != ProviderGemini {
		return fmt.Errorf("SUMMARY_PROVIDER must be one of: template, gemini")
	}
	if (c.LLM.InferenceProvider == ProviderGemini || c.LLM.SummaryProvider == ProviderGemini) && c.LLM.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
	}

	if c.Digest.Limit <= 0 {
		return fmt.Errorf("DIGEST_LIMIT must be positive")
	}
	if c.Digest.SeenHistoryLimit < 0 {
		return fmt.Errorf("SEEN_HISTORY_LIMIT must not be negative")
	}
	if c.Digest.SummaryConcurrency <= 0 {
		return fmt.Errorf("SUMMARY_CONCURRENCY must be positive")
	}
	if c.LLM.InferenceTimeout <= 0 || c.LLM.SummaryTimeout <= 0 {
		return fmt.Errorf("INFERENCE_TIMEOUT and SUMMARY_TIMEOUT must be positive")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
