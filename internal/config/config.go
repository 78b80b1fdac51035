package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/baiirun/tickets/internal/db"
	"github.com/baiirun/tickets/internal/query"
)

// Config aggregates runtime configuration for the tickets CLI.
type Config struct {
	DBPath   string
	PageSize int
	Logger   LoggerConfig
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
	File  string // File is empty to log to stderr.
}

// Load reads configuration from environment variables, applying defaults
// where possible. A .env file in the working directory is honored but
// never overrides variables that are already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbPath := os.Getenv("TICKETS_DB")
	if dbPath == "" {
		path, err := db.DefaultPath()
		if err != nil {
			return nil, err
		}
		dbPath = path
	}

	pageSize := getEnvAsInt("TICKETS_PAGE_SIZE", query.DefaultPageSize)
	if pageSize < 1 {
		return nil, fmt.Errorf("invalid TICKETS_PAGE_SIZE: %d", pageSize)
	}

	return &Config{
		DBPath:   dbPath,
		PageSize: pageSize,
		Logger: LoggerConfig{
			Level: getEnv("TICKETS_LOG_LEVEL", "warn"),
			File:  os.Getenv("TICKETS_LOG_FILE"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
