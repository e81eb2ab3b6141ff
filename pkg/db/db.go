package db

import (
	"fmt"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds database connection configuration
type Config struct {
	// URL is the database connection URL (defaults to DATABASE_URL env var)
	URL string
	// LogLevel controls SQL logging; "debug" or "trace" logs every query
	LogLevel string
}

// Connect establishes a database connection.
// If no URL is provided, it reads from DATABASE_URL environment variable.
func Connect(cfg Config) (*gorm.DB, error) {
	dbURL := cfg.URL
	if dbURL == "" {
		dbURL = URL()
	}
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  dbURL,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(LogMode(cfg.LogLevel)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// LogMode maps an application log level to a gorm log mode. Queries are
// only logged at debug and below.
func LogMode(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}

// URL returns the database URL from environment.
// Returns empty string if DATABASE_URL is not set.
func URL() string {
	return os.Getenv("DATABASE_URL")
}

// MigrationURL returns url with golang-migrate's bookkeeping table set.
func MigrationURL(url string) string {
	if url == "" {
		return ""
	}
	if strings.Contains(url, "?") {
		return url + "&x-migrations-table=schema_migrations"
	}
	return url + "?x-migrations-table=schema_migrations"
}
