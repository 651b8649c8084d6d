package main

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/lineage-audit/emitter/internal/config"
)

// ErrDatabaseURLEmpty indicates DATABASE_URL was not set.
var ErrDatabaseURLEmpty = errors.New("DATABASE_URL cannot be empty")

// Config holds all configuration for the migration tool.
type Config struct {
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string

	// MigrationTable is the name of the table that tracks applied migrations.
	MigrationTable string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    config.GetEnvStr("DATABASE_URL", ""),
		MigrationTable: config.GetEnvStr("MIGRATION_TABLE", "schema_migrations"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrDatabaseURLEmpty
	}

	if c.MigrationTable == "" {
		return errors.New("MIGRATION_TABLE cannot be empty")
	}

	return nil
}

// String returns a representation of the configuration that is safe for
// logging, with any password masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config{DatabaseURL: %s, MigrationTable: %s}",
		maskDatabaseURL(c.DatabaseURL), c.MigrationTable)
}

// maskDatabaseURL masks the password component of a database URL.
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable database url>"
	}

	return u.Redacted()
}
