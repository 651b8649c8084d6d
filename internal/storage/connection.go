package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const pingTimeout = 5 * time.Second

// Connection wraps a pooled *sql.DB against the source database.
type Connection struct {
	DB *sql.DB
}

// NewConnection opens and verifies a PostgreSQL connection using the given
// configuration. The caller owns the returned connection and must Close it.
//
// The "postgres" driver must be registered by the importing binary
// (blank-import github.com/lib/pq).
func NewConnection(cfg *Config) (*Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{DB: db}, nil
}

// Close releases the connection pool.
func (c *Connection) Close() error {
	if err := c.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	return nil
}
