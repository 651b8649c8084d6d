package main

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupMigratorDatabase(ctx context.Context, t *testing.T) (string, *sql.DB) {
	t.Helper()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("migrator_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "Failed to start postgres container")

	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(pgContainer)
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err, "Failed to open database")

	t.Cleanup(func() {
		_ = db.Close()
	})

	return connStr, db
}

// TestMigrationLifecycleIntegration applies the embedded migrations against
// a real database, verifies the source schema and seed data, and rolls the
// seed back.
func TestMigrationLifecycleIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	connStr, db := setupMigratorDatabase(ctx, t)

	runner, err := NewMigrationRunner(&Config{
		DatabaseURL:    connStr,
		MigrationTable: "schema_migrations",
	})
	require.NoError(t, err, "Failed to create migration runner")

	t.Cleanup(func() {
		_ = runner.Close()
	})

	require.NoError(t, runner.Up(), "Up failed")

	// Source tables exist and are seeded.
	counts := map[string]int{
		"raw_customers":    5,
		"raw_orders":       8,
		"raw_transactions": 7,
	}

	for table, want := range counts {
		var count int

		err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
		require.NoError(t, err, "Failed to count %s", table)
		require.Equal(t, want, count, "row count of %s after up", table)
	}

	// Up is idempotent once applied.
	require.NoError(t, runner.Up(), "second Up failed")

	// Down rolls back the seed migration only.
	require.NoError(t, runner.Down(), "Down failed")

	var customers int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM raw_customers").Scan(&customers))
	require.Zero(t, customers, "seed rows survived rollback")

	// Table itself survives until its own migration is rolled back.
	require.NoError(t, runner.Down(), "second Down failed")

	var exists bool
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'raw_customers')",
	).Scan(&exists))
	require.False(t, exists, "raw_customers survived schema rollback")
}
