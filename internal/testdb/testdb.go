// Package testdb opens the Postgres database used by integration tests and
// isolates each test in a transaction that is always rolled back.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/internbook/internbook-api/internal/platform/postgres"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/require"
)

// Timeout bounds each setup step against the test database.
const Timeout = 10 * time.Second

// Environment variables checked, in order, for the test database URL.
const (
	EnvTestDatabaseURL = "INTERNBOOK_TEST_DB_URL"
	EnvDatabaseURL     = "DATABASE_URL"
)

var migrateOnce sync.Once

// DatabaseURL returns the first non-empty test database URL from the
// environment, or "".
func DatabaseURL() string {
	for _, key := range []string{EnvTestDatabaseURL, EnvDatabaseURL} {
		if url := os.Getenv(key); url != "" {
			return url
		}
	}
	return ""
}

// Open connects to the test database, applies migrations once per test
// binary and closes the pool when t finishes. The test is skipped when no
// database URL is configured.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := DatabaseURL()
	if url == "" {
		t.Skipf("%s not set, skipping integration test", EnvTestDatabaseURL)
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "Failed to ping test database")

	var migrateErr error
	migrateOnce.Do(func() {
		quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
		migrateErr = postgres.Migrate(ctx, db, quiet)
	})
	require.NoError(t, migrateErr, "Failed to apply migrations")

	return db
}

// WithTx runs fn inside a transaction that is rolled back afterwards, so
// tests never see each other's rows.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
