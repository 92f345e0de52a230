package testdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/taskboard-api/internal/redact"
	"github.com/stretchr/testify/require"
)

const connectTimeout = 5 * time.Second

// Open connects to the integration database and closes it when the test
// ends. Without a configured URL the test is skipped, except in CI where a
// missing database is a failure.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := URL()
	if url == "" {
		if IsCI() {
			t.Fatalf("no integration database configured; set %s or %s", EnvTestDBURL, EnvDatabaseURL)
		}
		t.Skipf("%s not set", EnvTestDBURL)
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("failed to reach integration database %s: %s", redact.URL(url), redact.Error(err))
	}
	return db
}

// WithTx runs fn inside a transaction that is always rolled back, so tests
// never leave rows behind and can share one database.
func WithTx(t *testing.T, db *sql.DB, fn func(ctx context.Context, tx *sql.Tx)) {
	t.Helper()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Errorf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(ctx, tx)
}
