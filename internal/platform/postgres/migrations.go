package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"slices"

	"github.com/pressly/goose/v3"
)

// MigrationsTable is the table goose records applied versions in.
const MigrationsTable = "schema_migrations"

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationCommands lists the goose commands accepted by Migrate.
var MigrationCommands = []string{"up", "up-by-one", "down", "reset", "status", "version", "redo"}

// Migrate runs a goose command against db using the embedded SQL migrations.
// logger may be nil to keep the goose default.
func Migrate(ctx context.Context, db *sql.DB, command string, logger goose.Logger, args ...string) error {
	if !slices.Contains(MigrationCommands, command) {
		return fmt.Errorf("unsupported migration command %q", command)
	}

	if logger != nil {
		goose.SetLogger(logger)
	}
	goose.SetBaseFS(migrationFiles)
	goose.SetTableName(MigrationsTable)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, migrationsDir, args...); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}
	return nil
}
