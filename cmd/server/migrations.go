package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/redact"
)

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf forwards goose progress messages at info level.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level. It does not exit; the error is returned to main.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// runMigrations executes a goose command against the configured Postgres
// database. SQLite databases are migrated automatically on open.
func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger, command string, args ...string) error {
	log := logger.With(
		slog.String("correlation_id", uuid.New().String()),
		slog.String("component", "migrations"),
		slog.String("command", command),
	)

	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations are only supported for the %s driver; %s schemas are created on startup",
			config.DriverPostgres, cfg.Database.Driver)
	}

	start := time.Now()
	log.Info("starting migration operation", slog.String("url", redact.URL(cfg.Database.URL)))

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Error("failed to close migration connection", slog.String("error", cerr.Error()))
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := postgres.Migrate(ctx, db, command, &slogGooseLogger{logger: log}, args...); err != nil {
		log.Error("migration failed",
			slog.String("error", redact.Error(err)),
			slog.Duration("duration", time.Since(start)))
		return err
	}

	log.Info("migration completed", slog.Duration("duration", time.Since(start)))
	return nil
}
