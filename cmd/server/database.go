package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/platform/sqlite"
	"github.com/phrazzld/taskboard-api/internal/redact"
	"github.com/phrazzld/taskboard-api/internal/store"
)

const pingTimeout = 5 * time.Second

// storage bundles the stores of one database backend with the pool they share.
type storage struct {
	db    *sql.DB
	users store.UserStore
	tasks store.TaskStore
}

// openStorage connects to the configured database and builds its stores.
func openStorage(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*storage, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return openSQLite(cfg, logger)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*storage, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime())

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		slog.String("driver", cfg.Driver),
		slog.String("url", redact.URL(cfg.URL)))

	return &storage{
		db:    db,
		users: postgres.NewPostgresUserStore(db, logger),
		tasks: postgres.NewPostgresTaskStore(db, logger),
	}, nil
}

func openSQLite(cfg config.DatabaseConfig, logger *slog.Logger) (*storage, error) {
	gdb, err := sqlite.Open(cfg.URL, logger)
	if err != nil {
		return nil, err
	}
	db, err := sqlite.SQLDB(gdb)
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite connection pool: %w", err)
	}

	return &storage{
		db:    db,
		users: sqlite.NewUserStore(gdb, logger),
		tasks: sqlite.NewTaskStore(gdb, logger),
	}, nil
}
