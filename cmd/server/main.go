// Package main implements the entry point for the taskboard API server,
// which serves per-user task management over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
)

// options holds the parsed command-line flags.
type options struct {
	migrate string
	args    []string
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	migrate := fs.String("migrate", "", "run a database migration command (up, down, status, ...) and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return options{migrate: *migrate, args: fs.Args()}, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.migrate != "" {
		return runMigrations(ctx, cfg, log, opts.migrate, opts.args...)
	}

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
