package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/platform/metrics"
	"github.com/phrazzld/taskboard-api/internal/platform/telemetry"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// application holds the shared dependencies of the server so they can be
// wired once and released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore

	jwtService  auth.JWTService
	authService service.AuthService
	taskService service.TaskService

	metrics           *metrics.Metrics
	shutdownTelemetry telemetry.ShutdownFunc
}

// newApplication connects to the database and wires every service.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	st, err := openStorage(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	app, err := newApplicationWithStorage(ctx, cfg, logger, st)
	if err != nil {
		_ = st.db.Close()
		return nil, err
	}
	return app, nil
}

// newApplicationWithStorage wires the services on top of already opened stores.
func newApplicationWithStorage(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	st *storage,
) (*application, error) {
	app := &application{
		config:    cfg,
		logger:    logger,
		db:        st.db,
		userStore: st.users,
		taskStore: st.tasks,
		metrics:   metrics.New(),
	}

	var err error
	app.shutdownTelemetry, err = telemetry.Setup(ctx, cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	hasher := auth.NewBcryptHasher(cfg.Auth.BCryptCost)
	app.authService, err = service.NewAuthService(app.userStore, app.jwtService, hasher, hasher, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	app.taskService, err = service.NewTaskService(app.taskStore, app.db, logger,
		service.WithRecorder(app.metrics))
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then releases all resources.
func (app *application) Run(ctx context.Context) error {
	err := app.startHTTPServer(ctx, app.setupRouter())
	if cerr := app.cleanup(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}

// cleanup flushes telemetry and closes the database.
func (app *application) cleanup() error {
	var errs []error

	if app.shutdownTelemetry != nil {
		if err := app.shutdownTelemetry(context.Background()); err != nil {
			app.logger.Error("failed to shut down telemetry", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	app.logger.Info("application shutdown completed")
	return errors.Join(errs...)
}
