// Package server initializes and runs the identity service. It opens the
// database, applies migrations, wires repositories and services together and
// starts the HTTP server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mkalvans/userhub/internal/logging"
	"github.com/mkalvans/userhub/internal/server/config"
	"github.com/mkalvans/userhub/internal/server/httpapi"
	"github.com/mkalvans/userhub/internal/server/repositories/pictures"
	"github.com/mkalvans/userhub/internal/server/repositories/repomanager"
	"github.com/mkalvans/userhub/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	router http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	pictureStore := pictureBackend(cfg, db, repos)

	handlers := httpapi.Handlers{
		Auth:     httpapi.NewAuthHandler(services.NewAuthService(db, repos, cfg)),
		Users:    httpapi.NewUserHandler(services.NewUserService(db, repos, pictureStore)),
		Roles:    httpapi.NewRoleHandler(services.NewRoleService(db, repos)),
		Audit:    httpapi.NewAuditHandler(services.NewAuditService(db, repos, cfg)),
		Pictures: httpapi.NewPictureHandler(services.NewPictureService(pictureStore)),
	}

	router := httpapi.NewRouter(handlers, []byte(cfg.SecretKey), logger)

	return &App{config: cfg, logger: logger, db: db, router: router}, nil
}

// pictureBackend selects the profile picture store: S3 when a bucket is
// configured, the relational store otherwise.
func pictureBackend(cfg *config.Config, db *sql.DB, repos repomanager.RepositoryManager) pictures.Repository {
	if cfg.S3Bucket != "" {
		return pictures.NewS3Store(pictures.S3Config{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	}
	return repos.Pictures(db)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		app.logger.Info(context.Background(), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "shutdown error", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err)
	}

	return nil
}
