// Package server initializes and runs the auth service: it opens the
// database, applies migrations, wires the session service to the HTTP
// surface, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dberzins/authsvc/internal/logging"
	"github.com/dberzins/authsvc/internal/server/auth"
	"github.com/dberzins/authsvc/internal/server/config"
	"github.com/dberzins/authsvc/internal/server/httpapi"
	"github.com/dberzins/authsvc/internal/server/observability"
	"github.com/dberzins/authsvc/internal/server/repositories/repomanager"
	"github.com/dberzins/authsvc/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := observability.InitSentry(cfg.SentryDSN, cfg.Environment); err != nil {
		logger.Warn(context.Background(), "sentry init failed", "error", err.Error())
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	issuer := auth.NewTokenIssuer([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	hasher := auth.NewBcryptHasher(0)
	sessions := services.NewSessionService(db, rm, issuer, hasher, cfg)

	handler := httpapi.NewHandler(sessions, issuer, logger)
	httpServer := httpapi.NewServer(cfg.EndpointAddrHTTP, handler, logger)

	return &App{config: cfg, logger: logger, db: db, httpServer: httpServer}, nil
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

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
	observability.FlushSentry()
}
