package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/places-api/internal/api"
	"github.com/phrazzld/places-api/internal/api/middleware"
	"github.com/phrazzld/places-api/internal/config"
	"github.com/phrazzld/places-api/internal/platform/assets"
	"github.com/phrazzld/places-api/internal/platform/geocode"
	"github.com/phrazzld/places-api/internal/platform/postgres"
	"github.com/phrazzld/places-api/internal/service"
	"github.com/phrazzld/places-api/internal/service/auth"
	"github.com/phrazzld/places-api/internal/store"
)

// rateLimitIdleTTL is how long a client IP's bucket is kept after its last request.
const rateLimitIdleTTL = 10 * time.Minute

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	hashPool     *auth.HashPool
	tokenService auth.TokenService
	assets       assets.Store

	placeHandler *api.PlaceHandler
	userHandler  *api.UserHandler
	authGuard    *middleware.AuthMiddleware
	rateLimiter  *middleware.RateLimiter

	// closeCache releases the geocode cache connection, if any.
	closeCache func() error
}

// newApplication wires stores, collaborators, services and handlers on top of db.
// On error, anything already started is released; db itself stays open.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (app *application, err error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	app = &application{
		config: cfg,
		logger: logger,
		db:     db,
	}
	defer func() {
		if err != nil {
			app.releaseCollaborators()
		}
	}()

	app.tokenService, err = auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	app.hashPool = auth.NewHashPool(auth.HashPoolConfig{WorkerCount: cfg.Auth.HashWorkers}, logger)
	app.hashPool.Start()
	credentials := auth.NewBcryptCredentialService(cfg.Auth.BcryptCost, app.hashPool)

	userStore := postgres.NewPostgresUserStore(db, logger)
	placeStore := postgres.NewPostgresPlaceStore(db, logger)

	geocoder, closeCache, err := geocode.New(cfg.Geocoding, cfg.Cache, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoder: %w", err)
	}
	app.closeCache = closeCache

	app.assets, err = assets.New(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset store: %w", err)
	}

	placeService, err := service.NewPlaceService(
		db,
		placeStore,
		userStore,
		geocoder,
		app.assets,
		retryPolicy(cfg.Transaction),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create place service: %w", err)
	}

	userService, err := service.NewUserService(userStore, credentials, app.tokenService, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	uploads := api.NewUploader(app.assets, cfg.Storage.MaxUploadBytes, logger)
	app.placeHandler = api.NewPlaceHandler(placeService, uploads, logger)
	app.userHandler = api.NewUserHandler(userService, uploads, logger)
	app.authGuard = middleware.NewAuthMiddleware(app.tokenService)
	app.rateLimiter = middleware.NewRateLimiter(
		cfg.RateLimit.RequestsPerSecond,
		cfg.RateLimit.Burst,
		rateLimitIdleTTL,
	)

	return app, nil
}

// retryPolicy turns transaction settings into the policy used by the place
// transactions. Serialization failures and deadlocks are retried along with
// store conflicts.
func retryPolicy(cfg config.TransactionConfig) store.RetryPolicy {
	return store.RetryPolicy{
		MaxRetries:  cfg.MaxRetries,
		BaseBackoff: time.Duration(cfg.BaseBackoffMS) * time.Millisecond,
		Retryable:   postgres.IsRetryableError,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

// releaseCollaborators stops the hash pool and closes the cache connection.
func (app *application) releaseCollaborators() {
	if app.hashPool != nil {
		app.hashPool.Stop()
	}
	if app.closeCache != nil {
		if err := app.closeCache(); err != nil {
			app.logger.Error("failed to close geocode cache", "error", err)
		}
	}
}

// cleanup releases every resource the application owns, including the database.
func (app *application) cleanup() {
	app.logger.Info("Cleaning up application resources")

	app.releaseCollaborators()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
