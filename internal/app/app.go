package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"library-catalog/internal/config"
	"library-catalog/internal/credential"
	"library-catalog/internal/database"
	"library-catalog/internal/handler"
	"library-catalog/internal/metrics"
	"library-catalog/internal/middleware"
	"library-catalog/internal/repository"
	"library-catalog/internal/router"
	"library-catalog/internal/service"
	"library-catalog/internal/validation"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, database.Options{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}
	slog.Info("database ready")

	m := metrics.New(nil)
	m.RegisterPool(db.Pool)

	appRouter, err := buildRouter(ctx, cfg, db, m)
	if err != nil {
		db.Close()
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			db.Close,
		},
	}, nil
}

// buildRouter wires repositories, services and handlers on top of db.
func buildRouter(ctx context.Context, cfg *config.Config, db *database.DB, m *metrics.Metrics) (http.Handler, error) {
	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	authorRepo := repository.NewAuthorRepository(pool)
	publisherRepo := repository.NewPublisherRepository(pool)
	bookRepo := repository.NewBookRepository(pool)
	blacklistRepo := repository.NewBlacklistRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	hasher, err := credential.NewPasswordHasher(cfg.PasswordHashAlgo, cfg.PBKDF2Iterations, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}
	tokens := credential.NewTokenManager(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	revocationService := service.NewRevocationService(blacklistRepo, m)
	authService := service.NewAuthService(userRepo, hasher, tokens, revocationService, m)
	userService := service.NewUserService(userRepo, roleRepo, hasher)
	authorService := service.NewAuthorService(authorRepo)
	publisherService := service.NewPublisherService(publisherRepo)
	bookService := service.NewBookService(bookRepo, authorRepo, publisherRepo)
	auditService := service.NewAuditService(auditRepo, slog.Default())

	if cfg.BootstrapAdmin.Enabled() {
		admin := cfg.BootstrapAdmin
		if err := authService.EnsureAdmin(ctx, admin.Username, admin.Email, admin.Password); err != nil {
			return nil, fmt.Errorf("failed to bootstrap admin: %w", err)
		}
	}

	validator, err := validation.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load request schemas: %w", err)
	}

	docsHandler, err := handler.NewDocsHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to load api docs: %w", err)
	}

	gate := middleware.NewAccessControl(tokens, revocationService, userRepo, roleRepo, m)

	return router.New(cfg, gate, m, router.Handlers{
		Auth:       handler.NewAuthHandler(authService, validator, auditService),
		Users:      handler.NewUserHandler(userService, authService, validator, auditService),
		Roles:      handler.NewRoleHandler(userService),
		Authors:    handler.NewAuthorHandler(authorService, validator, auditService),
		Publishers: handler.NewPublisherHandler(publisherService, validator, auditService),
		Books:      handler.NewBookHandler(bookService, validator, auditService),
		Audit:      handler.NewAuditHandler(auditService),
		Docs:       docsHandler,
		Health:     handler.NewHealthHandler(db),
	}), nil
}

func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-stop:
		slog.Info("shutdown signal received", "signal", sig.String())
	case runErr = <-serveErr:
		slog.Error("server failed", "error", runErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("graceful shutdown failed: %w", err))
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if runErr != nil {
		return runErr
	}

	slog.Info("server stopped")
	return nil
}
