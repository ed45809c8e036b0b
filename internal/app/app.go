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

	"go-conference-manager/internal/access"
	"go-conference-manager/internal/config"
	"go-conference-manager/internal/database"
	"go-conference-manager/internal/handler"
	"go-conference-manager/internal/middleware"
	"go-conference-manager/internal/repository"
	"go-conference-manager/internal/router"
	"go-conference-manager/internal/security"
	"go-conference-manager/internal/service"
)

// Stores groups the persistence backends the HTTP stack runs on.
type Stores struct {
	Users        service.UserStore
	Institutions service.InstitutionStore
	Audit        service.AuditStore
	Health       func(ctx context.Context) error
}

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New(cfg *config.Config) (*App, error) {
	if cfg.JWTSecretGenerated {
		slog.Warn("JWT_SECRET not set; generated a random signing secret, tokens will not survive a restart")
	}

	stores, closeStores, err := openStores(cfg)
	if err != nil {
		return nil, err
	}

	hasher := security.NewPasswordHasher(cfg.BcryptCost)
	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := service.EnsureFirstSuperuser(seedCtx, stores.Users, hasher, service.FirstSuperuser{
		Email:    cfg.FirstSuperuserEmail,
		Password: cfg.FirstSuperuserPassword,
		Name:     cfg.FirstSuperuserName,
	}); err != nil {
		closeStores()
		return nil, fmt.Errorf("failed to seed first superuser: %w", err)
	}

	appHandler, err := NewHandler(cfg, stores)
	if err != nil {
		closeStores()
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appHandler,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		cleanupFuncs: []func(){closeStores},
	}, nil
}

func openStores(cfg *config.Config) (Stores, func(), error) {
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set; using the in-memory store, data is lost on exit")
		mem := repository.NewMemoryStore()
		return Stores{
			Users:        mem.Users,
			Institutions: mem.Institutions,
			Audit:        mem.Audit,
			Health:       mem.Health,
		}, func() {}, nil
	}

	slog.Info("connecting to PostgreSQL")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, database.Options{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return Stores{}, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return Stores{}, nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}
	slog.Info("database ready")

	return Stores{
		Users:        repository.NewUserRepository(db.Pool),
		Institutions: repository.NewInstitutionRepository(db.Pool),
		Audit:        repository.NewAuditRepository(db.Pool),
		Health:       db.Health,
	}, db.Close, nil
}

// NewHandler wires services, the access chain and handlers into a router.
func NewHandler(cfg *config.Config, stores Stores) (http.Handler, error) {
	hasher := security.NewPasswordHasher(cfg.BcryptCost)

	tokens, err := security.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token manager: %w", err)
	}

	authService, err := service.NewAuthService(stores.Users, hasher, tokens, service.AuthOptions{
		OpenRegistration: cfg.OpenRegistration,
		QueryTimeout:     cfg.DBQueryTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	userService := service.NewUserService(stores.Users, hasher, cfg.DBQueryTimeout)
	institutionService := service.NewInstitutionService(stores.Institutions, stores.Users, cfg.DBQueryTimeout)
	auditService := service.NewAuditService(stores.Audit, cfg.DBQueryTimeout)

	authMiddleware := middleware.NewAuthMiddleware(access.NewChain(authService))

	return router.New(cfg, authMiddleware, router.Handlers{
		Auth:        handler.NewAuthHandler(authService, auditService),
		User:        handler.NewUserHandler(userService, authService, auditService),
		Institution: handler.NewInstitutionHandler(institutionService, auditService),
		Audit:       handler.NewAuditHandler(auditService),
		Health:      handler.NewHealthHandler(healthFunc(stores.Health)),
	}), nil
}

type healthFunc func(ctx context.Context) error

func (f healthFunc) Health(ctx context.Context) error {
	if f == nil {
		return nil
	}
	return f(ctx)
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
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		a.cleanup()
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		slog.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cleanup()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.cleanup()
	slog.Info("server stopped")
	return nil
}

func (a *App) cleanup() {
	for _, fn := range a.cleanupFuncs {
		fn()
	}
}
