package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vncsmyrnk/userauth/internal/adapters/handler/http"
	"github.com/vncsmyrnk/userauth/internal/adapters/hashing"
	"github.com/vncsmyrnk/userauth/internal/adapters/oauth/google"
	"github.com/vncsmyrnk/userauth/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/userauth/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/userauth/internal/adapters/repository/redis"
	"github.com/vncsmyrnk/userauth/internal/adapters/token"
	"github.com/vncsmyrnk/userauth/internal/config"
	"github.com/vncsmyrnk/userauth/internal/core/ports"
	"github.com/vncsmyrnk/userauth/internal/core/services"
	"github.com/vncsmyrnk/userauth/internal/logging"
	"github.com/vncsmyrnk/userauth/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logging.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, cleanup, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	tokens, err := token.NewJWTService(cfg.JWTSecret, cfg.TokenTTL, cfg.JWTIssuer)
	if err != nil {
		return err
	}
	hasher := hashing.NewBcryptHasher()

	authOpts := []services.AuthServiceOption{services.WithHashCost(cfg.BcryptCost)}
	if cfg.GoogleClientID != "" {
		authOpts = append(authOpts, services.WithGoogle(google.NewVerifier(), cfg.GoogleClientID))
	}

	signUpSvc := services.NewSignUpService(st.users, st.sessions, hasher, tokens, cfg.BcryptCost)
	authSvc := services.NewAuthService(st.users, st.sessions, hasher, tokens, authOpts...)
	sessionSvc := services.NewSessionService(st.sessions, tokens)
	userSvc := services.NewUserService(st.users)

	m := metrics.New()
	handler := http.NewHandler(http.RouterConfig{
		Auth:           http.NewAuthHandler(signUpSvc, authSvc, log, m),
		Users:          http.NewUserHandler(userSvc, sessionSvc, log),
		Gate:           http.NewAuthMiddleware(sessionSvc, log, m),
		Logger:         log,
		Metrics:        m,
		RequestTimeout: cfg.RequestTimeout,
	})

	server := &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.HTTPAddr, "storage", cfg.Storage, "session_store", cfg.SessionStore)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info(context.Background(), "gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

type stores struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
}

func openStores(ctx context.Context, cfg *config.Config, log logging.Logger) (*stores, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var db *sql.DB
	if cfg.NeedsDatabase() {
		var err error
		db, err = postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { db.Close() })

		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, db, "up"); err != nil {
				cleanup()
				return nil, func() {}, err
			}
			log.Info(ctx, "migrations applied")
		}
	}

	s := &stores{}
	switch cfg.Storage {
	case config.StoragePostgres:
		s.users = postgres.NewUserRepository(db)
	default:
		log.Warn(ctx, "using in-memory user store; data is lost on restart")
		s.users = memory.NewUserRepository()
	}

	switch cfg.SessionStore {
	case config.StoragePostgres:
		s.sessions = postgres.NewSessionRepository(db)
	case config.StorageRedis:
		client, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, func() { client.Close() })
		s.sessions = redis.NewSessionRepository(client, cfg.TokenTTL)
	default:
		s.sessions = memory.NewSessionRepository()
	}

	return s, cleanup, nil
}
