// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Shivanand-hulikatti/autolease/internal/auth"
	"github.com/Shivanand-hulikatti/autolease/internal/cache"
	"github.com/Shivanand-hulikatti/autolease/internal/config"
	"github.com/Shivanand-hulikatti/autolease/internal/database"
	"github.com/Shivanand-hulikatti/autolease/internal/events"
	"github.com/Shivanand-hulikatti/autolease/internal/handler"
	"github.com/Shivanand-hulikatti/autolease/internal/logger"
	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"github.com/Shivanand-hulikatti/autolease/internal/repository"
	"github.com/Shivanand-hulikatti/autolease/internal/service"
	"github.com/Shivanand-hulikatti/autolease/internal/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "autolease: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Configuration, logging, tracing ───────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.Env, log)
	if err != nil {
		return err
	}

	// ── 2. Connect to PostgreSQL ──────────────────────────────────────────
	pool, err := database.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()
	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
		log.Info("schema applied")
	}

	// ── 3. Optional Redis cache and NATS publisher ───────────────────────
	var carCache service.CarCache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		c, err := cache.NewCarCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CarTTL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer c.Close()
		carCache = c
		log.Info("car cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	var publisher service.Publisher = events.Noop{}
	if cfg.NATS.URL != "" {
		p, err := events.NewPublisher(cfg.NATS.URL, log.Named("events"))
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
	}

	// ── 4. Wire up layers ────────────────────────────────────────────────
	clock := model.SystemClock{}
	cars := repository.NewCarRepository(pool)
	offers := repository.NewOfferRepository(pool)
	apps := repository.NewApplicationRepository(pool)
	agents := repository.NewSalesAgentRepository(pool)
	users := repository.NewUserRepository(pool)
	interests := repository.NewInterestRepository(pool)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	h := handler.New(handler.Services{
		Cars:         service.NewCarService(cars, agents, users, carCache, clock, log),
		Offers:       service.NewOfferService(offers, cars, agents, publisher, clock, log),
		Applications: service.NewApplicationService(apps, offers, publisher, clock, log),
		Agents:       service.NewSalesAgentService(agents, users, cars, clock, log),
		Users:        service.NewUserService(users, auth.NewHasher(0), tokens, clock, log),
		Interests:    service.NewInterestService(interests, cars, publisher, clock, log),
	}, log)

	router := handler.NewRouter(h, handler.RouterConfig{
		Tokens:        tokens,
		AllowedOrigin: cfg.HTTP.AllowedOrigin,
		Log:           log.Named("access"),
	})

	// ── 5. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      otelhttp.NewHandler(router, "autolease"),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
	return nil
}
