package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slipway-sh/slipway/internal/app/migrate"
	"github.com/slipway-sh/slipway/internal/builder"
	"github.com/slipway-sh/slipway/internal/events"
	httpx "github.com/slipway-sh/slipway/internal/http"
	"github.com/slipway-sh/slipway/internal/repository/postgres"
	"github.com/slipway-sh/slipway/internal/service/auth"
	"github.com/slipway-sh/slipway/internal/service/deploy"
	"github.com/slipway-sh/slipway/internal/service/invite"
	"github.com/slipway-sh/slipway/internal/service/project"
	"github.com/slipway-sh/slipway/internal/service/webhook"
	"github.com/slipway-sh/slipway/internal/service/workspace"
	"github.com/slipway-sh/slipway/internal/ws"
	"github.com/slipway-sh/slipway/pkg/config"
	"github.com/slipway-sh/slipway/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New("api", slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	runner, err := migrate.New(pool, cfg.DatabaseURL, cfg.MigrationsDir, log)
	if err != nil {
		log.Error("failed to configure migrations", "error", err)
		os.Exit(1)
	}
	defer runner.Close()
	if err := runner.Ping(ctx); err != nil {
		log.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	if err := runner.Ensure(ctx); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	repo := postgres.New(pool)
	hub := ws.NewHub()

	var publisher events.Publisher = events.NopPublisher{}
	if addr := strings.TrimSpace(cfg.EventsRedisAddr); addr != "" {
		redisPublisher, err := events.NewRedisPublisher(addr, cfg.EventsRedisPass, cfg.EventsRedisDB, cfg.EventsChannel, log)
		if err != nil {
			log.Warn("redis event publisher unavailable", "error", err)
		} else {
			publisher = redisPublisher
		}
	}
	defer publisher.Close()

	builds := builder.NewClient(cfg.BuilderURL, cfg.BuilderAuthToken, log)

	authSvc := auth.New(repo, log, cfg)
	workspaceSvc := workspace.New(repo, log, cfg)
	inviteSvc := invite.New(repo, log)
	projectSvc := project.New(repo, repo, log)
	deploySvc := deploy.New(repo, builds, publisher, hub, log)
	webhookSvc := webhook.New(repo, log, cfg)

	limiter := httpx.NewMemoryRateLimiter()
	if addr := strings.TrimSpace(cfg.RateLimitRedisAddr); addr != "" {
		redisLimiter, err := httpx.NewRedisRateLimiter(addr, cfg.RateLimitRedisPass, cfg.RateLimitRedisDB, log)
		if err != nil {
			log.Warn("redis rate limiter unavailable", "error", err)
		} else {
			limiter = redisLimiter
		}
	}

	router := httpx.NewRouter(log, authSvc, workspaceSvc, inviteSvc, projectSvc, deploySvc, webhookSvc, hub, limiter, cfg.SessionCookieName, pool.Ping)
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("api server starting", "addr", cfg.Addr)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("api server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
