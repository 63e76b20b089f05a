package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/evalia-hr/evalia-console/internal/analytics"
	"github.com/evalia-hr/evalia-console/internal/app"
	"github.com/evalia-hr/evalia-console/internal/auth"
	"github.com/evalia-hr/evalia-console/internal/console"
	"github.com/evalia-hr/evalia-console/internal/hrapi"
	"github.com/evalia-hr/evalia-console/internal/observability"
	"github.com/evalia-hr/evalia-console/internal/platform/cache"
	"github.com/evalia-hr/evalia-console/internal/session"
	"github.com/evalia-hr/evalia-console/internal/shared"
	"github.com/evalia-hr/evalia-console/internal/status"
	"github.com/evalia-hr/evalia-console/internal/view"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	// A missing .env is fine; production configures the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	apiClient := hrapi.NewClient(cfg.HRAPIURL, cfg.HRAPITimeout, logger)

	credentialStore := session.NewRedisCredentialStore(redisClient, cfg.SessionSecret)
	sessionManager := session.NewManager(apiClient, credentialStore, logger)
	// Restore settles before the listener starts, so the loading screen only
	// shows while a request races the startup restore.
	go sessionManager.Restore(ctx)

	webSessions := shared.NewWebSessionManager(redisClient, "evalia_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	normalizer := status.NewNormalizer(logger, metrics.UnknownStatusCounter())

	analyticsCache := analytics.NewCache(redisClient, cfg.CacheTTL)
	analyticsService := analytics.NewService(apiClient, analyticsCache)

	authHandler := auth.NewHandler(logger, sessionManager, templates, webSessions, csrfManager)
	consoleHandler := console.NewHandler(
		logger,
		sessionManager,
		analyticsService,
		apiClient,
		templates,
		csrfManager,
		normalizer,
	)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		WebSessions:    webSessions,
		CSRFManager:    csrfManager,
		SessionManager: sessionManager,
		AuthHandler:    authHandler,
		ConsoleHandler: consoleHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
