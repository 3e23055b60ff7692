package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"precis/backend/internal/config"
	"precis/backend/internal/db"
	"precis/backend/internal/handler"
	transport "precis/backend/internal/http"
	"precis/backend/internal/logger"
	"precis/backend/internal/network"
	"precis/backend/internal/repository"
	"precis/backend/internal/scheduler"
	"precis/backend/internal/service"
	"precis/backend/internal/service/inference"
	"precis/backend/internal/snowflake"
	"precis/backend/internal/tokenizer"
	"precis/backend/internal/web"
)

const shutdownTimeout = 15 * time.Second

// @title Precis API
// @version 1.0
// @description Abstractive text summarization service.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "module", "app", "action", "load", "resource", "config", "result", "failed", "error", err)
		os.Exit(1)
	}
	logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	if err := snowflake.Init(cfg.SnowflakeNode); err != nil {
		logger.Error("snowflake init failed", "module", "app", "action", "init", "resource", "snowflake", "result", "failed", "error", err)
		os.Exit(1)
	}

	dbConn, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("database open failed", "module", "app", "action", "open", "resource", "db", "result", "failed", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	settingsRepo := repository.NewSettingsRepository(dbConn)
	runRepo := repository.NewSummaryRunRepository(dbConn)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clientFactory := network.NewClientFactory(network.StaticProxy(cfg.ProxyURL))
	modelDefaults := inference.Config{
		Backend:      cfg.ModelBackend,
		ModelID:      cfg.ModelID,
		APIKey:       cfg.ModelAPIKey,
		BaseURL:      cfg.ModelBaseURL,
		HubURL:       cfg.HubURL,
		InferenceURL: cfg.InferenceURL,
		UserAgent:    config.UserAgent,
		HTTPClient:   clientFactory.NewHTTPClient(ctx, cfg.RequestTimeout),
	}

	modelService := service.NewModelService(modelDefaults, settingsRepo, nil)
	inputService := service.NewInputService(cfg.MaxUploadBytes)
	summarizeService := service.NewSummarizeService(
		modelService,
		runRepo,
		tokenizer.New(),
		inference.NewThrottle(cfg.MaxConcurrent, cfg.RateLimit),
	)
	settingsService := service.NewSettingsService(settingsRepo, modelService, nil)
	authService := service.NewAuthService(settingsRepo)
	if err := authService.Bootstrap(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Error("admin bootstrap failed", "module", "app", "action", "bootstrap", "resource", "auth", "result", "failed", "error", err)
		os.Exit(1)
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Error("templates load failed", "module", "app", "action", "load", "resource", "web", "result", "failed", "error", err)
		os.Exit(1)
	}
	pageCopy, err := web.LoadCopy()
	if err != nil {
		logger.Error("page copy load failed", "module", "app", "action", "load", "resource", "web", "result", "failed", "error", err)
		os.Exit(1)
	}

	router := transport.NewRouter(
		handler.NewPageHandler(inputService, summarizeService, modelService, pageCopy),
		handler.NewSummarizeHandler(inputService, summarizeService),
		handler.NewModelHandler(modelService),
		handler.NewSettingsHandler(settingsService),
		handler.NewAuthHandler(authService),
		authService,
		renderer,
		cfg.MaxUploadBytes,
	)

	sched := scheduler.New(summarizeService, cfg.RunRetention, cfg.RetentionSpec)
	if err := sched.Start(); err != nil {
		logger.Error("scheduler start failed", "module", "app", "action", "start", "resource", "scheduler", "result", "failed", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	g, gctx := errgroup.WithContext(ctx)

	// The page reports "loading" until this finishes; a failure leaves the
	// service degraded rather than stopping it.
	g.Go(func() error {
		_, _ = modelService.Load(gctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("server starting", "module", "app", "action", "start", "resource", "http", "result", "ok", "addr", cfg.Addr, "version", config.AppVersion)
		if err := router.Start(cfg.Addr); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "module", "app", "action", "stop", "resource", "http", "result", "ok")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return router.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", "module", "app", "action", "stop", "resource", "http", "result", "failed", "error", err)
		os.Exit(1)
	}
}
