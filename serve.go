package main

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

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"mortgage-agent/config"
	httpLayer "mortgage-agent/http"
	"mortgage-agent/logging"
	"mortgage-agent/repository"
	"mortgage-agent/service"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func loadConfig() (*config.App, *slog.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logging.New(cfg.Log), nil
}

func newCache(ctx context.Context, cfg *config.App, logger *slog.Logger) repository.CacheRepository {
	if cfg.Cache.Driver != config.CacheDriverRedis {
		return repository.NewMemoryCache()
	}

	cache := repository.NewRedisCache(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Redis.Prefix)
	if err := cache.Ping(ctx); err != nil {
		logger.Warn("Redis unreachable, falling back to in-memory cache", "addr", cfg.Redis.Addr, "error", err)
		return repository.NewMemoryCache()
	}
	logger.Info("Using redis cache", "addr", cfg.Redis.Addr)
	return cache
}

func newCalculationRepository(ctx context.Context, cfg *config.App, logger *slog.Logger) (repository.CalculationRepository, func(), error) {
	if cfg.Storage.SQLitePath == "" {
		return repository.NewCalculationRepositoryMemory(cfg.Storage.MemoryLimit), func() {}, nil
	}

	repo, err := repository.OpenSQLiteCalculationRepository(ctx, cfg.Storage.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("sqlite calculation log opened", "path", cfg.Storage.SQLitePath)
	return repo, func() {
		if err := repo.Close(); err != nil {
			logger.Warn("Error closing calculation log", "error", err)
		}
	}, nil
}

func runServe(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Info("App config loaded", cfg.LogAttrs()...)

	cache := newCache(ctx, cfg, logger)
	calcRepo, closeRepo, err := newCalculationRepository(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open calculation log: %w", err)
	}
	defer closeRepo()

	loanService := service.NewLoanService(calcRepo, cache, cfg.Cache.TTL, logger)
	rateService := service.NewRateService(cfg.Rates, logger)
	chatService := service.NewChatService(cfg.Chat, logger)

	if !rateService.Configured() {
		logger.Warn("API_NINJAS_KEY not set, /rates serves default rates")
	}
	if !chatService.Configured() {
		logger.Warn("OPENAI_API_KEY not set, /chat will answer with a configuration error")
	}

	chatLimiter, err := httpLayer.NewRateLimiter(
		cfg.RateLimit.MaxRequests,
		cfg.RateLimit.Window,
		cfg.RateLimit.CleanupSchedule,
	)
	if err != nil {
		return err
	}
	defer chatLimiter.Stop()

	calcLimiter, err := httpLayer.NewRateLimiter(
		cfg.RateLimit.CalculateMaxRequests,
		cfg.RateLimit.Window,
		cfg.RateLimit.CleanupSchedule,
	)
	if err != nil {
		return err
	}
	defer calcLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.RouterDeps{
		Loans:       loanService,
		Rates:       rateService,
		Chat:        chatService,
		CalcLimiter: calcLimiter,
		ChatLimiter: chatLimiter,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("API listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("start server: %w", err)
	case <-quit:
		logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during server shutdown", "error", err)
	}

	logger.Info("Server exited")
	return nil
}
