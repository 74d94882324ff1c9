package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/loan-amortization/internal/cache"
	"github.com/iwvelando/loan-amortization/internal/logging"
	"github.com/iwvelando/loan-amortization/internal/server"
	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// A missing .env file is not an error
	_ = godotenv.Load()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	repo, err := cfg.NewCache()
	if err != nil {
		logger.Fatal("failed to initialize schedule cache",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	if rc, ok := repo.(*cache.RedisCache); ok {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			logger.Warn("redis cache unreachable, requests will be computed uncached until it recovers",
				zap.String("op", "main"),
				zap.String("address", cfg.Cache.RedisAddress),
				zap.Error(err),
			)
		}
		cancel()
		defer func() { _ = rc.Close() }()
	}

	handler := server.NewHandler(logger, cfg.UploadSizeBytes(), version,
		server.WithCache(repo),
		server.WithMetricsPath(cfg.MetricsPath),
	)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.String("cache", cfg.Cache.Backend),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return
	case <-quit:
		logger.Info("shutting down",
			zap.String("op", "main"),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("error during server shutdown",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
