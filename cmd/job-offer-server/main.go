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

	"github.com/fbts/job-offer/internal/config"
	"github.com/fbts/job-offer/internal/server"
	"github.com/fbts/job-offer/pkg/constants"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	maxUploadSize := flag.String("max-upload-size", "", "maximum request body size override (e.g. 512K, 2M)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if err := cfg.SetMaxUploadSize(*maxUploadSize); err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"invalid -max-upload-size\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	structures, closeStructures, err := server.NewStructureProvider(ctx, logger, cfg)
	if err != nil {
		logger.Fatal("failed to set up salary structures",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	defer func() {
		if err := closeStructures(); err != nil {
			logger.Warn("failed to close salary structure provider", zap.String("op", "main"), zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr: cfg.Address,
		Handler: server.NewHandler(logger, structures, server.Settings{
			MaxUploadSize:      cfg.UploadSizeBytes(),
			RateLimitPerMinute: cfg.RateLimitPerMinute,
			Version:            version,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		logger.Info("starting http server",
			zap.String("op", "main"),
			zap.String("addr", cfg.Address),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", zap.String("op", "main"), zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down http server", zap.String("op", "main"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.String("op", "main"), zap.Error(err))
	}
}
