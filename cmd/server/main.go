package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/game-store-service/internal/config"
	"github.com/preston-bernstein/game-store-service/internal/logging"
	"github.com/preston-bernstein/game-store-service/internal/server"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(os.Getenv("ENV_FILE")); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}

	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		File:      cfg.Logging.File,
		FileMaxMB: cfg.Logging.FileMaxMB,
		Service:   cfg.Metrics.ServiceName,
		Version:   appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logging.Error(logger, "startup failed", err)
		return err
	}
	srv.Run(ctx, stop)
	return nil
}
