package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Haleralex/jobportal/internal/config"
	"github.com/Haleralex/jobportal/internal/container"
	"github.com/Haleralex/jobportal/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config-path", "configs", "Directory with the config file")
	configName := flag.String("config-name", "config", "Config file name without extension")
	flag.Parse()

	cfg, err := config.Load(*configPath, *configName)
	if err != nil {
		slog.Error("Failed to load config", logger.Err(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := container.New(cfg)
	if err := c.Initialize(ctx); err != nil {
		slog.Error("Failed to initialize application", logger.Err(err))
		os.Exit(1)
	}

	if err := c.Run(ctx); err != nil {
		c.Logger().Error("Server error", logger.Err(err))
		os.Exit(1)
	}

	c.Logger().Info("Server stopped gracefully")
}
