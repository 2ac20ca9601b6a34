// Package main runs the Wolfram Alpha skill as a standalone HTTP service.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pricofy/wolfram-skill/internal/config"
	"github.com/pricofy/wolfram-skill/internal/handler"
	"github.com/pricofy/wolfram-skill/internal/logging"
	"github.com/pricofy/wolfram-skill/internal/metrics"
	"github.com/pricofy/wolfram-skill/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	m := metrics.New()
	app := server.New(handler.NewFromConfig(cfg, nil, m, logger), m, logger.Named("http"))

	go func() {
		logger.Info("Starting HTTP Server",
			zap.Int("port", cfg.HTTPPort),
			zap.String("environment", cfg.Environment),
		)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTPPort)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if err := app.Shutdown(); err != nil {
		logger.Error("HTTP Server shutdown failed", zap.Error(err))
	}
}
