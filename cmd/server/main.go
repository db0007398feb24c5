package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nulzo/intent-router/cmd"
	"github.com/nulzo/intent-router/internal/config"
	"github.com/nulzo/intent-router/internal/gateway"
	"github.com/nulzo/intent-router/internal/platform/logger"
	tracing "github.com/nulzo/intent-router/internal/platform/otel"
	"github.com/nulzo/intent-router/internal/server"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	logCfg := logger.DefaultConfig()
	if cfg.Log.Level != "" {
		logCfg.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" {
		logCfg.Format = cfg.Log.Format
	}
	logger.Initialize(logCfg)
	defer logger.Sync()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if update := cmd.CheckLatestRelease(ctx); update != nil {
			log.Warn(update.String())
		}
	}()

	shutdownTracer, err := tracing.InitTracer(cfg.Tracing.Enabled, cfg.Tracing.ServiceName, log, os.Stderr)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	rt, err := gateway.Bootstrap(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to start router", zap.Error(err))
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	srv := server.New(cfg, log, rt.Service, cmd.AppVersion)
	if err := srv.Run(ctx); err != nil {
		log.Error("server stopped", zap.Error(err))
	}
}
