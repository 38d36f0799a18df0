package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/owltechengineer/ecoceo-sub006/internal/app"
	"github.com/owltechengineer/ecoceo-sub006/internal/config"
	"github.com/owltechengineer/ecoceo-sub006/pkg/logger"
	"github.com/owltechengineer/ecoceo-sub006/pkg/tracing"
)

const serviceName = "ecoceo-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracingCfg := tracing.DefaultConfig(serviceName)
	tracingCfg.Environment = cfg.Environment
	tracingCfg.OTLPEndpoint = cfg.OTLPEndpoint
	tracingCfg.SampleRate = cfg.TracingSampleRate
	tracingCfg.Enabled = cfg.TracingEnabled

	shutdownTracing, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error("tracing shutdown failed", slog.String("error", err.Error()))
		}
	}()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to start application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		log.Error("application exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
