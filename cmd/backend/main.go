package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	configloader "github.com/o-mars/daily-journai/external/config"
	identityimpl "github.com/o-mars/daily-journai/external/identity"
	metricsimpl "github.com/o-mars/daily-journai/external/metrics"
	repositoryimpl "github.com/o-mars/daily-journai/external/repository"
	summarizerimpl "github.com/o-mars/daily-journai/external/summarizer"
	voiceimpl "github.com/o-mars/daily-journai/external/voice"
	"github.com/o-mars/daily-journai/internal/config"
	"github.com/o-mars/daily-journai/internal/session"
	voicepkg "github.com/o-mars/daily-journai/internal/voice"
	"github.com/samber/do/v2"
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching session service")
	runService(injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	identityimpl.RegisterDI(injector)
	metricsimpl.RegisterDI(injector)
	summarizerimpl.RegisterDI(injector)
	voiceimpl.RegisterDI(injector)
	session.RegisterDI(injector)

	return injector
}

func runService(injector do.Injector) {
	manager, err := do.Invoke[*session.Manager](injector)
	if err != nil {
		slog.Error("failed to resolve session manager", "error", err)
		os.Exit(1)
	}
	listener, err := do.Invoke[voicepkg.Listener](injector)
	if err != nil {
		slog.Error("failed to resolve voice listener", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		slog.Info("startup: entering control stream loop")
		if err := listener.Run(ctx, manager); err != nil && ctx.Err() == nil {
			slog.Error("control stream loop failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case <-done:
	}

	cancel()
	stopped := manager.StopAllSessions()
	if stopped > 0 {
		slog.Info("ended running sessions on shutdown", "count", stopped)
	}
}
