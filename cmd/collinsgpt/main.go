package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/collinsgpt/collinsgpt/internal/config"
	"github.com/collinsgpt/collinsgpt/internal/dixer"
	"github.com/collinsgpt/collinsgpt/internal/safehttp"
	"github.com/collinsgpt/collinsgpt/internal/server"
	"github.com/collinsgpt/collinsgpt/internal/telemetry"
	"github.com/collinsgpt/collinsgpt/internal/web"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.CredentialConfigured() {
		// Not fatal: the UI surfaces a clear message on every generation
		// attempt, which beats a crash loop on a fresh deployment.
		logger.Warn("OPENROUTER_API_KEY is not set; generation will fail until it is configured")
	}

	shutdownTracer, err := telemetry.Init("collinsgpt", logger)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	gen := dixer.NewGenerator(dixer.GeneratorConfig{
		APIKey:       cfg.OpenRouter.APIKey,
		BaseURL:      cfg.OpenRouter.BaseURL,
		DefaultModel: cfg.Generation.DefaultModel,
		Timeout:      cfg.Generation.Timeout,
	},
		dixer.WithLogger(logger),
		dixer.WithHTTPClient(&http.Client{Transport: safehttp.Transport}),
	)

	srv := server.New(cfg.Server.Port, logger)
	web.NewHandler(gen, cfg, logger).Routes(srv.Router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	case <-sigCh:
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
