package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"repoplan/internal/config"
	"repoplan/internal/health"
	"repoplan/internal/ingest"
	"repoplan/internal/llm"
	"repoplan/internal/pipeline"
	"repoplan/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := newClient(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("creating LLM client", zap.Error(err))
	}
	defer func() { _ = client.Close() }()

	analyzer := pipeline.NewAnalyzer(client, logger, pipeline.Options{
		CacheTTL:     cfg.Cache.TTL,
		CacheEntries: cfg.Cache.MaxEntries,
	})
	handlers := &server.Handlers{
		Analyzer: analyzer,
		Checker:  &ingest.Checker{},
		Health:   health.NewService(client, logger),
		Log:      logger,
	}

	srv := server.New(cfg.Port, server.NewMux(handlers), logger)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	if err := srv.Start(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	if env == "local" {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return l
	}
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return l
}

func newClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (llm.Client, error) {
	if cfg.LLM.Fake {
		logger.Warn("no API key configured, using fake LLM client")
		return llm.NewFakeClient(), nil
	}
	client, err := llm.NewGeminiClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
	if err != nil {
		return nil, err
	}
	logger.Info("LLM client ready", zap.String("model", client.Name()))
	return client, nil
}
