// Command worker consumes match tasks from Redpanda and runs the
// hiring-panel debate pipeline for each one.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hirewise/ai-job-matcher/internal/adapter/ai/openrouter"
	"github.com/hirewise/ai-job-matcher/internal/adapter/ai/stub"
	"github.com/hirewise/ai-job-matcher/internal/adapter/ai/tokencount"
	"github.com/hirewise/ai-job-matcher/internal/adapter/observability"
	"github.com/hirewise/ai-job-matcher/internal/adapter/queue/redpanda"
	"github.com/hirewise/ai-job-matcher/internal/adapter/repo/postgres"
	qdrantcli "github.com/hirewise/ai-job-matcher/internal/adapter/vector/qdrant"
	"github.com/hirewise/ai-job-matcher/internal/config"
	"github.com/hirewise/ai-job-matcher/internal/debate"
	"github.com/hirewise/ai-job-matcher/internal/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.InitMetrics()

	// The worker exposes its own /metrics so Prometheus can scrape
	// pipeline and queue instrumentation.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":9090", mux); err != nil {
			slog.Error("worker metrics server error", slog.Any("error", err))
		}
	}()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	slog.Info("starting worker", slog.String("env", cfg.AppEnv))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		slog.Error("schema setup failed", slog.Any("error", err))
		os.Exit(1)
	}

	profileRepo := postgres.NewProfileRepo(pool)
	jobRepo := postgres.NewJobRepo(pool)
	matchRepo := postgres.NewMatchRepo(pool)
	resultRepo := postgres.NewResultRepo(pool)

	// Without an API key every agent runs on its deterministic fallback,
	// which keeps local development workable.
	var aicl domain.AIClient
	if cfg.OpenRouterAPIKey != "" {
		aicl = openrouter.New(cfg)
	} else {
		slog.Warn("no OpenRouter API key, agents run on deterministic fallbacks")
		aicl = stub.New()
	}
	counter := tokencount.NewCounter(cfg.OpenRouterModel)

	pipeline := debate.New(aicl, counter, debate.Config{
		RedebateThreshold: cfg.RedebateThreshold,
		MaxDebateRounds:   cfg.MaxDebateRounds,
	})

	var indexer *qdrantcli.Indexer
	if cfg.QdrantURL != "" {
		qcli := qdrantcli.New(cfg.QdrantURL, cfg.QdrantAPIKey)
		// text-embedding-3-small vectors; the stub embedder only runs
		// in environments without Qdrant configured.
		if err := qcli.EnsureCollection(ctx, qdrantcli.CollectionProfiles, 1536, "Cosine"); err != nil {
			slog.Warn("qdrant collection bootstrap failed", slog.Any("error", err))
		}
		indexer = qdrantcli.NewIndexer(aicl, qcli)
	}

	handler := &redpanda.MatchHandler{
		Profiles: profileRepo,
		Jobs:     jobRepo,
		Matches:  matchRepo,
		Results:  resultRepo,
		Pipeline: pipeline,
	}
	if indexer != nil {
		handler.Indexer = indexer
	}

	consumer, err := redpanda.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, handler, cfg.ConsumerMaxConcurrency)
	if err != nil {
		slog.Error("redpanda consumer init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			slog.Error("failed to close consumer", slog.Any("error", err))
		}
	}()

	slog.Info("starting redpanda consumer",
		slog.String("group", cfg.ConsumerGroup),
		slog.Int("workers", cfg.ConsumerMaxConcurrency))
	if err := consumer.Start(ctx); err != nil {
		slog.Error("consumer error", slog.Any("error", err))
	}
	slog.Info("worker stopped")
}
