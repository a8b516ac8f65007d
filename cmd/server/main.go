// Command server starts the job-matcher HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hirewise/ai-job-matcher/internal/adapter/ai/openrouter"
	"github.com/hirewise/ai-job-matcher/internal/adapter/ai/stub"
	"github.com/hirewise/ai-job-matcher/internal/adapter/ai/tokencount"
	httpserver "github.com/hirewise/ai-job-matcher/internal/adapter/httpserver"
	"github.com/hirewise/ai-job-matcher/internal/adapter/observability"
	"github.com/hirewise/ai-job-matcher/internal/adapter/queue/redpanda"
	"github.com/hirewise/ai-job-matcher/internal/adapter/repo/postgres"
	tikaext "github.com/hirewise/ai-job-matcher/internal/adapter/textextractor/tika"
	"github.com/hirewise/ai-job-matcher/internal/app"
	"github.com/hirewise/ai-job-matcher/internal/config"
	"github.com/hirewise/ai-job-matcher/internal/debate"
	"github.com/hirewise/ai-job-matcher/internal/domain"
	"github.com/hirewise/ai-job-matcher/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
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

	if cfg.DataRetentionDays > 0 {
		cleanupSvc := postgres.NewCleanupService(pool, cfg.DataRetentionDays)
		go cleanupSvc.RunPeriodic(ctx, cfg.CleanupInterval)
		slog.Info("cleanup service started",
			slog.Int("retention_days", cfg.DataRetentionDays),
			slog.Duration("interval", cfg.CleanupInterval))
	}

	producer, err := redpanda.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		slog.Error("redpanda producer connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			slog.Error("failed to close producer", slog.Any("error", err))
		}
	}()

	var rdb *redis.Client
	if opts, err := redis.ParseURL(cfg.RedisURL); err != nil {
		slog.Warn("invalid redis url, result cache disabled", slog.Any("error", err))
	} else {
		rdb = redis.NewClient(opts)
	}
	var cache usecase.ResultCache
	if rdb != nil {
		cache = app.NewRedisResultCache(rdb, cfg.ResultCacheTTL)
	}

	// Cover letters are composed on demand, so the API carries its own
	// AI client. Without an API key the template fallback still works.
	var aicl domain.AIClient
	if cfg.OpenRouterAPIKey != "" {
		aicl = openrouter.New(cfg)
	} else {
		slog.Warn("no OpenRouter API key, cover letters use template fallback")
		aicl = stub.New()
	}
	counter := tokencount.NewCounter(cfg.OpenRouterModel)

	dbCheck, redisCheck, qdrantCheck, tikaCheck := app.BuildReadinessChecks(cfg, pool, rdb)

	srv := &httpserver.Server{
		Cfg:       cfg,
		Profiles:  usecase.NewProfileService(profileRepo),
		Jobs:      usecase.NewJobService(jobRepo),
		Matches:   usecase.NewMatchService(profileRepo, jobRepo, matchRepo, producer),
		Results:   usecase.NewResultService(matchRepo, resultRepo, cache),
		Stats:     usecase.NewStatsService(matchRepo, resultRepo),
		Letters:   usecase.NewLetterService(profileRepo, jobRepo, resultRepo, debate.NewWriter(aicl, counter)),
		Extractor: tikaext.New(cfg.TikaURL),

		DBCheck:     dbCheck,
		RedisCheck:  redisCheck,
		QdrantCheck: qdrantCheck,
		TikaCheck:   tikaCheck,
	}

	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
