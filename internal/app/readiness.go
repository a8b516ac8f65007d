package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hirewise/ai-job-matcher/internal/config"
)

// Pinger is the minimal pool interface for the db readiness check.
type Pinger interface{ Ping(ctx context.Context) error }

// BuildReadinessChecks returns the db, redis, qdrant, and tika checks.
// Any nil dependency yields a check reporting it unconfigured.
func BuildReadinessChecks(cfg config.Config, pool Pinger, rdb *redis.Client) (
	dbCheck func(ctx context.Context) error,
	redisCheck func(ctx context.Context) error,
	qdrantCheck func(ctx context.Context) error,
	tikaCheck func(ctx context.Context) error,
) {
	dbCheck = func(ctx context.Context) error {
		if pool == nil {
			return fmt.Errorf("db not configured")
		}
		return pool.Ping(ctx)
	}
	redisCheck = func(ctx context.Context) error {
		if rdb == nil {
			return fmt.Errorf("redis not configured")
		}
		return rdb.Ping(ctx).Err()
	}
	qdrantCheck = func(ctx context.Context) error {
		if cfg.QdrantURL == "" {
			return fmt.Errorf("qdrant url not configured")
		}
		return httpProbe(ctx, cfg.QdrantURL+"/collections", cfg.QdrantAPIKey)
	}
	tikaCheck = func(ctx context.Context) error {
		if cfg.TikaURL == "" {
			return fmt.Errorf("tika url not configured")
		}
		return httpProbe(ctx, cfg.TikaURL+"/version", "")
	}
	return dbCheck, redisCheck, qdrantCheck, tikaCheck
}

func httpProbe(ctx context.Context, url, apiKey string) error {
	client := &http.Client{Timeout: 2 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if apiKey != "" {
		req.Header.Set("api-key", apiKey)
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("probe status %d", resp.StatusCode)
	}
	return nil
}
