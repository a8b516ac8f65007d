package app

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hirewise/ai-job-matcher/internal/domain"
)

const resultKeyPrefix = "match:result:"

// RedisResultCache caches completed pipeline results so repeated result
// polls skip the database. Misses and marshal failures degrade to the
// backing store.
type RedisResultCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisResultCache(rdb *redis.Client, ttl time.Duration) *RedisResultCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisResultCache{rdb: rdb, ttl: ttl}
}

func (c *RedisResultCache) Get(ctx domain.Context, matchID string) (domain.PipelineResult, bool) {
	raw, err := c.rdb.Get(ctx, resultKeyPrefix+matchID).Bytes()
	if err != nil {
		return domain.PipelineResult{}, false
	}
	var res domain.PipelineResult
	if err := json.Unmarshal(raw, &res); err != nil {
		slog.Warn("result cache decode failed", slog.String("match_id", matchID), slog.Any("error", err))
		return domain.PipelineResult{}, false
	}
	return res, true
}

func (c *RedisResultCache) Set(ctx domain.Context, matchID string, r domain.PipelineResult) {
	raw, err := json.Marshal(r)
	if err != nil {
		slog.Warn("result cache encode failed", slog.String("match_id", matchID), slog.Any("error", err))
		return
	}
	if err := c.rdb.Set(ctx, resultKeyPrefix+matchID, raw, c.ttl).Err(); err != nil {
		slog.Warn("result cache write failed", slog.String("match_id", matchID), slog.Any("error", err))
	}
}
