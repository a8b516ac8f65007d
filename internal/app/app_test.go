package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "github.com/hirewise/ai-job-matcher/internal/adapter/httpserver"
	"github.com/hirewise/ai-job-matcher/internal/config"
	"github.com/hirewise/ai-job-matcher/internal/domain"
)

func TestParseOrigins(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", []string{"*"}},
		{"*", []string{"*"}},
		{"https://a.example", []string{"https://a.example"}},
		{"https://a.example, https://b.example", []string{"https://a.example", "https://b.example"}},
		{" , ", []string{"*"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseOrigins(tc.in), "input %q", tc.in)
	}
}

func TestBuildRouter_HealthAndMetrics(t *testing.T) {
	cfg := config.Config{AppEnv: "test", RateLimitPerMin: 60, MaxUploadMB: 10}
	h := BuildRouter(cfg, &httpserver.Server{Cfg: cfg})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisResultCache_RoundTrip(t *testing.T) {
	_, rdb := newMiniRedis(t)
	cache := NewRedisResultCache(rdb, time.Minute)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "m1")
	assert.False(t, ok)

	want := domain.PipelineResult{
		TotalRounds: 2,
		Verdict:     domain.Verdict{FinalScore: 81, Recommendation: "Strong Match", Confidence: 0.9},
	}
	cache.Set(ctx, "m1", want)

	got, ok := cache.Get(ctx, "m1")
	require.True(t, ok)
	assert.Equal(t, want.Verdict.FinalScore, got.Verdict.FinalScore)
	assert.Equal(t, want.Verdict.Recommendation, got.Verdict.Recommendation)
	assert.Equal(t, want.TotalRounds, got.TotalRounds)
}

func TestRedisResultCache_TTLExpiry(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	cache := NewRedisResultCache(rdb, time.Second)
	ctx := context.Background()

	cache.Set(ctx, "m2", domain.PipelineResult{TotalRounds: 1})
	_, ok := cache.Get(ctx, "m2")
	require.True(t, ok)

	mr.FastForward(2 * time.Second)
	_, ok = cache.Get(ctx, "m2")
	assert.False(t, ok)
}

func TestRedisResultCache_BadPayloadMisses(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	cache := NewRedisResultCache(rdb, time.Minute)

	require.NoError(t, mr.Set(resultKeyPrefix+"m3", "{not json"))
	_, ok := cache.Get(context.Background(), "m3")
	assert.False(t, ok)
}

type pingStub struct{ err error }

func (p pingStub) Ping(context.Context) error { return p.err }

func TestBuildReadinessChecks(t *testing.T) {
	qdrant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections", r.URL.Path)
		assert.Equal(t, "qd-key", r.Header.Get("api-key"))
		w.WriteHeader(http.StatusOK)
	}))
	defer qdrant.Close()
	tika := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/version", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer tika.Close()

	_, rdb := newMiniRedis(t)
	cfg := config.Config{QdrantURL: qdrant.URL, QdrantAPIKey: "qd-key", TikaURL: tika.URL}
	db, red, qd, tk := BuildReadinessChecks(cfg, pingStub{}, rdb)
	ctx := context.Background()

	assert.NoError(t, db(ctx))
	assert.NoError(t, red(ctx))
	assert.NoError(t, qd(ctx))
	assert.ErrorContains(t, tk(ctx), "probe status 500")
}

func TestBuildReadinessChecks_Unconfigured(t *testing.T) {
	db, red, qd, tk := BuildReadinessChecks(config.Config{}, nil, nil)
	ctx := context.Background()
	assert.Error(t, db(ctx))
	assert.Error(t, red(ctx))
	assert.ErrorContains(t, qd(ctx), "not configured")
	assert.ErrorContains(t, tk(ctx), "not configured")
}
