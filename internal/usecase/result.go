package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hirewise/ai-job-matcher/internal/domain"
	"github.com/hirewise/ai-job-matcher/internal/observability"
)

// staleAfter marks queued/processing matches older than this as failed
// when a client polls them; it bounds how long a lost task can look alive.
const staleAfter = 2 * time.Minute

// ResultCache is an optional read-through cache in front of the result
// repository. Implementations live in internal/app.
type ResultCache interface {
	Get(ctx domain.Context, matchID string) (domain.PipelineResult, bool)
	Set(ctx domain.Context, matchID string, r domain.PipelineResult)
}

// ResultService provides read access to match results and assembles the
// API response envelope including ETag logic and error mapping.
type ResultService struct {
	Matches domain.MatchRepository
	Results domain.ResultRepository
	Cache   ResultCache
}

// NewResultService constructs a ResultService. cache may be nil.
func NewResultService(m domain.MatchRepository, r domain.ResultRepository, cache ResultCache) ResultService {
	return ResultService{Matches: m, Results: r, Cache: cache}
}

// Fetch returns the HTTP status code, response body, and ETag for the
// given match id, honoring If-None-Match conditional requests.
func (s ResultService) Fetch(ctx domain.Context, id, ifNoneMatch string) (int, map[string]any, string, error) {
	lg := observability.LoggerFromContext(ctx)

	match, err := s.Matches.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return http.StatusNotFound, nil, "", fmt.Errorf("%w: match not found", domain.ErrNotFound)
		}
		return http.StatusInternalServerError, nil, "", err
	}

	if match.Status != domain.MatchCompleted {
		now := time.Now().UTC()
		stale := (match.Status == domain.MatchQueued && now.Sub(match.CreatedAt) > staleAfter) ||
			(match.Status == domain.MatchProcessing && now.Sub(match.UpdatedAt) > staleAfter)
		if stale {
			lg.Warn("match marked stale",
				slog.String("match_id", id),
				slog.String("status", string(match.Status)),
				slog.Duration("age", now.Sub(match.CreatedAt)))
			msg := "timeout: match exceeded " + staleAfter.String()
			_ = s.Matches.UpdateStatus(ctx, id, domain.MatchFailed, &msg)
			match.Status = domain.MatchFailed
			match.Error = msg
		}
		body := map[string]any{"id": id, "status": string(match.Status)}
		if match.Status == domain.MatchFailed {
			body["error"] = map[string]any{
				"code":    errorCodeFromMatchError(match.Error),
				"message": match.Error,
			}
		}
		etag := makeETag(body)
		if etag == ifNoneMatch {
			return http.StatusNotModified, nil, etag, nil
		}
		return http.StatusOK, body, etag, nil
	}

	res, ok := s.cachedResult(ctx, id)
	if !ok {
		res, err = s.Results.GetByMatchID(ctx, id)
		if err != nil {
			return http.StatusInternalServerError, nil, "", err
		}
		if s.Cache != nil {
			s.Cache.Set(ctx, id, res)
		}
	}

	body := map[string]any{"id": id, "status": string(domain.MatchCompleted), "result": res}
	etag := makeETag(body)
	if etag == ifNoneMatch {
		return http.StatusNotModified, nil, etag, nil
	}
	return http.StatusOK, body, etag, nil
}

func (s ResultService) cachedResult(ctx domain.Context, id string) (domain.PipelineResult, bool) {
	if s.Cache == nil {
		return domain.PipelineResult{}, false
	}
	return s.Cache.Get(ctx, id)
}

func makeETag(v any) string {
	b, _ := json.Marshal(v)
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// errorCodeFromMatchError maps a stored match error message to a stable
// error code for the API envelope.
func errorCodeFromMatchError(msg string) string {
	s := strings.ToLower(strings.TrimSpace(msg))
	switch {
	case strings.Contains(s, "schema invalid"), strings.Contains(s, "invalid json"):
		return "SCHEMA_INVALID"
	case strings.Contains(s, "rate limit"):
		return "UPSTREAM_RATE_LIMIT"
	case strings.Contains(s, "timeout"), strings.Contains(s, "deadline exceeded"):
		return "UPSTREAM_TIMEOUT"
	case strings.Contains(s, "not found"):
		return "NOT_FOUND"
	case strings.Contains(s, "invalid argument"):
		return "INVALID_ARGUMENT"
	default:
		return "INTERNAL"
	}
}
