package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/hirewise/ai-job-matcher/internal/domain"
)

// ResultRepo persists pipeline results. The full result is one jsonb
// document; final_score and recommendation are lifted into columns for
// the stats queries.
type ResultRepo struct{ Pool PgxPool }

// NewResultRepo constructs a ResultRepo with the given pool.
func NewResultRepo(p PgxPool) *ResultRepo { return &ResultRepo{Pool: p} }

// Upsert inserts or updates a result by match_id.
func (r *ResultRepo) Upsert(ctx domain.Context, matchID string, res domain.PipelineResult) error {
	tracer := otel.Tracer("repo.results")
	ctx, span := tracer.Start(ctx, "results.Upsert")
	defer span.End()
	doc, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("op=result.upsert marshal: %w", err)
	}
	q := `INSERT INTO match_results (match_id, final_score, recommendation, document, created_at)
	VALUES ($1,$2,$3,$4,$5)
	ON CONFLICT (match_id)
	DO UPDATE SET final_score=EXCLUDED.final_score, recommendation=EXCLUDED.recommendation, document=EXCLUDED.document`
	_, err = r.Pool.Exec(ctx, q, matchID, res.Verdict.FinalScore, res.Verdict.Recommendation, doc, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("op=result.upsert: %w", err)
	}
	return nil
}

// GetByMatchID loads a result by its match_id.
func (r *ResultRepo) GetByMatchID(ctx domain.Context, matchID string) (domain.PipelineResult, error) {
	tracer := otel.Tracer("repo.results")
	ctx, span := tracer.Start(ctx, "results.GetByMatchID")
	defer span.End()
	q := `SELECT document FROM match_results WHERE match_id=$1`
	var doc []byte
	if err := r.Pool.QueryRow(ctx, q, matchID).Scan(&doc); err != nil {
		if err == pgx.ErrNoRows {
			return domain.PipelineResult{}, fmt.Errorf("op=result.get: %w", domain.ErrNotFound)
		}
		return domain.PipelineResult{}, fmt.Errorf("op=result.get: %w", err)
	}
	var res domain.PipelineResult
	if err := json.Unmarshal(doc, &res); err != nil {
		return domain.PipelineResult{}, fmt.Errorf("op=result.get unmarshal: %w", err)
	}
	return res, nil
}

// RecommendationCounts returns the number of results per recommendation band.
func (r *ResultRepo) RecommendationCounts(ctx domain.Context) (map[string]int64, error) {
	tracer := otel.Tracer("repo.results")
	ctx, span := tracer.Start(ctx, "results.RecommendationCounts")
	defer span.End()
	rows, err := r.Pool.Query(ctx, `SELECT recommendation, COUNT(*) FROM match_results GROUP BY recommendation`)
	if err != nil {
		return nil, fmt.Errorf("op=result.recommendation_counts: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var rec string
		var n int64
		if err := rows.Scan(&rec, &n); err != nil {
			return nil, fmt.Errorf("op=result.recommendation_counts scan: %w", err)
		}
		out[rec] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=result.recommendation_counts rows: %w", err)
	}
	return out, nil
}
