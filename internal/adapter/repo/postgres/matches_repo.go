package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/hirewise/ai-job-matcher/internal/domain"
)

// MatchRepo persists match jobs using a minimal pgx pool.
type MatchRepo struct{ Pool PgxPool }

// NewMatchRepo constructs a MatchRepo with the given pool.
func NewMatchRepo(p PgxPool) *MatchRepo { return &MatchRepo{Pool: p} }

const matchColumns = `id, status, COALESCE(error,''), profile_id, job_id, idempotency_key, created_at, updated_at`

// Create inserts a new match and returns its id.
func (r *MatchRepo) Create(ctx domain.Context, m domain.MatchJob) (string, error) {
	tracer := otel.Tracer("repo.matches")
	ctx, span := tracer.Start(ctx, "matches.Create")
	defer span.End()
	id := m.ID
	if id == "" {
		id = uuid.New().String()
	}
	q := `INSERT INTO matches (id, status, error, profile_id, job_id, idempotency_key, created_at, updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	now := time.Now().UTC()
	_, err := r.Pool.Exec(ctx, q, id, m.Status, m.Error, m.ProfileID, m.JobID, m.IdemKey, now, now)
	if err != nil {
		return "", fmt.Errorf("op=match.create: %w", err)
	}
	return id, nil
}

// UpdateStatus updates a match's status and optional error message.
func (r *MatchRepo) UpdateStatus(ctx domain.Context, id string, status domain.MatchStatus, errMsg *string) error {
	tracer := otel.Tracer("repo.matches")
	ctx, span := tracer.Start(ctx, "matches.UpdateStatus")
	defer span.End()
	errVal := ""
	if errMsg != nil {
		errVal = *errMsg
	}
	q := `UPDATE matches SET status=$2, error=$3, updated_at=$4 WHERE id=$1`
	_, err := r.Pool.Exec(ctx, q, id, status, errVal, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("op=match.update_status: %w", err)
	}
	return nil
}

// Get loads a match by id.
func (r *MatchRepo) Get(ctx domain.Context, id string) (domain.MatchJob, error) {
	tracer := otel.Tracer("repo.matches")
	ctx, span := tracer.Start(ctx, "matches.Get")
	defer span.End()
	q := `SELECT ` + matchColumns + ` FROM matches WHERE id=$1`
	m, err := scanMatch(r.Pool.QueryRow(ctx, q, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.MatchJob{}, fmt.Errorf("op=match.get: %w", domain.ErrNotFound)
		}
		return domain.MatchJob{}, fmt.Errorf("op=match.get: %w", err)
	}
	return m, nil
}

// FindByIdempotencyKey loads a match by idempotency key.
func (r *MatchRepo) FindByIdempotencyKey(ctx domain.Context, key string) (domain.MatchJob, error) {
	tracer := otel.Tracer("repo.matches")
	ctx, span := tracer.Start(ctx, "matches.FindByIdempotencyKey")
	defer span.End()
	q := `SELECT ` + matchColumns + ` FROM matches WHERE idempotency_key=$1 LIMIT 1`
	m, err := scanMatch(r.Pool.QueryRow(ctx, q, key))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.MatchJob{}, fmt.Errorf("op=match.find_idem: %w", domain.ErrNotFound)
		}
		return domain.MatchJob{}, fmt.Errorf("op=match.find_idem: %w", err)
	}
	return m, nil
}

// CountByStatus returns the number of matches per status.
func (r *MatchRepo) CountByStatus(ctx domain.Context) (map[domain.MatchStatus]int64, error) {
	tracer := otel.Tracer("repo.matches")
	ctx, span := tracer.Start(ctx, "matches.CountByStatus")
	defer span.End()
	rows, err := r.Pool.Query(ctx, `SELECT status, COUNT(*) FROM matches GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("op=match.count_by_status: %w", err)
	}
	defer rows.Close()
	out := make(map[domain.MatchStatus]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("op=match.count_by_status scan: %w", err)
		}
		out[domain.MatchStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=match.count_by_status rows: %w", err)
	}
	return out, nil
}

func scanMatch(row pgx.Row) (domain.MatchJob, error) {
	var m domain.MatchJob
	var idem *string
	if err := row.Scan(&m.ID, &m.Status, &m.Error, &m.ProfileID, &m.JobID, &idem, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return domain.MatchJob{}, err
	}
	m.IdemKey = idem
	return m, nil
}
