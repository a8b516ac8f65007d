package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/hirewise/ai-job-matcher/internal/domain"
)

// JobRepo persists job requirements using a minimal pgx pool.
type JobRepo struct{ Pool PgxPool }

// NewJobRepo constructs a JobRepo with the given pool.
func NewJobRepo(p PgxPool) *JobRepo { return &JobRepo{Pool: p} }

// Create stores a new job requirement and returns its id.
func (r *JobRepo) Create(ctx domain.Context, j domain.JobRequirement) (string, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.Create")
	defer span.End()
	id := j.ID
	if id == "" {
		id = uuid.New().String()
	}
	j.ID = id
	doc, err := json.Marshal(j)
	if err != nil {
		return "", fmt.Errorf("op=job.create marshal: %w", err)
	}
	q := `INSERT INTO job_requirements (id, title, company, document, created_at) VALUES ($1,$2,$3,$4,$5)`
	_, err = r.Pool.Exec(ctx, q, id, j.Title, j.Company, doc, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("op=job.create: %w", err)
	}
	return id, nil
}

// Get loads a job requirement by id.
func (r *JobRepo) Get(ctx domain.Context, id string) (domain.JobRequirement, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.Get")
	defer span.End()
	q := `SELECT document FROM job_requirements WHERE id=$1`
	var doc []byte
	if err := r.Pool.QueryRow(ctx, q, id).Scan(&doc); err != nil {
		if err == pgx.ErrNoRows {
			return domain.JobRequirement{}, fmt.Errorf("op=job.get: %w", domain.ErrNotFound)
		}
		return domain.JobRequirement{}, fmt.Errorf("op=job.get: %w", err)
	}
	var j domain.JobRequirement
	if err := json.Unmarshal(doc, &j); err != nil {
		return domain.JobRequirement{}, fmt.Errorf("op=job.get unmarshal: %w", err)
	}
	return j, nil
}
