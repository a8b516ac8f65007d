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

// ProfileRepo persists candidate profiles using a minimal pgx pool.
type ProfileRepo struct{ Pool PgxPool }

// NewProfileRepo constructs a ProfileRepo with the given pool.
func NewProfileRepo(p PgxPool) *ProfileRepo { return &ProfileRepo{Pool: p} }

// Create stores a new profile and returns its id (generates one if empty).
func (r *ProfileRepo) Create(ctx domain.Context, p domain.CandidateProfile) (string, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.Create")
	defer span.End()
	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}
	p.ID = id
	doc, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("op=profile.create marshal: %w", err)
	}
	q := `INSERT INTO profiles (id, name, summary, years_experience, code_profile_url, document, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err = r.Pool.Exec(ctx, q, id, p.Name, p.Summary, p.YearsExperience, p.CodeProfileURL, doc, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("op=profile.create: %w", err)
	}
	return id, nil
}

// Get loads a profile by id.
func (r *ProfileRepo) Get(ctx domain.Context, id string) (domain.CandidateProfile, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.Get")
	defer span.End()
	q := `SELECT document FROM profiles WHERE id=$1`
	var doc []byte
	if err := r.Pool.QueryRow(ctx, q, id).Scan(&doc); err != nil {
		if err == pgx.ErrNoRows {
			return domain.CandidateProfile{}, fmt.Errorf("op=profile.get: %w", domain.ErrNotFound)
		}
		return domain.CandidateProfile{}, fmt.Errorf("op=profile.get: %w", err)
	}
	var p domain.CandidateProfile
	if err := json.Unmarshal(doc, &p); err != nil {
		return domain.CandidateProfile{}, fmt.Errorf("op=profile.get unmarshal: %w", err)
	}
	return p, nil
}
