// Package postgres provides PostgreSQL repository adapters.
//
// Profiles, jobs, and results carry structured fields (skills,
// experience, debate rounds) as jsonb documents; matches are plain
// relational rows so status transitions and idempotency lookups stay
// cheap.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is a minimal subset of pgxpool used by the repos for easy testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// EnsureSchema creates the tables when they do not exist yet. Safe to
// run at every startup.
func EnsureSchema(ctx context.Context, pool PgxPool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			years_experience DOUBLE PRECISION NOT NULL DEFAULT 0,
			code_profile_url TEXT NOT NULL DEFAULT '',
			document JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS job_requirements (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			company TEXT NOT NULL DEFAULT '',
			document JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			profile_id TEXT NOT NULL REFERENCES profiles(id),
			job_id TEXT NOT NULL REFERENCES job_requirements(id),
			idempotency_key TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS matches_idem_key ON matches(idempotency_key) WHERE idempotency_key IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS matches_status_idx ON matches(status)`,
		`CREATE TABLE IF NOT EXISTS match_results (
			match_id TEXT PRIMARY KEY REFERENCES matches(id),
			final_score DOUBLE PRECISION NOT NULL,
			recommendation TEXT NOT NULL,
			document JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
