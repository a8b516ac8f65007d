package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// CleanupService removes matches and their results past the retention
// window. Profiles and job requirements are kept; they may be reused by
// future matches.
type CleanupService struct {
	Pool          PgxPool
	RetentionDays int
}

// NewCleanupService creates a cleanup service with a 90 day default.
func NewCleanupService(pool PgxPool, retentionDays int) *CleanupService {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &CleanupService{Pool: pool, RetentionDays: retentionDays}
}

// CleanupOldData deletes match rows (and their results) older than the
// retention period.
func (s *CleanupService) CleanupOldData(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -s.RetentionDays)

	tag, err := s.Pool.Exec(ctx, `
		DELETE FROM match_results
		WHERE match_id IN (
			SELECT id FROM matches WHERE created_at < $1
		)
	`, cutoff)
	if err != nil {
		return fmt.Errorf("op=cleanup results: %w", err)
	}
	deletedResults := tag.RowsAffected()

	tag, err = s.Pool.Exec(ctx, `DELETE FROM matches WHERE created_at < $1`, cutoff)
	if err != nil {
		return fmt.Errorf("op=cleanup matches: %w", err)
	}
	deletedMatches := tag.RowsAffected()

	slog.Info("data cleanup completed",
		slog.Int64("deleted_matches", deletedMatches),
		slog.Int64("deleted_results", deletedResults),
		slog.Time("cutoff", cutoff),
	)
	return nil
}

// RunPeriodic runs cleanup immediately and then on the given interval
// until the context is cancelled.
func (s *CleanupService) RunPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := s.CleanupOldData(ctx); err != nil {
		slog.Error("initial cleanup failed", slog.Any("error", err))
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup service stopping")
			return
		case <-ticker.C:
			if err := s.CleanupOldData(ctx); err != nil {
				slog.Error("periodic cleanup failed", slog.Any("error", err))
			}
		}
	}
}
