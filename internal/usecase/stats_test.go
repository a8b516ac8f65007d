package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/hirewise/ai-job-matcher/internal/domain"
)

func TestStatsSnapshot(t *testing.T) {
	matches, results := newFakeMatchRepo(), newFakeResultRepo()
	ctx := context.Background()
	now := time.Now().UTC()

	for _, status := range []domain.MatchStatus{domain.MatchQueued, domain.MatchQueued, domain.MatchCompleted, domain.MatchFailed} {
		if _, err := matches.Create(ctx, domain.MatchJob{Status: status, CreatedAt: now, UpdatedAt: now}); err != nil {
			t.Fatal(err)
		}
	}
	_ = results.Upsert(ctx, "m3", domain.PipelineResult{Verdict: domain.Verdict{Recommendation: "Good Match"}})
	_ = results.Upsert(ctx, "m9", domain.PipelineResult{Verdict: domain.Verdict{Recommendation: "Good Match"}})
	_ = results.Upsert(ctx, "m10", domain.PipelineResult{Verdict: domain.Verdict{Recommendation: "Not Recommended"}})

	svc := NewStatsService(matches, results)
	stats, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if stats.Matches["queued"] != 2 || stats.Matches["completed"] != 1 || stats.Matches["failed"] != 1 {
		t.Errorf("matches = %v", stats.Matches)
	}
	if stats.Recommendations["Good Match"] != 2 || stats.Recommendations["Not Recommended"] != 1 {
		t.Errorf("recommendations = %v", stats.Recommendations)
	}
}
