package usecase

import (
	"github.com/hirewise/ai-job-matcher/internal/domain"
)

// StatsService aggregates match-queue and verdict analytics for the
// admin stats endpoint.
type StatsService struct {
	Matches domain.MatchRepository
	Results domain.ResultRepository
}

// NewStatsService constructs a StatsService.
func NewStatsService(m domain.MatchRepository, r domain.ResultRepository) StatsService {
	return StatsService{Matches: m, Results: r}
}

// Stats is the aggregate snapshot served by the stats endpoint.
type Stats struct {
	Matches         map[string]int64 `json:"matches"`
	Recommendations map[string]int64 `json:"recommendations"`
}

// Snapshot collects match counts by status and completed-verdict counts
// by recommendation band.
func (s StatsService) Snapshot(ctx domain.Context) (Stats, error) {
	byStatus, err := s.Matches.CountByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	matches := make(map[string]int64, len(byStatus))
	for status, n := range byStatus {
		matches[string(status)] = n
	}

	recs, err := s.Results.RecommendationCounts(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Matches: matches, Recommendations: recs}, nil
}
