package usecase

import (
	"errors"
	"fmt"

	"github.com/hirewise/ai-job-matcher/internal/debate"
	"github.com/hirewise/ai-job-matcher/internal/domain"
)

// LetterService produces standalone cover letters synchronously, without
// running the full debate pipeline. When a completed match exists for
// the profile/job pair its debate rounds inform the letter.
type LetterService struct {
	Profiles domain.ProfileRepository
	Jobs     domain.JobRepository
	Results  domain.ResultRepository
	Writer   debate.Writer
}

// NewLetterService constructs a LetterService.
func NewLetterService(p domain.ProfileRepository, j domain.JobRepository, r domain.ResultRepository, w debate.Writer) LetterService {
	return LetterService{Profiles: p, Jobs: j, Results: r, Writer: w}
}

// Compose loads the profile and job and writes the letter. matchID is
// optional; when set, the completed match's debate rounds are reused.
func (s LetterService) Compose(ctx domain.Context, profileID, jobID, matchID string) (string, error) {
	profile, err := s.Profiles.Get(ctx, profileID)
	if err != nil {
		return "", fmt.Errorf("op=letter.compose profile: %w", err)
	}
	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		return "", fmt.Errorf("op=letter.compose job: %w", err)
	}

	var rounds []domain.DebateRound
	if matchID != "" {
		res, err := s.Results.GetByMatchID(ctx, matchID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("op=letter.compose result: %w", err)
		}
		rounds = res.DebateRounds
	}

	letter, _ := s.Writer.Compose(ctx, profile, job, rounds)
	return letter, nil
}
