// Package usecase contains application business logic services.
package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/hirewise/ai-job-matcher/internal/domain"
	"github.com/hirewise/ai-job-matcher/pkg/textx"
)

// ProfileService ingests candidate profiles, optionally enriched with
// text extracted from an uploaded resume.
type ProfileService struct {
	Profiles domain.ProfileRepository
}

// NewProfileService constructs a ProfileService with the given repo.
func NewProfileService(p domain.ProfileRepository) ProfileService {
	return ProfileService{Profiles: p}
}

// Ingest sanitizes and stores a candidate profile. resumeText, when
// non-empty, backfills a missing summary from the uploaded resume.
func (s ProfileService) Ingest(ctx domain.Context, p domain.CandidateProfile, resumeText string) (string, error) {
	p.Name = textx.SanitizeText(p.Name)
	p.Summary = textx.SanitizeText(p.Summary)
	if p.Summary == "" && resumeText != "" {
		p.Summary = textx.Truncate(textx.SanitizeText(resumeText), 2000)
	}
	if p.Name == "" {
		return "", fmt.Errorf("%w: profile name required", domain.ErrInvalidArgument)
	}
	if len(p.Skills) == 0 && len(p.Experience) == 0 && p.Summary == "" {
		return "", fmt.Errorf("%w: profile has no skills, experience, or summary", domain.ErrInvalidArgument)
	}
	p.CreatedAt = time.Now().UTC()
	return s.Profiles.Create(ctx, p)
}

// JobService ingests job requirements.
type JobService struct {
	Jobs domain.JobRepository
}

// NewJobService constructs a JobService with the given repo.
func NewJobService(j domain.JobRepository) JobService { return JobService{Jobs: j} }

// Ingest sanitizes and stores a job requirement.
func (s JobService) Ingest(ctx domain.Context, j domain.JobRequirement) (string, error) {
	j.Title = textx.SanitizeText(j.Title)
	j.Description = textx.SanitizeText(j.Description)
	if j.Title == "" {
		return "", fmt.Errorf("%w: job title required", domain.ErrInvalidArgument)
	}
	if len(j.RequiredSkills) == 0 {
		return "", fmt.Errorf("%w: required skills missing", domain.ErrInvalidArgument)
	}
	j.CreatedAt = time.Now().UTC()
	return s.Jobs.Create(ctx, j)
}

// MatchService orchestrates match creation and queueing for the
// asynchronous debate pipeline.
type MatchService struct {
	Profiles domain.ProfileRepository
	Jobs     domain.JobRepository
	Matches  domain.MatchRepository
	Queue    domain.Queue
}

// NewMatchService constructs a MatchService with its dependencies.
func NewMatchService(p domain.ProfileRepository, j domain.JobRepository, m domain.MatchRepository, q domain.Queue) MatchService {
	return MatchService{Profiles: p, Jobs: j, Matches: m, Queue: q}
}

// MatchOptions selects optional pipeline outputs for one match request.
type MatchOptions struct {
	IncludeCoverLetter bool
	IncludeSkillGaps   bool
}

// Enqueue validates the referenced profile and job, creates a match
// record, and enqueues the pipeline task. A repeated idempotency key
// returns the original match id without enqueueing again.
func (s MatchService) Enqueue(ctx domain.Context, profileID, jobID, idemKey string, opts MatchOptions) (string, error) {
	if strings.TrimSpace(profileID) == "" || strings.TrimSpace(jobID) == "" {
		return "", fmt.Errorf("%w: profile_id and job_id required", domain.ErrInvalidArgument)
	}
	if idemKey != "" {
		if m, err := s.Matches.FindByIdempotencyKey(ctx, idemKey); err == nil && m.ID != "" {
			return m.ID, nil
		}
	}
	// Referenced entities must exist before anything is queued.
	if _, err := s.Profiles.Get(ctx, profileID); err != nil {
		return "", fmt.Errorf("op=match.enqueue profile: %w", err)
	}
	if _, err := s.Jobs.Get(ctx, jobID); err != nil {
		return "", fmt.Errorf("op=match.enqueue job: %w", err)
	}

	now := time.Now().UTC()
	m := domain.MatchJob{Status: domain.MatchQueued, ProfileID: profileID, JobID: jobID, CreatedAt: now, UpdatedAt: now}
	if idemKey != "" {
		m.IdemKey = &idemKey
	}
	matchID, err := s.Matches.Create(ctx, m)
	if err != nil {
		return "", err
	}

	payload := domain.MatchTaskPayload{
		MatchID:            matchID,
		ProfileID:          profileID,
		JobID:              jobID,
		IncludeCoverLetter: opts.IncludeCoverLetter,
		IncludeSkillGaps:   opts.IncludeSkillGaps,
	}
	if _, err := s.Queue.EnqueueMatch(ctx, payload); err != nil {
		_ = s.Matches.UpdateStatus(ctx, matchID, domain.MatchFailed, ptr("enqueue failed"))
		return "", err
	}
	return matchID, nil
}

func ptr(s string) *string { return &s }
