package redpanda

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hirewise/ai-job-matcher/internal/adapter/observability"
	"github.com/hirewise/ai-job-matcher/internal/debate"
	"github.com/hirewise/ai-job-matcher/internal/domain"
	obsctx "github.com/hirewise/ai-job-matcher/internal/observability"
)

// PipelineRunner runs one candidate/job evaluation. Satisfied by
// *debate.Pipeline.
type PipelineRunner interface {
	Run(ctx context.Context, profile domain.CandidateProfile, job domain.JobRequirement, code *domain.CodeProfile, opts debate.Options) domain.PipelineResult
}

// ProfileIndexer indexes a completed match into the vector store.
// Optional; indexing failures never fail the match.
type ProfileIndexer interface {
	IndexProfile(ctx context.Context, profile domain.CandidateProfile, finalScore float64) error
}

// MatchHandler executes one match task: load inputs, run the debate
// pipeline, persist the result, and keep the match row's status in step.
type MatchHandler struct {
	Profiles domain.ProfileRepository
	Jobs     domain.JobRepository
	Matches  domain.MatchRepository
	Results  domain.ResultRepository
	Pipeline PipelineRunner
	Indexer  ProfileIndexer
}

// Handle processes a single match task. The returned error is for the
// consumer's logging only; terminal failures are already recorded on
// the match row.
func (h *MatchHandler) Handle(ctx context.Context, payload domain.MatchTaskPayload) error {
	lg := obsctx.LoggerFromContext(ctx).With(
		slog.String("match_id", payload.MatchID),
		slog.String("profile_id", payload.ProfileID),
		slog.String("job_id", payload.JobID),
	)
	ctx = obsctx.ContextWithLogger(ctx, lg)

	if err := h.Matches.UpdateStatus(ctx, payload.MatchID, domain.MatchProcessing, nil); err != nil {
		return fmt.Errorf("op=match.handle status processing: %w", err)
	}
	observability.StartProcessingMatch()

	profile, err := h.Profiles.Get(ctx, payload.ProfileID)
	if err != nil {
		return h.fail(ctx, payload.MatchID, fmt.Errorf("op=match.handle profile: %w", err))
	}
	job, err := h.Jobs.Get(ctx, payload.JobID)
	if err != nil {
		return h.fail(ctx, payload.MatchID, fmt.Errorf("op=match.handle job: %w", err))
	}

	res := h.Pipeline.Run(ctx, profile, job, nil, debate.Options{
		IncludeCoverLetter: payload.IncludeCoverLetter,
		IncludeSkillGaps:   payload.IncludeSkillGaps,
	})

	// The pipeline reports unrecoverable input errors through an Error
	// verdict instead of returning them.
	if res.Verdict.Recommendation == "Error" {
		cause := "pipeline error"
		if len(res.Verdict.Reasoning.KeyConcerns) > 0 {
			cause = res.Verdict.Reasoning.KeyConcerns[0]
		}
		return h.fail(ctx, payload.MatchID, errors.New(cause))
	}

	if err := h.Results.Upsert(ctx, payload.MatchID, res); err != nil {
		return h.fail(ctx, payload.MatchID, fmt.Errorf("op=match.handle upsert result: %w", err))
	}
	if err := h.Matches.UpdateStatus(ctx, payload.MatchID, domain.MatchCompleted, nil); err != nil {
		return fmt.Errorf("op=match.handle status completed: %w", err)
	}

	observability.CompleteMatch()
	observability.ObserveMatchResult(res.TotalRounds, res.Verdict.FinalScore, res.Verdict.Confidence, res.TokensUsed)

	if h.Indexer != nil {
		if err := h.Indexer.IndexProfile(ctx, profile, res.Verdict.FinalScore); err != nil {
			lg.Warn("profile indexing failed", slog.Any("error", err))
		}
	}

	lg.Info("match task completed",
		slog.Int("rounds", res.TotalRounds),
		slog.Float64("final_score", res.Verdict.FinalScore))
	return nil
}

// fail records a terminal failure on the match row and returns the
// original cause.
func (h *MatchHandler) fail(ctx context.Context, matchID string, cause error) error {
	msg := cause.Error()
	if err := h.Matches.UpdateStatus(ctx, matchID, domain.MatchFailed, &msg); err != nil {
		obsctx.LoggerFromContext(ctx).Error("failed to mark match failed", slog.Any("error", err))
	}
	observability.FailMatch()
	return cause
}
