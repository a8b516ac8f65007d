package debate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hirewise/ai-job-matcher/internal/domain"
	"github.com/hirewise/ai-job-matcher/internal/observability"
)

// Config carries the pipeline's static tuning.
type Config struct {
	// RedebateThreshold is the normalized score disagreement, in
	// [0,1], above which the judge sends the agents back.
	RedebateThreshold float64
	// MaxDebateRounds caps the recruiter/coach/judge cycle.
	MaxDebateRounds int
}

// DefaultConfig mirrors the production defaults.
func DefaultConfig() Config {
	return Config{RedebateThreshold: 0.30, MaxDebateRounds: 3}
}

// Pipeline drives one candidate/job evaluation end to end:
//
//	Normalizing -> Debating -> Judging -> (redebate? -> Debating)
//	            -> GapAnalysis -> Narrating -> Advising -> Done
//
// plus a terminal Failed stage on unrecoverable input errors. The
// Pipeline itself is immutable after construction and safe to share;
// all per-invocation state lives inside Run.
type Pipeline struct {
	recruiter Recruiter
	coach     Coach
	judge     Judge
	writer    Writer
	cfg       Config
}

// New constructs a Pipeline. ai may be nil, which runs every agent on
// its deterministic fallback; counter may be nil, which disables token
// accounting.
func New(ai domain.AIClient, counter TokenCounter, cfg Config) *Pipeline {
	if cfg.MaxDebateRounds < 1 {
		cfg.MaxDebateRounds = 1
	}
	gate := Gate{Threshold: cfg.RedebateThreshold, MaxRounds: cfg.MaxDebateRounds}
	return &Pipeline{
		recruiter: NewRecruiter(ai, counter),
		coach:     NewCoach(ai, counter),
		judge:     NewJudge(ai, counter, gate),
		writer:    NewWriter(ai, counter),
		cfg:       cfg,
	}
}

// Run executes the pipeline. It always returns a complete
// PipelineResult: agent failures degrade to fallbacks inside the
// agents, and anything else (invalid input, a panicking agent) lands
// in the Failed terminal stage with an "Error" verdict rather than
// propagating to the caller.
func (p *Pipeline) Run(ctx context.Context, profile domain.CandidateProfile, job domain.JobRequirement, code *domain.CodeProfile, opts Options) (result domain.PipelineResult) {
	start := time.Now()
	lg := observability.LoggerFromContext(ctx)
	tracer := otel.Tracer("debate.pipeline")

	ctx, span := tracer.Start(ctx, "pipeline.Run")
	defer span.End()

	st := &pipelineState{profile: profile, job: job, code: code}

	// Last-resort recovery: a panic anywhere below becomes a Failed
	// result instead of an escaped fault.
	defer func() {
		if r := recover(); r != nil {
			lg.Error("pipeline panic", slog.Any("panic", r))
			result = p.failedResult(st, fmt.Sprintf("internal error: %v", r), start)
		}
	}()

	// Normalizing
	if err := validateInput(profile, job); err != nil {
		lg.Warn("pipeline input invalid", slog.Any("error", err))
		return p.failedResult(st, err.Error(), start)
	}
	p.stage(ctx, tracer, st, StageNormalizing, func(ctx context.Context) {
		st.norm = Normalize(profile, code)
		st.note(fmt.Sprintf("normalizer: %d skills, %d strengths", len(st.norm.Skills), len(st.norm.Strengths)))
	})

	// Debating/Judging cycle. The gate's round bound caps iterations
	// at MaxDebateRounds regardless of score behavior.
	for {
		p.stage(ctx, tracer, st, StageDebating, func(ctx context.Context) {
			// The recruiter always opens a cycle, so it owns the
			// round increment.
			st.currentRound++
			rec := p.recruiter.Evaluate(ctx, st.norm, job, st.currentRound)
			st.recruiterArgs, st.recruiterScore = rec.Arguments, rec.Score
			st.tokensUsed += rec.Tokens
			st.note(fmt.Sprintf("recruiter round %d: %d concerns, score %.0f", st.currentRound, len(rec.Arguments), rec.Score))

			co := p.coach.Evaluate(ctx, st.norm, job, st.currentRound)
			st.coachArgs, st.coachScore = co.Arguments, co.Score
			st.tokensUsed += co.Tokens
			st.note(fmt.Sprintf("coach round %d: %d strengths, score %.0f", st.currentRound, len(co.Arguments), co.Score))
		})

		var rl ruling
		p.stage(ctx, tracer, st, StageJudging, func(ctx context.Context) {
			rl = p.judge.Decide(ctx, job,
				turn{Score: st.recruiterScore, Arguments: st.recruiterArgs},
				turn{Score: st.coachScore, Arguments: st.coachArgs},
				st.currentRound)
			st.scoreDifference = rl.ScoreDifference
			st.redebate = rl.Redebate
			st.verdict = &rl.Verdict
			st.rounds = append(st.rounds, rl.Round)
			st.tokensUsed += rl.Tokens
			st.note(fmt.Sprintf("judge round %d: score %.0f, redebate %t", st.currentRound, rl.Verdict.FinalScore, rl.Redebate))
		})
		if !rl.Redebate {
			break
		}
	}

	if opts.IncludeSkillGaps {
		p.stage(ctx, tracer, st, StageGapAnalysis, func(context.Context) {
			st.gaps = AnalyzeGaps(st.norm, job)
			st.note(fmt.Sprintf("gap analyzer: %d gaps", len(st.gaps)))
		})
	}

	if opts.IncludeCoverLetter {
		p.stage(ctx, tracer, st, StageNarrating, func(ctx context.Context) {
			letter, tokens := p.writer.Compose(ctx, profile, job, st.rounds)
			st.coverLetter = letter
			st.tokensUsed += tokens
		})
	}

	p.stage(ctx, tracer, st, StageAdvising, func(context.Context) {
		st.suggestions = Advise(profile, code, st.gaps, st.verdict)
	})

	lg.Info("pipeline done",
		slog.Int("rounds", st.currentRound),
		slog.Float64("final_score", st.verdict.FinalScore),
		slog.String("recommendation", st.verdict.Recommendation),
		slog.Int("tokens_used", st.tokensUsed),
		slog.Duration("elapsed", time.Since(start)))

	return domain.PipelineResult{
		ProfileSummary:         st.norm.ExperienceSummary,
		JobSummary:             fmt.Sprintf("%s at %s", job.Title, job.Company),
		DebateRounds:           st.rounds,
		TotalRounds:            st.currentRound,
		Verdict:                *st.verdict,
		SkillGaps:              st.gaps,
		CoverLetter:            st.coverLetter,
		ImprovementSuggestions: st.suggestions,
		ProcessingTime:         time.Since(start),
		TokensUsed:             st.tokensUsed,
		CreatedAt:              time.Now().UTC(),
	}
}

// stage runs fn inside a named span with a stage log line.
func (p *Pipeline) stage(ctx context.Context, tracer trace.Tracer, st *pipelineState, s Stage, fn func(context.Context)) {
	ctx, span := tracer.Start(ctx, "pipeline."+s.String(),
		trace.WithAttributes(attribute.Int("debate.round", st.currentRound)))
	defer span.End()
	observability.LoggerFromContext(ctx).Debug("pipeline stage", slog.String("stage", s.String()), slog.Int("round", st.currentRound))
	fn(ctx)
}

// validateInput rejects inputs the normalizer cannot default.
func validateInput(profile domain.CandidateProfile, job domain.JobRequirement) error {
	if strings.TrimSpace(profile.Name) == "" && len(profile.Skills) == 0 && len(profile.Experience) == 0 {
		return fmt.Errorf("%w: candidate profile is empty", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(job.Title) == "" && len(job.RequiredSkills) == 0 {
		return fmt.Errorf("%w: job requirement is empty", domain.ErrInvalidArgument)
	}
	return nil
}

// failedResult reports the Failed terminal stage: a complete result
// whose verdict carries zero confidence and the cause as a concern.
// Partial debate state accumulated before the failure is preserved.
func (p *Pipeline) failedResult(st *pipelineState, cause string, start time.Time) domain.PipelineResult {
	return domain.PipelineResult{
		ProfileSummary: st.norm.ExperienceSummary,
		JobSummary:     fmt.Sprintf("%s at %s", st.job.Title, st.job.Company),
		DebateRounds:   st.rounds,
		TotalRounds:    st.currentRound,
		Verdict: domain.Verdict{
			FinalScore:     0,
			Recommendation: "Error",
			Reasoning: domain.VerdictReasoning{
				KeyConcerns:     []string{cause},
				DecidingFactors: []string{"Pipeline error"},
				Recommendation:  "Error during processing",
			},
			Confidence: 0,
		},
		SkillGaps:              st.gaps,
		CoverLetter:            st.coverLetter,
		ImprovementSuggestions: st.suggestions,
		ProcessingTime:         time.Since(start),
		TokensUsed:             st.tokensUsed,
		CreatedAt:              time.Now().UTC(),
	}
}
