package debate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hirewise/ai-job-matcher/internal/domain"
	"github.com/hirewise/ai-job-matcher/internal/observability"
	"github.com/hirewise/ai-job-matcher/pkg/llmjson"
)

// agentResponse is the structured JSON contract both debate agents
// instruct the model to satisfy.
type agentResponse struct {
	Arguments []struct {
		Point    string `json:"point"`
		Evidence string `json:"evidence"`
		Strength string `json:"strength"`
		Category string `json:"category"`
	} `json:"arguments"`
	Score float64 `json:"score"`
}

// turn is one agent's contribution to a debate round.
type turn struct {
	Score     float64
	Arguments []domain.Argument
	Tokens    int
	Fallback  bool
}

// Recruiter is the critic agent. It argues against the candidate and
// produces a skeptical score with weighted concerns.
type Recruiter struct {
	ai      domain.AIClient
	counter TokenCounter
}

// NewRecruiter constructs a Recruiter. A nil AI client forces the
// deterministic fallback path.
func NewRecruiter(ai domain.AIClient, counter TokenCounter) Recruiter {
	return Recruiter{ai: ai, counter: counter}
}

// Evaluate produces the recruiter's score and concerns for one round.
// It never fails: model errors and unusable output degrade to the
// deterministic fallback.
func (r Recruiter) Evaluate(ctx context.Context, norm Normalized, job domain.JobRequirement, round int) turn {
	lg := observability.LoggerFromContext(ctx)

	if r.ai != nil {
		user := recruiterUserPrompt(norm, job)
		raw, err := r.ai.ChatJSON(ctx, recruiterSystemPrompt, user, 1200)
		if err == nil {
			var resp agentResponse
			if perr := llmjson.Unmarshal(raw, &resp); perr == nil {
				t := turnFromResponse(resp)
				t.Tokens = countTokens(r.counter, recruiterSystemPrompt, user, raw)
				lg.Debug("recruiter model turn",
					slog.Int("round", round),
					slog.Int("arguments", len(t.Arguments)),
					slog.Float64("score", t.Score))
				return t
			}
			lg.Warn("recruiter response unparseable, using fallback", slog.Int("round", round))
		} else {
			lg.Warn("recruiter model call failed, using fallback", slog.Int("round", round), slog.Any("error", err))
		}
	}

	t := r.fallback(norm, job)
	lg.Debug("recruiter fallback turn",
		slog.Int("round", round),
		slog.Int("arguments", len(t.Arguments)),
		slog.Float64("score", t.Score))
	return t
}

// fallback scores the candidate from skill and experience deltas alone.
// Deterministic for identical inputs.
func (r Recruiter) fallback(norm Normalized, job domain.JobRequirement) turn {
	reqs := append(append([]string{}, job.RequiredSkills...), job.PreferredSkills...)
	missing := norm.Missing(reqs)

	var args []domain.Argument
	if len(missing) > 0 {
		strength := domain.StrengthMedium
		if len(missing) > 3 {
			strength = domain.StrengthStrong
		}
		shown := missing
		if len(shown) > 5 {
			shown = shown[:5]
		}
		args = append(args, domain.Argument{
			Point:    fmt.Sprintf("Missing %d required skills", len(missing)),
			Evidence: "Missing: " + strings.Join(shown, ", "),
			Strength: strength,
			Category: "Skills",
		})
	}
	if norm.Years < job.MinExperience {
		args = append(args, domain.Argument{
			Point:    "Insufficient years of experience",
			Evidence: fmt.Sprintf("Has %.0f years, needs %.0f", norm.Years, job.MinExperience),
			Strength: domain.StrengthStrong,
			Category: "Experience",
		})
	}

	score := 100 - 10*float64(len(args))
	if score < 20 {
		score = 20
	}
	return turn{Score: score, Arguments: args, Fallback: true}
}

// turnFromResponse converts a parsed model response, clamping the
// score into [0,100] and defaulting argument strength to Medium.
func turnFromResponse(resp agentResponse) turn {
	args := make([]domain.Argument, 0, len(resp.Arguments))
	for _, a := range resp.Arguments {
		strength := a.Strength
		switch strength {
		case domain.StrengthStrong, domain.StrengthMedium, domain.StrengthWeak:
		default:
			strength = domain.StrengthMedium
		}
		args = append(args, domain.Argument{
			Point:    a.Point,
			Evidence: a.Evidence,
			Strength: strength,
			Category: a.Category,
		})
	}
	return turn{Score: clampScore(resp.Score), Arguments: args}
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func countTokens(counter TokenCounter, texts ...string) int {
	if counter == nil {
		return 0
	}
	total := 0
	for _, t := range texts {
		total += counter.Count(t)
	}
	return total
}
