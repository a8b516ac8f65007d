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

// Coach is the advocate agent. It argues for the candidate and
// produces a supportive score with weighted strengths.
type Coach struct {
	ai      domain.AIClient
	counter TokenCounter
}

// NewCoach constructs a Coach. A nil AI client forces the
// deterministic fallback path.
func NewCoach(ai domain.AIClient, counter TokenCounter) Coach {
	return Coach{ai: ai, counter: counter}
}

// Evaluate produces the coach's score and strengths for one round.
// Failures degrade to the deterministic fallback, independently of
// whatever happened to the recruiter.
func (c Coach) Evaluate(ctx context.Context, norm Normalized, job domain.JobRequirement, round int) turn {
	lg := observability.LoggerFromContext(ctx)

	if c.ai != nil {
		user := coachUserPrompt(norm, job)
		raw, err := c.ai.ChatJSON(ctx, coachSystemPrompt, user, 1200)
		if err == nil {
			var resp agentResponse
			if perr := llmjson.Unmarshal(raw, &resp); perr == nil {
				t := turnFromResponse(resp)
				t.Tokens = countTokens(c.counter, coachSystemPrompt, user, raw)
				lg.Debug("coach model turn",
					slog.Int("round", round),
					slog.Int("arguments", len(t.Arguments)),
					slog.Float64("score", t.Score))
				return t
			}
			lg.Warn("coach response unparseable, using fallback", slog.Int("round", round))
		} else {
			lg.Warn("coach model call failed, using fallback", slog.Int("round", round), slog.Any("error", err))
		}
	}

	t := c.fallback(norm, job)
	lg.Debug("coach fallback turn",
		slog.Int("round", round),
		slog.Int("arguments", len(t.Arguments)),
		slog.Float64("score", t.Score))
	return t
}

// fallback builds the supportive case from skill overlap and the
// normalizer's derived strengths. Deterministic for identical inputs.
func (c Coach) fallback(norm Normalized, job domain.JobRequirement) turn {
	reqs := append(append([]string{}, job.RequiredSkills...), job.PreferredSkills...)
	matching := norm.Matching(reqs)

	var args []domain.Argument
	if len(matching) > 0 {
		strength := domain.StrengthMedium
		if len(matching) > 3 {
			strength = domain.StrengthStrong
		}
		shown := matching
		if len(shown) > 5 {
			shown = shown[:5]
		}
		args = append(args, domain.Argument{
			Point:    fmt.Sprintf("Strong skill match with %d required skills", len(matching)),
			Evidence: "Has: " + strings.Join(shown, ", "),
			Strength: strength,
			Category: "Skills",
		})
	}
	for i, strength := range norm.Strengths {
		if i >= 3 {
			break
		}
		args = append(args, domain.Argument{
			Point:    strength,
			Evidence: "Evident from resume",
			Strength: domain.StrengthMedium,
			Category: "Background",
		})
	}

	score := 50 + 10*float64(len(args))
	if score > 95 {
		score = 95
	}
	return turn{Score: score, Arguments: args, Fallback: true}
}
