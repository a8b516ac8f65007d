package debate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hirewise/ai-job-matcher/internal/domain"
	"github.com/hirewise/ai-job-matcher/internal/observability"
	"github.com/hirewise/ai-job-matcher/pkg/textx"
)

// Writer generates debate-informed cover letters.
type Writer struct {
	ai      domain.AIClient
	counter TokenCounter
}

// NewWriter constructs a Writer. A nil AI client selects the
// deterministic template.
func NewWriter(ai domain.AIClient, counter TokenCounter) Writer {
	return Writer{ai: ai, counter: counter}
}

// debateInsights pulls the leading coach highlights and recruiter
// concerns out of the accumulated rounds (first two of each per round).
func debateInsights(rounds []domain.DebateRound) (highlights, concerns []string) {
	for _, round := range rounds {
		for i, arg := range round.CoachArguments {
			if i >= 2 {
				break
			}
			highlights = append(highlights, arg.Point)
		}
		for i, arg := range round.RecruiterArguments {
			if i >= 2 {
				break
			}
			concerns = append(concerns, arg.Point)
		}
	}
	if len(highlights) > 3 {
		highlights = highlights[:3]
	}
	if len(concerns) > 2 {
		concerns = concerns[:2]
	}
	return highlights, concerns
}

// Compose writes a personalized cover letter, leading with the debate's
// strongest points. Always returns non-empty text; model failures fall
// back to the deterministic template.
func (w Writer) Compose(ctx context.Context, profile domain.CandidateProfile, job domain.JobRequirement, rounds []domain.DebateRound) (string, int) {
	lg := observability.LoggerFromContext(ctx)
	highlights, concerns := debateInsights(rounds)

	if w.ai != nil {
		user := writerUserPrompt(profile, job, highlights, concerns)
		raw, err := w.ai.ChatJSON(ctx, writerSystemPrompt, user, 900)
		if err == nil && strings.TrimSpace(raw) != "" {
			return strings.TrimSpace(raw), countTokens(w.counter, writerSystemPrompt, user, raw)
		}
		if err != nil {
			lg.Warn("cover letter model call failed, using template", slog.Any("error", err))
		}
	}

	return w.template(profile, job), 0
}

// template is the model-free letter.
func (w Writer) template(profile domain.CandidateProfile, job domain.JobRequirement) string {
	background := "a professional"
	if len(profile.Experience) > 0 {
		background = profile.Experience[0].Title
	}
	skills := "a broad set of relevant skills"
	if len(profile.Skills) > 0 {
		shown := profile.Skills
		if len(shown) > 5 {
			shown = shown[:5]
		}
		skills = strings.Join(shown, ", ")
	}
	summary := profile.Summary
	if strings.TrimSpace(summary) == "" {
		summary = "I am a dedicated professional eager to contribute to your team."
	}

	return fmt.Sprintf(`Dear Hiring Manager,

I am writing to express my strong interest in the %s position at %s.

With my background as %s, I bring a combination of %s that aligns well with your requirements.

%s

I am excited about the opportunity to bring my skills to %s and contribute to your continued success. I look forward to discussing how my experience can benefit your team.

Best regards,
%s`, job.Title, job.Company, background, textx.Truncate(skills, 100), summary, job.Company, profile.Name)
}
