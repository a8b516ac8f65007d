package debate

import (
	"context"
	"log/slog"
	"time"

	"github.com/hirewise/ai-job-matcher/internal/domain"
	"github.com/hirewise/ai-job-matcher/internal/observability"
	"github.com/hirewise/ai-job-matcher/pkg/llmjson"
)

// judgeResponse is the structured JSON contract for the judge call.
type judgeResponse struct {
	FinalScore      *float64 `json:"final_score"`
	Recommendation  string   `json:"recommendation"`
	KeyStrengths    []string `json:"key_strengths"`
	KeyConcerns     []string `json:"key_concerns"`
	DecidingFactors []string `json:"deciding_factors"`
	MustAddress     []string `json:"must_address"`
	NiceToHave      []string `json:"nice_to_have"`
	Confidence      *float64 `json:"confidence"`
}

// Judge is the arbiter agent. It reconciles the recruiter and coach
// output into a verdict and decides whether to redebate.
type Judge struct {
	ai      domain.AIClient
	counter TokenCounter
	gate    Gate
}

// NewJudge constructs a Judge around the given gate.
func NewJudge(ai domain.AIClient, counter TokenCounter, gate Gate) Judge {
	return Judge{ai: ai, counter: counter, gate: gate}
}

// ruling is the judge's full output for one round.
type ruling struct {
	Verdict  domain.Verdict
	Round    domain.DebateRound
	Redebate bool
	// ScoreDifference is the normalized [0,1] disagreement fed to
	// the gate; the Round record carries the 0-100 display form.
	ScoreDifference float64
	Tokens          int
}

// Decide weighs both sides and produces the verdict, the immutable
// round record, and the redebate decision. It never fails: a broken
// model response degrades to the deterministic averaging verdict.
func (j Judge) Decide(ctx context.Context, job domain.JobRequirement, recruiter, coach turn, round int) ruling {
	lg := observability.LoggerFromContext(ctx)

	scoreDifference := abs(coach.Score-recruiter.Score) / 100.0

	// Deterministic defaults; the model path overrides what it can.
	finalScore := (recruiter.Score + coach.Score) / 2
	recommendation := Recommendation(finalScore)
	keyStrengths := topPoints(coach.Arguments, 3)
	keyConcerns := topPoints(recruiter.Arguments, 3)
	decidingFactors := []string{"Skills match", "Experience alignment"}
	mustAddress := topPoints(recruiter.Arguments, 2)
	var niceToHave []string
	confidence := 0.6
	tokens := 0

	if j.ai != nil {
		user := judgeUserPrompt(job, recruiter.Arguments, recruiter.Score, coach.Arguments, coach.Score)
		raw, err := j.ai.ChatJSON(ctx, judgeSystemPrompt, user, 900)
		if err == nil {
			var resp judgeResponse
			if perr := llmjson.Unmarshal(raw, &resp); perr == nil {
				if resp.FinalScore != nil {
					finalScore = clampScore(*resp.FinalScore)
				}
				if resp.Recommendation != "" {
					recommendation = resp.Recommendation
				} else {
					recommendation = Recommendation(finalScore)
				}
				if len(resp.KeyStrengths) > 0 {
					keyStrengths = resp.KeyStrengths
				}
				if len(resp.KeyConcerns) > 0 {
					keyConcerns = resp.KeyConcerns
				}
				decidingFactors = resp.DecidingFactors
				mustAddress = resp.MustAddress
				niceToHave = resp.NiceToHave
				confidence = 0.7
				if resp.Confidence != nil {
					confidence = *resp.Confidence
				}
				// Models sometimes answer with a 0-100 percentage.
				if confidence > 1 {
					confidence = confidence / 100.0
				}
				confidence = clampUnit(confidence)
				tokens = countTokens(j.counter, judgeSystemPrompt, user, raw)
			} else {
				lg.Warn("judge response unparseable, using default verdict", slog.Int("round", round))
				decidingFactors = nil
				mustAddress = nil
				niceToHave = nil
				confidence = 0.5
			}
		} else {
			lg.Warn("judge model call failed, using default verdict", slog.Int("round", round), slog.Any("error", err))
		}
	}

	favored := domain.RoleRecruiter
	if coach.Score > recruiter.Score {
		favored = domain.RoleCoach
	}

	verdict := domain.Verdict{
		FinalScore:     finalScore,
		Recommendation: recommendation,
		Reasoning: domain.VerdictReasoning{
			KeyStrengths:    keyStrengths,
			KeyConcerns:     keyConcerns,
			DecidingFactors: decidingFactors,
			Recommendation:  recommendation,
		},
		Confidence:   confidence,
		FavoredAgent: favored,
		MustAddress:  mustAddress,
		NiceToHave:   niceToHave,
	}

	record := domain.DebateRound{
		RoundNumber:        round,
		RecruiterArguments: recruiter.Arguments,
		RecruiterScore:     recruiter.Score,
		CoachArguments:     coach.Arguments,
		CoachScore:         coach.Score,
		ScoreDifference:    scoreDifference * 100,
		Timestamp:          time.Now().UTC(),
	}

	redebate := j.gate.ShouldRedebate(scoreDifference, round)

	lg.Info("judge ruling",
		slog.Int("round", round),
		slog.Float64("final_score", finalScore),
		slog.String("recommendation", recommendation),
		slog.Float64("score_difference", scoreDifference),
		slog.Bool("redebate", redebate))

	return ruling{
		Verdict:         verdict,
		Round:           record,
		Redebate:        redebate,
		ScoreDifference: scoreDifference,
		Tokens:          tokens,
	}
}

// Recommendation maps a final score to its recommendation band.
func Recommendation(score float64) string {
	switch {
	case score >= 85:
		return "Strong Match"
	case score >= 70:
		return "Good Match"
	case score >= 55:
		return "Possible Match"
	case score >= 40:
		return "Weak Match"
	default:
		return "Not Recommended"
	}
}

func topPoints(args []domain.Argument, n int) []string {
	out := make([]string, 0, n)
	for i, a := range args {
		if i >= n {
			break
		}
		out = append(out, a.Point)
	}
	return out
}

func clampUnit(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
