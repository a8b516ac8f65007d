// Package debate implements the adversarial match pipeline: a
// recruiter agent argues against the candidate, a coach argues for
// them, and a judge reconciles both into a bounded, convergent verdict.
// The pipeline is a small explicit state machine with a round-capped
// redebate cycle; every agent degrades to a deterministic fallback when
// the language model is unavailable or returns unusable output.
package debate

import (
	"github.com/hirewise/ai-job-matcher/internal/domain"
)

// Stage is a pipeline state-machine stage.
type Stage int

// Pipeline stages. Normalizing is the unique entry stage; Done and
// Failed are the only terminal stages.
const (
	StageNormalizing Stage = iota
	StageDebating
	StageJudging
	StageGapAnalysis
	StageNarrating
	StageAdvising
	StageDone
	StageFailed
)

// String returns the stage name for logs and spans.
func (s Stage) String() string {
	switch s {
	case StageNormalizing:
		return "normalizing"
	case StageDebating:
		return "debating"
	case StageJudging:
		return "judging"
	case StageGapAnalysis:
		return "gap_analysis"
	case StageNarrating:
		return "narrating"
	case StageAdvising:
		return "advising"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Options selects optional pipeline outputs.
type Options struct {
	IncludeCoverLetter bool
	IncludeSkillGaps   bool
}

// TokenCounter estimates token usage for prompt/response accounting.
// Implementations live in the AI adapters; a nil counter disables
// accounting.
type TokenCounter interface {
	Count(text string) int
}

// pipelineState is the accumulator threaded through one pipeline
// invocation. It is owned exclusively by that invocation and never
// shared across goroutines.
type pipelineState struct {
	profile domain.CandidateProfile
	job     domain.JobRequirement
	code    *domain.CodeProfile

	norm Normalized

	// Debate accumulator. rounds grows by exactly one entry per
	// executed round and is never truncated or reordered.
	currentRound    int
	recruiterArgs   []domain.Argument
	recruiterScore  float64
	coachArgs       []domain.Argument
	coachScore      float64
	scoreDifference float64 // normalized [0,1]
	redebate        bool
	rounds          []domain.DebateRound

	verdict     *domain.Verdict
	gaps        []domain.SkillGap
	coverLetter string
	suggestions []string

	tokensUsed int
	messages   []string
}

func (st *pipelineState) note(msg string) {
	st.messages = append(st.messages, msg)
}
