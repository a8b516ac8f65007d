package domain

import "time"

// Argument strengths as produced by the debate agents.
const (
	StrengthStrong = "Strong"
	StrengthMedium = "Medium"
	StrengthWeak   = "Weak"
)

// AgentRole identifies a debate participant.
type AgentRole string

// Debate roles.
const (
	RoleRecruiter AgentRole = "recruiter"
	RoleCoach     AgentRole = "coach"
	RoleJudge     AgentRole = "judge"
)

// Argument is one point raised by the recruiter or the coach.
// Read-only once created.
type Argument struct {
	Point    string `json:"point"`
	Evidence string `json:"evidence,omitempty"`
	Strength string `json:"strength"` // Strong, Medium, Weak
	Category string `json:"category,omitempty"`
}

// DebateRound records one complete recruiter/coach/judge cycle.
// Rounds are appended as they execute and never edited afterwards.
type DebateRound struct {
	RoundNumber        int        `json:"round_number"`
	RecruiterArguments []Argument `json:"recruiter_arguments"`
	RecruiterScore     float64    `json:"recruiter_score"` // [0,100], lower = more concerns
	CoachArguments     []Argument `json:"coach_arguments"`
	CoachScore         float64    `json:"coach_score"` // [0,100], higher = more strengths
	// ScoreDifference is |coach-recruiter| expressed as a 0-100
	// percentage for display; the redebate gate works on the
	// normalized [0,1] fraction.
	ScoreDifference float64   `json:"score_difference"`
	Timestamp       time.Time `json:"timestamp"`
}

// VerdictReasoning is the judge's structured explanation.
type VerdictReasoning struct {
	KeyStrengths    []string `json:"key_strengths"`
	KeyConcerns     []string `json:"key_concerns"`
	DecidingFactors []string `json:"deciding_factors"`
	Recommendation  string   `json:"recommendation"`
}

// Verdict is the judge's final decision for one pipeline run. If
// redebate occurred, the last round's verdict wins.
type Verdict struct {
	FinalScore     float64          `json:"final_score"` // [0,100]
	Recommendation string           `json:"recommendation"`
	Reasoning      VerdictReasoning `json:"reasoning"`
	Confidence     float64          `json:"confidence"` // [0,1]
	FavoredAgent   AgentRole        `json:"favored_agent,omitempty"`
	MustAddress    []string         `json:"must_address,omitempty"`
	NiceToHave     []string         `json:"nice_to_have,omitempty"`
}

// SkillGap is a job skill absent from the candidate's normalized skill
// set, with learning guidance. Derived deterministically; never mutated.
type SkillGap struct {
	SkillName         string   `json:"skill_name"`
	Importance        string   `json:"importance"` // Critical, High, Medium, Low
	Description       string   `json:"description"`
	LearningResources []string `json:"learning_resources"`
	EstimatedTime     string   `json:"estimated_time_to_learn"`
}

// PipelineResult is the terminal output of one match pipeline
// invocation. Callers always receive a complete result; a failed run is
// distinguished only by Recommendation="Error" and zero confidence.
type PipelineResult struct {
	ProfileSummary         string        `json:"profile_summary"`
	JobSummary             string        `json:"job_summary"`
	DebateRounds           []DebateRound `json:"debate_rounds"`
	TotalRounds            int           `json:"total_rounds"`
	Verdict                Verdict       `json:"verdict"`
	SkillGaps              []SkillGap    `json:"skill_gaps,omitempty"`
	CoverLetter            string        `json:"cover_letter,omitempty"`
	ImprovementSuggestions []string      `json:"improvement_suggestions,omitempty"`
	ProcessingTime         time.Duration `json:"processing_time"`
	TokensUsed             int           `json:"tokens_used"`
	CreatedAt              time.Time     `json:"created_at"`
}
