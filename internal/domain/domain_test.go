package domain

import (
	"testing"
	"time"
)

func TestMatchStatusConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant MatchStatus
		expected string
	}{
		{"MatchQueued", MatchQueued, "queued"},
		{"MatchProcessing", MatchProcessing, "processing"},
		{"MatchCompleted", MatchCompleted, "completed"},
		{"MatchFailed", MatchFailed, "failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.constant) != tt.expected {
				t.Errorf("expected %s to be %q, got %q", tt.name, tt.expected, string(tt.constant))
			}
		})
	}
}

func TestStrengthConstants(t *testing.T) {
	tests := []struct {
		constant string
		expected string
	}{
		{StrengthStrong, "Strong"},
		{StrengthMedium, "Medium"},
		{StrengthWeak, "Weak"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if tt.constant != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.constant)
			}
		})
	}
}

func TestAgentRoleConstants(t *testing.T) {
	if RoleRecruiter != "recruiter" || RoleCoach != "coach" || RoleJudge != "judge" {
		t.Errorf("unexpected role constants: %q %q %q", RoleRecruiter, RoleCoach, RoleJudge)
	}
}

func TestMatchJob_ZeroValue(t *testing.T) {
	m := MatchJob{}
	if m.ID != "" || m.Status != "" || m.Error != "" {
		t.Errorf("expected zero-value match job, got %+v", m)
	}
	if m.IdemKey != nil {
		t.Errorf("expected nil IdemKey, got %v", m.IdemKey)
	}
	if !m.CreatedAt.IsZero() || !m.UpdatedAt.IsZero() {
		t.Errorf("expected zero timestamps")
	}
}

func TestDebateRound_Fields(t *testing.T) {
	now := time.Now()
	r := DebateRound{
		RoundNumber:        1,
		RecruiterArguments: []Argument{{Point: "missing skills", Strength: StrengthStrong}},
		RecruiterScore:     40,
		CoachArguments:     []Argument{{Point: "strong match", Strength: StrengthMedium}},
		CoachScore:         80,
		ScoreDifference:    40,
		Timestamp:          now,
	}
	if r.RoundNumber != 1 {
		t.Errorf("expected round 1, got %d", r.RoundNumber)
	}
	if r.RecruiterScore != 40 || r.CoachScore != 80 {
		t.Errorf("unexpected scores: %f %f", r.RecruiterScore, r.CoachScore)
	}
	if r.ScoreDifference != 40 {
		t.Errorf("expected display difference 40, got %f", r.ScoreDifference)
	}
}

func TestVerdict_Fields(t *testing.T) {
	v := Verdict{
		FinalScore:     72.5,
		Recommendation: "Good Match",
		Reasoning: VerdictReasoning{
			KeyStrengths:   []string{"skills"},
			KeyConcerns:    []string{"experience"},
			Recommendation: "Good Match",
		},
		Confidence:   0.6,
		FavoredAgent: RoleCoach,
	}
	if v.FinalScore != 72.5 {
		t.Errorf("expected FinalScore 72.5, got %f", v.FinalScore)
	}
	if v.Confidence < 0 || v.Confidence > 1 {
		t.Errorf("confidence out of range: %f", v.Confidence)
	}
	if v.FavoredAgent != RoleCoach {
		t.Errorf("expected coach favored, got %q", v.FavoredAgent)
	}
}

func TestMatchTaskPayload_ZeroValue(t *testing.T) {
	p := MatchTaskPayload{}
	if p.MatchID != "" || p.ProfileID != "" || p.JobID != "" {
		t.Errorf("expected empty payload, got %+v", p)
	}
	if p.IncludeCoverLetter || p.IncludeSkillGaps {
		t.Errorf("expected option flags to default to false")
	}
}
