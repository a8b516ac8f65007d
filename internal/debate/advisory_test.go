package debate

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hirewise/ai-job-matcher/internal/domain"
)

func TestAdvise_PriorityOrder(t *testing.T) {
	profile := domain.CandidateProfile{
		Name:   "Alex Kim",
		Skills: []string{"Python"},
		Experience: []domain.WorkHistory{
			{Title: "Engineer", Company: "Acme", Highlights: []string{"Built services"}},
		},
	}
	gaps := []domain.SkillGap{
		{SkillName: "GraphQL", Importance: "High", EstimatedTime: "1-2 months"},
		{SkillName: "Kubernetes", Importance: "Critical", EstimatedTime: "3-6 months"},
	}
	verdict := &domain.Verdict{MustAddress: []string{"Show K8s exposure", "Cloud experience", "Third item"}}

	got := Advise(profile, nil, gaps, verdict)
	want := []string{
		"Priority: Learn Kubernetes - 3-6 months estimated",
		"Address in applications: Show K8s exposure",
		"Address in applications: Cloud experience",
		"Add a professional summary highlighting your key strengths",
		"Add quantifiable achievements (e.g., 'increased performance by 40%')",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("suggestions:\n got %v\nwant %v", got, want)
	}
}

func TestAdvise_CapsAtFive(t *testing.T) {
	profile := domain.CandidateProfile{Name: "A", CodeProfileURL: "https://github.com/a"}
	gaps := []domain.SkillGap{{SkillName: "K8s", Importance: "Critical", EstimatedTime: "3-6 months"}}
	verdict := &domain.Verdict{MustAddress: []string{"One", "Two"}}

	got := Advise(profile, nil, gaps, verdict)
	if len(got) > maxSuggestions {
		t.Errorf("suggestions = %d, want at most %d", len(got), maxSuggestions)
	}
}

func TestAdvise_CodeProfileHeuristics(t *testing.T) {
	code := &domain.CodeProfile{ActivityLevel: "Low", PublicRepos: 2}
	got := Advise(domain.CandidateProfile{Name: "A", Summary: "s"}, code, nil, nil)

	joined := strings.Join(got, "\n")
	if !strings.Contains(joined, "Increase public code activity") {
		t.Errorf("expected low-activity suggestion, got %v", got)
	}
	if !strings.Contains(joined, "Add more public repositories") {
		t.Errorf("expected repo-count suggestion, got %v", got)
	}
}

func TestAdvise_UnlinkedCodeProfile(t *testing.T) {
	p := domain.CandidateProfile{Name: "A", Summary: "s", Certifications: []string{"CKA"}, CodeProfileURL: "https://github.com/a"}
	got := Advise(p, nil, nil, nil)
	want := []string{"Consider making key repositories public to demonstrate skills"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("suggestions = %v, want %v", got, want)
	}
}

func TestAdvise_QuantifiedAchievementsSuppressSuggestion(t *testing.T) {
	p := domain.CandidateProfile{
		Name:           "A",
		Summary:        "s",
		Certifications: []string{"CKA"},
		Experience: []domain.WorkHistory{
			{Title: "Engineer", Company: "Acme", Highlights: []string{"Cut latency by 40%"}},
		},
	}
	got := Advise(p, nil, nil, nil)
	for _, s := range got {
		if strings.Contains(s, "quantifiable achievements") {
			t.Errorf("unexpected suggestion for a quantified resume: %v", got)
		}
	}
}

func TestAdvise_EmptyInputs(t *testing.T) {
	got := Advise(domain.CandidateProfile{}, nil, nil, nil)
	// Missing summary and missing certifications still advise.
	if len(got) != 2 {
		t.Errorf("suggestions = %v, want 2 baseline items", got)
	}
}
