package debate

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/hirewise/ai-job-matcher/internal/domain"
)

func TestAnalyzeGaps_RequiredAndPreferred(t *testing.T) {
	norm := Normalize(pythonOnlyProfile(), nil)
	gaps := AnalyzeGaps(norm, backendJob())

	if len(gaps) != 3 {
		t.Fatalf("gaps = %+v, want 3", gaps)
	}
	byName := map[string]domain.SkillGap{}
	for _, g := range gaps {
		byName[g.SkillName] = g
	}
	for _, name := range []string{"Kubernetes", "AWS"} {
		g, ok := byName[name]
		if !ok || g.Importance != "Critical" {
			t.Errorf("%s: want Critical gap, got %+v", name, g)
		}
	}
	if g := byName["GraphQL"]; g.Importance != "High" {
		t.Errorf("GraphQL: want High gap, got %+v", g)
	}
	// Required gaps come before preferred gaps.
	if gaps[0].SkillName != "Kubernetes" || gaps[1].SkillName != "AWS" || gaps[2].SkillName != "GraphQL" {
		t.Errorf("gap order = %v", []string{gaps[0].SkillName, gaps[1].SkillName, gaps[2].SkillName})
	}
}

func TestAnalyzeGaps_CuratedResourcesAndTimes(t *testing.T) {
	norm := Normalize(pythonOnlyProfile(), nil)
	gaps := AnalyzeGaps(norm, backendJob())

	for _, g := range gaps {
		switch g.SkillName {
		case "Kubernetes":
			if g.EstimatedTime != "3-6 months" {
				t.Errorf("Kubernetes time = %q", g.EstimatedTime)
			}
			if g.LearningResources[0] != "Kubernetes Official Docs" {
				t.Errorf("Kubernetes resources = %v", g.LearningResources)
			}
		case "AWS", "GraphQL":
			if g.EstimatedTime != "1-2 months" {
				t.Errorf("%s time = %q", g.SkillName, g.EstimatedTime)
			}
		}
	}
}

func TestAnalyzeGaps_UnknownSkillGetsGenericResources(t *testing.T) {
	norm := Normalize(pythonOnlyProfile(), nil)
	job := domain.JobRequirement{Title: "X", RequiredSkills: []string{"Erlang"}}

	gaps := AnalyzeGaps(norm, job)
	if len(gaps) != 1 {
		t.Fatalf("gaps = %+v", gaps)
	}
	want := []string{
		"Official Erlang documentation",
		"Udemy Erlang courses",
		"YouTube Erlang tutorials",
	}
	if !reflect.DeepEqual(gaps[0].LearningResources, want) {
		t.Errorf("resources = %v, want %v", gaps[0].LearningResources, want)
	}
	if gaps[0].EstimatedTime != "2-4 weeks" {
		t.Errorf("time = %q, want the default bucket", gaps[0].EstimatedTime)
	}
}

func TestAnalyzeGaps_ShortCatalogKeyDoesNotFalsePositive(t *testing.T) {
	// "Django" contains "go"; the two-letter catalog key must not
	// claim it. Go resources still resolve via exact match.
	norm := Normalize(pythonOnlyProfile(), nil)

	gaps := AnalyzeGaps(norm, domain.JobRequirement{Title: "X", RequiredSkills: []string{"Django", "Go"}})
	if gaps[0].LearningResources[0] != "Official Django documentation" {
		t.Errorf("Django resources = %v, want generic set", gaps[0].LearningResources)
	}
	if gaps[1].LearningResources[0] != "A Tour of Go" {
		t.Errorf("Go resources = %v, want curated set", gaps[1].LearningResources)
	}
}

func TestAnalyzeGaps_PreferredCapInDeclaredOrder(t *testing.T) {
	norm := Normalize(pythonOnlyProfile(), nil)
	job := domain.JobRequirement{Title: "X"}
	for i := 1; i <= 8; i++ {
		job.PreferredSkills = append(job.PreferredSkills, fmt.Sprintf("Skill%d", i))
	}

	gaps := AnalyzeGaps(norm, job)
	if len(gaps) != maxPreferredGaps {
		t.Fatalf("gaps = %d, want cap %d", len(gaps), maxPreferredGaps)
	}
	for i, g := range gaps {
		if want := fmt.Sprintf("Skill%d", i+1); g.SkillName != want {
			t.Errorf("gap[%d] = %q, want declared order %q", i, g.SkillName, want)
		}
	}
}

func TestAnalyzeGaps_PreferredSkipsRequiredDuplicates(t *testing.T) {
	norm := Normalize(pythonOnlyProfile(), nil)
	job := domain.JobRequirement{
		Title:           "X",
		RequiredSkills:  []string{"Kubernetes"},
		PreferredSkills: []string{"kubernetes", "GraphQL"},
	}

	gaps := AnalyzeGaps(norm, job)
	if len(gaps) != 2 {
		t.Fatalf("gaps = %+v, want 2 (required dup skipped)", gaps)
	}
	if gaps[0].SkillName != "Kubernetes" || gaps[0].Importance != "Critical" {
		t.Errorf("gap[0] = %+v", gaps[0])
	}
	if gaps[1].SkillName != "GraphQL" || gaps[1].Importance != "High" {
		t.Errorf("gap[1] = %+v", gaps[1])
	}
}

func TestAnalyzeGaps_Idempotent(t *testing.T) {
	norm := Normalize(pythonOnlyProfile(), nil)
	first := AnalyzeGaps(norm, backendJob())
	second := AnalyzeGaps(norm, backendJob())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("gap analysis not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestAnalyzeGaps_NoGapsForFullMatch(t *testing.T) {
	p := pythonOnlyProfile()
	p.Skills = []string{"Python", "Kubernetes", "AWS", "GraphQL"}
	gaps := AnalyzeGaps(Normalize(p, nil), backendJob())
	if len(gaps) != 0 {
		t.Errorf("gaps = %+v, want none", gaps)
	}
}
