package debate

import (
	"fmt"
	"strings"

	"github.com/hirewise/ai-job-matcher/internal/domain"
)

// Normalized is the working profile summary consumed by all three
// agents: a deduplicated skill set, an experience summary, and a
// derived strengths list. Built once per invocation; read-only after.
type Normalized struct {
	// Skills preserves first-seen spelling in a deterministic order:
	// declared skills, then work-history technologies, then external
	// code-profile languages and frameworks.
	Skills            []string
	ExperienceSummary string
	Strengths         []string
	Years             float64

	keys map[string]struct{}
}

// canonical folds a skill name for case-insensitive comparison.
func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalize derives the working summary from raw candidate data plus
// optional external code-profile context. Pure; missing or empty input
// yields an empty-but-valid summary.
func Normalize(p domain.CandidateProfile, code *domain.CodeProfile) Normalized {
	n := Normalized{keys: make(map[string]struct{})}

	add := func(skill string) {
		key := canonical(skill)
		if key == "" {
			return
		}
		if _, ok := n.keys[key]; ok {
			return
		}
		n.keys[key] = struct{}{}
		n.Skills = append(n.Skills, strings.TrimSpace(skill))
	}

	for _, s := range p.Skills {
		add(s)
	}
	for _, exp := range p.Experience {
		for _, tech := range exp.Technologies {
			add(tech)
		}
	}
	if code != nil {
		for _, lang := range code.Languages {
			add(lang)
		}
		for _, fw := range code.Frameworks {
			add(fw)
		}
	}

	// Experience summary from the most recent three roles.
	parts := make([]string, 0, 3)
	for i, exp := range p.Experience {
		if i >= 3 {
			break
		}
		parts = append(parts, fmt.Sprintf("%s at %s", exp.Title, exp.Company))
	}
	if len(parts) > 0 {
		n.ExperienceSummary = strings.Join(parts, "; ")
	} else {
		n.ExperienceSummary = "No work experience listed"
	}

	// Derived strengths.
	if len(p.Experience) >= 3 {
		n.Strengths = append(n.Strengths, fmt.Sprintf("%d roles showing career progression", len(p.Experience)))
	}
	if len(n.Skills) >= 10 {
		n.Strengths = append(n.Strengths, fmt.Sprintf("Diverse skill set with %d technologies", len(n.Skills)))
	}
	if len(p.Education) > 0 {
		n.Strengths = append(n.Strengths, fmt.Sprintf("Education: %s", p.Education[0].Degree))
	}
	if code != nil && code.ActivityLevel == "High" {
		n.Strengths = append(n.Strengths, "Active open-source contributor")
	}
	if len(p.Certifications) > 0 {
		n.Strengths = append(n.Strengths, fmt.Sprintf("%d professional certifications", len(p.Certifications)))
	}

	n.Years = p.YearsExperience
	if n.Years == 0 && len(p.Experience) > 0 {
		// Rough estimate when the candidate declared nothing.
		n.Years = float64(len(p.Experience)) * 2
	}

	return n
}

// HasSkill reports whether the normalized set contains skill,
// case-insensitively.
func (n Normalized) HasSkill(skill string) bool {
	if n.keys == nil {
		return false
	}
	_, ok := n.keys[canonical(skill)]
	return ok
}

// Missing returns the job skills absent from the normalized set, in
// the job's declared order with original spelling preserved.
func (n Normalized) Missing(jobSkills []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, s := range jobSkills {
		key := canonical(s)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if !n.HasSkill(s) {
			out = append(out, s)
		}
	}
	return out
}

// Matching returns the job skills present in the normalized set, in
// the job's declared order.
func (n Normalized) Matching(jobSkills []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, s := range jobSkills {
		key := canonical(s)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if n.HasSkill(s) {
			out = append(out, s)
		}
	}
	return out
}
