package debate

import (
	"fmt"
	"strings"

	"github.com/hirewise/ai-job-matcher/internal/domain"
)

// maxSuggestions caps the advisory list.
const maxSuggestions = 5

// Advise builds a priority-ordered improvement list: the most critical
// unresolved skill gap first, then up to two must-address items from
// the verdict, then profile-quality heuristics. Deterministic; no
// external calls.
func Advise(profile domain.CandidateProfile, code *domain.CodeProfile, gaps []domain.SkillGap, verdict *domain.Verdict) []string {
	var suggestions []string

	for _, gap := range gaps {
		if gap.Importance == "Critical" {
			suggestions = append(suggestions,
				fmt.Sprintf("Priority: Learn %s - %s estimated", gap.SkillName, gap.EstimatedTime))
			break
		}
	}

	if verdict != nil {
		for i, item := range verdict.MustAddress {
			if i >= 2 {
				break
			}
			suggestions = append(suggestions, "Address in applications: "+item)
		}
	}

	if code != nil {
		if code.ActivityLevel == "Low" {
			suggestions = append(suggestions,
				"Increase public code activity: contribute to open source or create showcase projects")
		}
		if code.PublicRepos < 5 {
			suggestions = append(suggestions,
				"Add more public repositories showcasing your skills")
		}
	} else if profile.CodeProfileURL != "" {
		suggestions = append(suggestions,
			"Consider making key repositories public to demonstrate skills")
	}

	if strings.TrimSpace(profile.Summary) == "" {
		suggestions = append(suggestions,
			"Add a professional summary highlighting your key strengths")
	}

	if len(profile.Experience) > 0 && !hasQuantifiedAchievements(profile.Experience) {
		suggestions = append(suggestions,
			"Add quantifiable achievements (e.g., 'increased performance by 40%')")
	}

	if len(profile.Certifications) == 0 {
		suggestions = append(suggestions,
			"Consider adding relevant certifications to stand out")
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// hasQuantifiedAchievements reports whether any work-history highlight
// contains a digit.
func hasQuantifiedAchievements(history []domain.WorkHistory) bool {
	for _, entry := range history {
		for _, h := range entry.Highlights {
			for _, r := range h {
				if r >= '0' && r <= '9' {
					return true
				}
			}
		}
	}
	return false
}
