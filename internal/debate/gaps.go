package debate

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hirewise/ai-job-matcher/internal/domain"
)

//go:embed resources.yaml
var resourcesYAML []byte

// maxPreferredGaps caps how many preferred-skill gaps are reported.
// The cap applies in the job's declared preferred-skill order, so the
// result is deterministic for identical inputs.
const maxPreferredGaps = 5

type resourceCatalog struct {
	Resources map[string][]string `yaml:"resources"`
	Complex   []string            `yaml:"complex_skills"`
	Moderate  []string            `yaml:"moderate_skills"`
}

var (
	catalogOnce sync.Once
	catalog     resourceCatalog
)

func loadCatalog() resourceCatalog {
	catalogOnce.Do(func() {
		if err := yaml.Unmarshal(resourcesYAML, &catalog); err != nil {
			// The catalog is embedded and validated by tests; an
			// unparseable catalog leaves only generic fallbacks.
			catalog = resourceCatalog{}
		}
	})
	return catalog
}

// AnalyzeGaps compares the normalized candidate skills against the
// job's required and preferred skills. Missing required skills are
// Critical; missing preferred skills (not already required) are High,
// capped to the first maxPreferredGaps in declared order.
// Deterministic and idempotent; no external calls.
func AnalyzeGaps(norm Normalized, job domain.JobRequirement) []domain.SkillGap {
	var gaps []domain.SkillGap

	missingRequired := norm.Missing(job.RequiredSkills)
	requiredKeys := make(map[string]struct{}, len(missingRequired))
	for _, skill := range missingRequired {
		requiredKeys[canonical(skill)] = struct{}{}
		gaps = append(gaps, domain.SkillGap{
			SkillName:         skill,
			Importance:        "Critical",
			Description:       fmt.Sprintf("%s is a required skill for this role", skill),
			LearningResources: learningResources(skill),
			EstimatedTime:     estimateLearningTime(skill),
		})
	}

	preferred := 0
	for _, skill := range norm.Missing(job.PreferredSkills) {
		if _, dup := requiredKeys[canonical(skill)]; dup {
			continue
		}
		if preferred >= maxPreferredGaps {
			break
		}
		preferred++
		gaps = append(gaps, domain.SkillGap{
			SkillName:         skill,
			Importance:        "High",
			Description:       fmt.Sprintf("%s is preferred for this role", skill),
			LearningResources: learningResources(skill),
			EstimatedTime:     estimateLearningTime(skill),
		})
	}

	return gaps
}

// learningResources returns curated resources for a known skill or a
// generic set for unknown ones.
func learningResources(skill string) []string {
	key := canonical(skill)
	cat := loadCatalog()
	if res, ok := cat.Resources[key]; ok {
		out := make([]string, len(res))
		copy(out, res)
		return out
	}
	names := make([]string, 0, len(cat.Resources))
	for name := range cat.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		// Substring matching only for names long enough to not
		// false-positive inside unrelated skills ("go" vs "django").
		if len(name) >= 3 && (strings.Contains(key, name) || strings.Contains(name, key)) {
			res := cat.Resources[name]
			out := make([]string, len(res))
			copy(out, res)
			return out
		}
	}
	return []string{
		fmt.Sprintf("Official %s documentation", skill),
		fmt.Sprintf("Udemy %s courses", skill),
		fmt.Sprintf("YouTube %s tutorials", skill),
	}
}

// estimateLearningTime buckets a skill by the catalog's complexity
// classification.
func estimateLearningTime(skill string) string {
	key := canonical(skill)
	cat := loadCatalog()
	for _, s := range cat.Complex {
		if strings.Contains(key, s) {
			return "3-6 months"
		}
	}
	for _, s := range cat.Moderate {
		if strings.Contains(key, s) {
			return "1-2 months"
		}
	}
	return "2-4 weeks"
}
