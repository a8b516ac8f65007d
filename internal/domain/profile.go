package domain

import "time"

// WorkHistory is a single employment entry on a candidate profile.
type WorkHistory struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Technologies []string `json:"technologies,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
}

// Education is a degree or diploma entry.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution,omitempty"`
}

// CodeProfile carries optional external context from a code hosting
// account (languages, repository counts, contribution activity).
type CodeProfile struct {
	Username      string   `json:"username"`
	Languages     []string `json:"languages,omitempty"`
	Frameworks    []string `json:"frameworks,omitempty"`
	PublicRepos   int      `json:"public_repos"`
	ActivityLevel string   `json:"activity_level,omitempty"` // High, Medium, Low
}

// CandidateProfile is the validated candidate input to the match
// pipeline. Built once from ingested resume data; read-only afterward.
type CandidateProfile struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Summary         string        `json:"summary,omitempty"`
	Skills          []string      `json:"skills"`
	Experience      []WorkHistory `json:"experience"`
	Education       []Education   `json:"education,omitempty"`
	Certifications  []string      `json:"certifications,omitempty"`
	YearsExperience float64       `json:"years_experience"`
	CodeProfileURL  string        `json:"code_profile_url,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// JobRequirement is the job posting a candidate is matched against.
// Immutable input to the pipeline.
type JobRequirement struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location,omitempty"`
	Description     string    `json:"description"`
	RequiredSkills  []string  `json:"required_skills"`
	PreferredSkills []string  `json:"preferred_skills,omitempty"`
	MinExperience   float64   `json:"min_experience_years"`
	CreatedAt       time.Time `json:"created_at"`
}
