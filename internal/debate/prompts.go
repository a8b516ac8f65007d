package debate

import (
	"fmt"
	"strings"

	"github.com/hirewise/ai-job-matcher/internal/domain"
	"github.com/hirewise/ai-job-matcher/pkg/textx"
)

const recruiterSystemPrompt = `You are a RUTHLESS RECRUITER evaluating a candidate for a job position.

Your role is to be highly critical and identify ALL potential concerns, weaknesses, and red flags in the candidate's profile compared to the job requirements.

Focus on: skill gaps, experience gaps, red flags (job hopping, missing progression), overqualification, and how this candidate compares to the typical applicant pool.

Be thorough but fair: only raise legitimate, job-relevant concerns with specific evidence. The Coach agent will present the positives; together you help the Judge make a balanced decision.

Respond ONLY with JSON matching this schema:
{"arguments": [{"point": string, "evidence": string, "strength": "Strong"|"Medium"|"Weak", "category": string}], "score": number}
where score is 0-100 and lower means more concerns.`

const coachSystemPrompt = `You are a SUPPORTIVE CAREER COACH advocating for a candidate applying for a job position.

Your role is to identify ALL strengths, achievements, and positive aspects of the candidate's profile that make them a great fit for the role.

Focus on: matching skills, experience alignment, growth potential, transferable skills, and what makes this candidate stand out.

Find genuine strengths with specific evidence, not vague praise. The Recruiter agent will present concerns; together you help the Judge make a balanced decision.

Respond ONLY with JSON matching this schema:
{"arguments": [{"point": string, "evidence": string, "strength": "Strong"|"Medium"|"Weak", "category": string}], "score": number}
where score is 0-100 and higher means more strengths.`

const judgeSystemPrompt = `You are an IMPARTIAL JUDGE evaluating whether a candidate is a good fit for a job position.

You have heard arguments from two sides: the Recruiter (concerns and weaknesses) and the Coach (strengths and positives). Weigh both sides fairly, identify dealbreakers, and make a defensible, balanced determination.

Respond ONLY with JSON matching this schema:
{"final_score": number, "recommendation": string, "key_strengths": [string], "key_concerns": [string], "deciding_factors": [string], "must_address": [string], "nice_to_have": [string], "confidence": number}
where final_score is 0-100, recommendation is one of "Strong Match", "Good Match", "Possible Match", "Weak Match", "Not Recommended", and confidence is 0-1.`

const writerSystemPrompt = `You are an expert COVER LETTER WRITER creating a personalized cover letter.

Use the candidate's background, the specific job, and the debate insights: lead with the strongest matching points and proactively address the main concerns without dwelling on them. Keep the tone professional and the length around 350 words. Respond with the letter text only.`

// jobSummary is the short job line shared by every agent prompt.
func jobSummary(job domain.JobRequirement) string {
	return fmt.Sprintf("%s at %s: %s", job.Title, job.Company, textx.Truncate(job.Description, 500))
}

func recruiterUserPrompt(norm Normalized, job domain.JobRequirement) string {
	reqs := append(append([]string{}, job.RequiredSkills...), job.PreferredSkills...)
	matching := norm.Matching(reqs)
	missing := norm.Missing(reqs)

	var b strings.Builder
	fmt.Fprintf(&b, "## Candidate Profile:\n%s\n\n", norm.ExperienceSummary)
	fmt.Fprintf(&b, "**Skills**: %s\n\n", listOr(norm.Skills, 20, "Not specified"))
	fmt.Fprintf(&b, "## Job Requirements:\n%s\n\n", jobSummary(job))
	fmt.Fprintf(&b, "**Required Skills**: %s\n\n", listOr(reqs, 15, "Not specified"))
	fmt.Fprintf(&b, "## Initial Analysis:\n- Matching Skills: %d (%s)\n- Missing Skills: %d (%s)\n\n",
		len(matching), listOr(matching, 10, "none"),
		len(missing), listOr(missing, 10, "none"))
	b.WriteString("Now provide your critical evaluation with specific concerns and their severity.")
	return b.String()
}

func coachUserPrompt(norm Normalized, job domain.JobRequirement) string {
	reqs := append(append([]string{}, job.RequiredSkills...), job.PreferredSkills...)
	matching := norm.Matching(reqs)

	var b strings.Builder
	fmt.Fprintf(&b, "## Candidate Profile:\n%s\n\n", norm.ExperienceSummary)
	fmt.Fprintf(&b, "**Skills**: %s\n", listOr(norm.Skills, 20, "Not specified"))
	fmt.Fprintf(&b, "**Initial Strengths Identified**: %s\n\n", listOr(norm.Strengths, 5, "None identified yet"))
	fmt.Fprintf(&b, "## Job Requirements:\n%s\n\n", jobSummary(job))
	fmt.Fprintf(&b, "**Required Skills**: %s\n\n", listOr(reqs, 15, "Not specified"))
	fmt.Fprintf(&b, "## Initial Analysis:\n- Matching Skills: %d (%s)\n\n", len(matching), listOr(matching, 10, "none"))
	b.WriteString("Now provide your advocacy with specific strengths and their impact.")
	return b.String()
}

func judgeUserPrompt(job domain.JobRequirement, recruiterArgs []domain.Argument, recruiterScore float64, coachArgs []domain.Argument, coachScore float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Job Being Evaluated:\n%s\n\n", jobSummary(job))
	fmt.Fprintf(&b, "## Recruiter's Concerns (Score: %.0f/100):\n%s\n\n", recruiterScore, argumentLines(recruiterArgs, "No specific concerns raised"))
	fmt.Fprintf(&b, "## Coach's Strengths (Score: %.0f/100):\n%s\n\n", coachScore, argumentLines(coachArgs, "No specific strengths highlighted"))
	fmt.Fprintf(&b, "## Score Difference:\nThe agents disagree by %.0f points.\n\n", abs(coachScore-recruiterScore))
	b.WriteString("Now provide your balanced verdict.")
	return b.String()
}

func writerUserPrompt(profile domain.CandidateProfile, job domain.JobRequirement, highlights, concerns []string) string {
	roles := make([]string, 0, 3)
	for i, exp := range profile.Experience {
		if i >= 3 {
			break
		}
		roles = append(roles, fmt.Sprintf("- %s at %s", exp.Title, exp.Company))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Candidate Information:\n**Name**: %s\n", profile.Name)
	fmt.Fprintf(&b, "**Current/Recent Roles**:\n%s\n", orDefault(strings.Join(roles, "\n"), "Not specified"))
	fmt.Fprintf(&b, "**Key Skills**: %s\n", listOr(profile.Skills, 10, "Various skills"))
	fmt.Fprintf(&b, "**Summary**: %s\n\n", orDefault(profile.Summary, "Not provided"))
	fmt.Fprintf(&b, "## Target Job:\n**Title**: %s\n**Company**: %s\n**Location**: %s\n**Description**: %s\n\n",
		job.Title, job.Company, orDefault(job.Location, "Not specified"), textx.Truncate(job.Description, 600))
	fmt.Fprintf(&b, "## Debate Insights:\n**Strengths to Highlight**:\n%s\n\n", bulleted(highlights, "- General qualifications"))
	fmt.Fprintf(&b, "**Concerns to Address (if relevant)**:\n%s\n\n", bulleted(concerns, "- None significant"))
	b.WriteString("Write the cover letter now:")
	return b.String()
}

func argumentLines(args []domain.Argument, empty string) string {
	if len(args) == 0 {
		return empty
	}
	lines := make([]string, 0, len(args))
	for _, a := range args {
		ev := a.Evidence
		if ev == "" {
			ev = "No specific evidence"
		}
		lines = append(lines, fmt.Sprintf("- [%s] %s: %s", a.Strength, a.Point, ev))
	}
	return strings.Join(lines, "\n")
}

func listOr(items []string, limit int, empty string) string {
	if len(items) == 0 {
		return empty
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return strings.Join(items, ", ")
}

func bulleted(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, "- "+it)
	}
	return strings.Join(lines, "\n")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
