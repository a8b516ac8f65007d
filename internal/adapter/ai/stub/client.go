// Package stub provides a fast, deterministic AI client for local
// development and tests. It inspects the system prompt to decide which
// agent is calling and answers with schema-correct JSON.
package stub

import (
	"encoding/json"
	"strings"

	"github.com/hirewise/ai-job-matcher/internal/domain"
)

// Client is a deterministic domain.AIClient.
type Client struct{}

// New constructs a stub Client.
func New() *Client { return &Client{} }

// ChatJSON returns a canned, schema-correct response for the calling agent.
func (c *Client) ChatJSON(_ domain.Context, systemPrompt, _ string, _ int) (string, error) {
	var payload any
	switch {
	case strings.Contains(systemPrompt, "RECRUITER"):
		payload = map[string]any{
			"arguments": []map[string]any{
				{"point": "Limited exposure to part of the required stack", "evidence": "Skill list does not cover every requirement", "strength": "Medium", "category": "Skills"},
			},
			"score": 65,
		}
	case strings.Contains(systemPrompt, "COACH"):
		payload = map[string]any{
			"arguments": []map[string]any{
				{"point": "Core skills align with the role", "evidence": "Overlapping skills in the profile", "strength": "Strong", "category": "Skills"},
				{"point": "Relevant professional experience", "evidence": "Prior roles in the same domain", "strength": "Medium", "category": "Experience"},
			},
			"score": 80,
		}
	case strings.Contains(systemPrompt, "JUDGE"):
		payload = map[string]any{
			"final_score":      72,
			"recommendation":   "Good Match",
			"key_strengths":    []string{"Core skills align with the role"},
			"key_concerns":     []string{"Limited exposure to part of the required stack"},
			"deciding_factors": []string{"Skills match"},
			"must_address":     []string{"Close the remaining skill gaps"},
			"nice_to_have":     []string{"Certifications"},
			"confidence":       0.8,
		}
	default:
		return "Dear Hiring Manager,\n\nI am excited to apply for this position and believe my background is a strong fit.\n\nBest regards", nil
	}
	b, _ := json.Marshal(payload)
	return string(b), nil
}

// Embed returns small fixed vectors deterministically.
func (c *Client) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	res := make([][]float32, len(texts))
	for i := range texts {
		res[i] = []float32{0.1, 0.2, 0.3}
	}
	return res, nil
}
