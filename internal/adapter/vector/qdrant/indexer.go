package qdrant

import (
	"context"
	"fmt"
	"strings"

	"github.com/hirewise/ai-job-matcher/internal/domain"
)

// Indexer embeds candidate profiles and upserts them into the profiles
// collection, keyed by profile id.
type Indexer struct {
	AI         domain.AIClient
	Client     *Client
	Collection string
}

// NewIndexer constructs an Indexer on the default collection.
func NewIndexer(ai domain.AIClient, client *Client) *Indexer {
	return &Indexer{AI: ai, Client: client, Collection: CollectionProfiles}
}

// IndexProfile embeds the profile's text and stores one point carrying
// the profile id and the match's final score.
func (ix *Indexer) IndexProfile(ctx context.Context, profile domain.CandidateProfile, finalScore float64) error {
	text := profileText(profile)
	vectors, err := ix.AI.Embed(ctx, []string{text})
	if err != nil {
		return fmt.Errorf("op=index.profile embed: %w", err)
	}
	if len(vectors) == 0 {
		return fmt.Errorf("op=index.profile: empty embedding response")
	}
	payload := map[string]any{
		"profile_id":  profile.ID,
		"name":        profile.Name,
		"final_score": finalScore,
	}
	err = ix.Client.UpsertPoints(ctx, ix.Collection, vectors[:1], []map[string]any{payload}, []any{profile.ID})
	if err != nil {
		return fmt.Errorf("op=index.profile upsert: %w", err)
	}
	return nil
}

// profileText flattens the fields that matter for similarity.
func profileText(p domain.CandidateProfile) string {
	parts := []string{p.Name, p.Summary, strings.Join(p.Skills, ", ")}
	for _, e := range p.Experience {
		parts = append(parts, e.Title+" at "+e.Company)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
