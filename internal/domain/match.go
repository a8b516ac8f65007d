package domain

import (
	"context"
	"time"
)

// MatchStatus is the lifecycle state of an asynchronous match job.
type MatchStatus string

// Match job statuses.
const (
	MatchQueued     MatchStatus = "queued"
	MatchProcessing MatchStatus = "processing"
	MatchCompleted  MatchStatus = "completed"
	MatchFailed     MatchStatus = "failed"
)

// MatchJob tracks one requested candidate/job evaluation.
type MatchJob struct {
	ID        string
	Status    MatchStatus
	Error     string
	ProfileID string
	JobID     string
	IdemKey   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchTaskPayload is the queue message consumed by the worker.
type MatchTaskPayload struct {
	MatchID            string `json:"match_id"`
	ProfileID          string `json:"profile_id"`
	JobID              string `json:"job_id"`
	IncludeCoverLetter bool   `json:"include_cover_letter"`
	IncludeSkillGaps   bool   `json:"include_skill_gaps"`
}

// Repositories (ports)

// ProfileRepository persists candidate profiles.
type ProfileRepository interface {
	Create(ctx Context, p CandidateProfile) (string, error)
	Get(ctx Context, id string) (CandidateProfile, error)
}

// JobRepository persists job requirements.
type JobRepository interface {
	Create(ctx Context, j JobRequirement) (string, error)
	Get(ctx Context, id string) (JobRequirement, error)
}

// MatchRepository persists match jobs.
type MatchRepository interface {
	Create(ctx Context, m MatchJob) (string, error)
	UpdateStatus(ctx Context, id string, status MatchStatus, errMsg *string) error
	Get(ctx Context, id string) (MatchJob, error)
	FindByIdempotencyKey(ctx Context, key string) (MatchJob, error)
	CountByStatus(ctx Context) (map[MatchStatus]int64, error)
}

// ResultRepository persists pipeline results.
type ResultRepository interface {
	Upsert(ctx Context, matchID string, r PipelineResult) error
	GetByMatchID(ctx Context, matchID string) (PipelineResult, error)
	RecommendationCounts(ctx Context) (map[string]int64, error)
}

// Queue (port)

// Queue enqueues match tasks for asynchronous processing.
type Queue interface {
	EnqueueMatch(ctx Context, payload MatchTaskPayload) (string, error)
}

// AIClient (port)

// AIClient is the language-model boundary. ChatJSON sends role-tagged
// prompts instructing the model to return a fixed JSON schema and
// returns the raw text, which may still be wrapped in Markdown fences.
type AIClient interface {
	ChatJSON(ctx Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
	// Embed returns embedding vectors for texts.
	Embed(ctx Context, texts []string) ([][]float32, error)
}

// TextExtractor (port)
// ExtractPath extracts plain text from a resume file at path.
type TextExtractor interface {
	ExtractPath(ctx Context, fileName, path string) (string, error)
}

// Context is an alias so domain signatures read uniformly; adapters and
// usecases pass context.Context straight through.
type Context = context.Context
