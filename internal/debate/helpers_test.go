package debate

import (
	"errors"
	"sync"

	"github.com/hirewise/ai-job-matcher/internal/domain"
)

// scriptedAI replays canned responses per agent, keyed by the system
// prompt each agent sends. Replies for a key are consumed in order;
// the last one repeats once the queue drains.
type scriptedAI struct {
	mu      sync.Mutex
	replies map[string][]string
	errs    map[string]error
	calls   map[string]int
}

func newScriptedAI() *scriptedAI {
	return &scriptedAI{
		replies: make(map[string][]string),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (s *scriptedAI) script(systemPrompt string, replies ...string) *scriptedAI {
	s.replies[systemPrompt] = append(s.replies[systemPrompt], replies...)
	return s
}

func (s *scriptedAI) fail(systemPrompt string, err error) *scriptedAI {
	s.errs[systemPrompt] = err
	return s
}

func (s *scriptedAI) ChatJSON(_ domain.Context, systemPrompt, _ string, _ int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[systemPrompt]++
	if err, ok := s.errs[systemPrompt]; ok {
		return "", err
	}
	queue, ok := s.replies[systemPrompt]
	if !ok || len(queue) == 0 {
		return "", errors.New("scriptedAI: no reply configured")
	}
	reply := queue[0]
	if len(queue) > 1 {
		s.replies[systemPrompt] = queue[1:]
	}
	return reply, nil
}

func (s *scriptedAI) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0, 0, 0}
	}
	return out, nil
}

func (s *scriptedAI) callCount(systemPrompt string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[systemPrompt]
}

// wordCounter is a cheap deterministic TokenCounter for tests.
type wordCounter struct{}

func (wordCounter) Count(s string) int { return len(s) / 4 }

func backendJob() domain.JobRequirement {
	return domain.JobRequirement{
		Title:          "Backend Engineer",
		Company:        "Initech",
		Description:    "Build and run backend services.",
		RequiredSkills: []string{"Python", "Kubernetes", "AWS"},
		PreferredSkills: []string{
			"GraphQL",
		},
		MinExperience: 3,
	}
}

func pythonOnlyProfile() domain.CandidateProfile {
	return domain.CandidateProfile{
		Name:            "Alex Kim",
		Skills:          []string{"Python"},
		YearsExperience: 5,
	}
}
