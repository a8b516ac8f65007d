package httpserver

import (
	"context"
	"fmt"

	"github.com/hirewise/ai-job-matcher/internal/config"
	"github.com/hirewise/ai-job-matcher/internal/debate"
	"github.com/hirewise/ai-job-matcher/internal/domain"
	"github.com/hirewise/ai-job-matcher/internal/usecase"
)

type memProfiles struct {
	byID map[string]domain.CandidateProfile
	seq  int
}

func (m *memProfiles) Create(_ domain.Context, p domain.CandidateProfile) (string, error) {
	m.seq++
	if p.ID == "" {
		p.ID = fmt.Sprintf("p%d", m.seq)
	}
	m.byID[p.ID] = p
	return p.ID, nil
}

func (m *memProfiles) Get(_ domain.Context, id string) (domain.CandidateProfile, error) {
	p, ok := m.byID[id]
	if !ok {
		return domain.CandidateProfile{}, domain.ErrNotFound
	}
	return p, nil
}

type memJobs struct {
	byID map[string]domain.JobRequirement
	seq  int
}

func (m *memJobs) Create(_ domain.Context, j domain.JobRequirement) (string, error) {
	m.seq++
	if j.ID == "" {
		j.ID = fmt.Sprintf("j%d", m.seq)
	}
	m.byID[j.ID] = j
	return j.ID, nil
}

func (m *memJobs) Get(_ domain.Context, id string) (domain.JobRequirement, error) {
	j, ok := m.byID[id]
	if !ok {
		return domain.JobRequirement{}, domain.ErrNotFound
	}
	return j, nil
}

type memMatches struct {
	byID map[string]domain.MatchJob
	seq  int
}

func (m *memMatches) Create(_ domain.Context, mj domain.MatchJob) (string, error) {
	m.seq++
	if mj.ID == "" {
		mj.ID = fmt.Sprintf("m%d", m.seq)
	}
	m.byID[mj.ID] = mj
	return mj.ID, nil
}

func (m *memMatches) UpdateStatus(_ domain.Context, id string, status domain.MatchStatus, errMsg *string) error {
	mj := m.byID[id]
	mj.Status = status
	if errMsg != nil {
		mj.Error = *errMsg
	}
	m.byID[id] = mj
	return nil
}

func (m *memMatches) Get(_ domain.Context, id string) (domain.MatchJob, error) {
	mj, ok := m.byID[id]
	if !ok {
		return domain.MatchJob{}, domain.ErrNotFound
	}
	return mj, nil
}

func (m *memMatches) FindByIdempotencyKey(_ domain.Context, key string) (domain.MatchJob, error) {
	for _, mj := range m.byID {
		if mj.IdemKey != nil && *mj.IdemKey == key {
			return mj, nil
		}
	}
	return domain.MatchJob{}, domain.ErrNotFound
}

func (m *memMatches) CountByStatus(domain.Context) (map[domain.MatchStatus]int64, error) {
	out := map[domain.MatchStatus]int64{}
	for _, mj := range m.byID {
		out[mj.Status]++
	}
	return out, nil
}

type memResults struct{ byMatch map[string]domain.PipelineResult }

func (m *memResults) Upsert(_ domain.Context, matchID string, r domain.PipelineResult) error {
	m.byMatch[matchID] = r
	return nil
}

func (m *memResults) GetByMatchID(_ domain.Context, matchID string) (domain.PipelineResult, error) {
	r, ok := m.byMatch[matchID]
	if !ok {
		return domain.PipelineResult{}, domain.ErrNotFound
	}
	return r, nil
}

func (m *memResults) RecommendationCounts(domain.Context) (map[string]int64, error) {
	out := map[string]int64{}
	for _, r := range m.byMatch {
		out[r.Verdict.Recommendation]++
	}
	return out, nil
}

type memQueue struct {
	payloads []domain.MatchTaskPayload
	err      error
}

func (q *memQueue) EnqueueMatch(_ domain.Context, p domain.MatchTaskPayload) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	q.payloads = append(q.payloads, p)
	return p.MatchID, nil
}

type testEnv struct {
	server   *Server
	profiles *memProfiles
	jobs     *memJobs
	matches  *memMatches
	results  *memResults
	queue    *memQueue
}

func newTestEnv(cfg config.Config) *testEnv {
	profiles := &memProfiles{byID: map[string]domain.CandidateProfile{}}
	jobs := &memJobs{byID: map[string]domain.JobRequirement{}}
	matches := &memMatches{byID: map[string]domain.MatchJob{}}
	results := &memResults{byMatch: map[string]domain.PipelineResult{}}
	queue := &memQueue{}

	srv := &Server{
		Cfg:      cfg,
		Profiles: usecase.NewProfileService(profiles),
		Jobs:     usecase.NewJobService(jobs),
		Matches:  usecase.NewMatchService(profiles, jobs, matches, queue),
		Results:  usecase.NewResultService(matches, results, nil),
		Stats:    usecase.NewStatsService(matches, results),
		Letters:  usecase.NewLetterService(profiles, jobs, results, debate.NewWriter(nil, nil)),
	}
	return &testEnv{server: srv, profiles: profiles, jobs: jobs, matches: matches, results: results, queue: queue}
}

func (e *testEnv) seedPair() (string, string) {
	pid, _ := e.profiles.Create(context.Background(), domain.CandidateProfile{
		Name:   "Alex Kim",
		Skills: []string{"Python"},
	})
	jid, _ := e.jobs.Create(context.Background(), domain.JobRequirement{
		Title:          "Backend Engineer",
		Company:        "Initech",
		RequiredSkills: []string{"Python", "Kubernetes"},
	})
	return pid, jid
}
