package usecase

import (
	"fmt"
	"strconv"

	"github.com/hirewise/ai-job-matcher/internal/domain"
)

type fakeProfileRepo struct {
	byID    map[string]domain.CandidateProfile
	nextID  int
	lastErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byID: map[string]domain.CandidateProfile{}}
}

func (f *fakeProfileRepo) Create(_ domain.Context, p domain.CandidateProfile) (string, error) {
	if f.lastErr != nil {
		return "", f.lastErr
	}
	f.nextID++
	id := "p" + strconv.Itoa(f.nextID)
	p.ID = id
	f.byID[id] = p
	return id, nil
}

func (f *fakeProfileRepo) Get(_ domain.Context, id string) (domain.CandidateProfile, error) {
	p, ok := f.byID[id]
	if !ok {
		return domain.CandidateProfile{}, fmt.Errorf("%w: profile %s", domain.ErrNotFound, id)
	}
	return p, nil
}

type fakeJobRepo struct {
	byID   map[string]domain.JobRequirement
	nextID int
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{byID: map[string]domain.JobRequirement{}}
}

func (f *fakeJobRepo) Create(_ domain.Context, j domain.JobRequirement) (string, error) {
	f.nextID++
	id := "j" + strconv.Itoa(f.nextID)
	j.ID = id
	f.byID[id] = j
	return id, nil
}

func (f *fakeJobRepo) Get(_ domain.Context, id string) (domain.JobRequirement, error) {
	j, ok := f.byID[id]
	if !ok {
		return domain.JobRequirement{}, fmt.Errorf("%w: job %s", domain.ErrNotFound, id)
	}
	return j, nil
}

type fakeMatchRepo struct {
	byID   map[string]domain.MatchJob
	nextID int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{byID: map[string]domain.MatchJob{}}
}

func (f *fakeMatchRepo) Create(_ domain.Context, m domain.MatchJob) (string, error) {
	f.nextID++
	id := "m" + strconv.Itoa(f.nextID)
	m.ID = id
	f.byID[id] = m
	return id, nil
}

func (f *fakeMatchRepo) UpdateStatus(_ domain.Context, id string, status domain.MatchStatus, errMsg *string) error {
	m, ok := f.byID[id]
	if !ok {
		return fmt.Errorf("%w: match %s", domain.ErrNotFound, id)
	}
	m.Status = status
	if errMsg != nil {
		m.Error = *errMsg
	}
	f.byID[id] = m
	return nil
}

func (f *fakeMatchRepo) Get(_ domain.Context, id string) (domain.MatchJob, error) {
	m, ok := f.byID[id]
	if !ok {
		return domain.MatchJob{}, fmt.Errorf("%w: match %s", domain.ErrNotFound, id)
	}
	return m, nil
}

func (f *fakeMatchRepo) FindByIdempotencyKey(_ domain.Context, key string) (domain.MatchJob, error) {
	for _, m := range f.byID {
		if m.IdemKey != nil && *m.IdemKey == key {
			return m, nil
		}
	}
	return domain.MatchJob{}, fmt.Errorf("%w: idempotency key", domain.ErrNotFound)
}

func (f *fakeMatchRepo) CountByStatus(_ domain.Context) (map[domain.MatchStatus]int64, error) {
	out := map[domain.MatchStatus]int64{}
	for _, m := range f.byID {
		out[m.Status]++
	}
	return out, nil
}

type fakeResultRepo struct {
	byMatch map[string]domain.PipelineResult
	err     error
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{byMatch: map[string]domain.PipelineResult{}}
}

func (f *fakeResultRepo) Upsert(_ domain.Context, matchID string, r domain.PipelineResult) error {
	if f.err != nil {
		return f.err
	}
	f.byMatch[matchID] = r
	return nil
}

func (f *fakeResultRepo) GetByMatchID(_ domain.Context, matchID string) (domain.PipelineResult, error) {
	if f.err != nil {
		return domain.PipelineResult{}, f.err
	}
	r, ok := f.byMatch[matchID]
	if !ok {
		return domain.PipelineResult{}, fmt.Errorf("%w: result for %s", domain.ErrNotFound, matchID)
	}
	return r, nil
}

func (f *fakeResultRepo) RecommendationCounts(_ domain.Context) (map[string]int64, error) {
	out := map[string]int64{}
	for _, r := range f.byMatch {
		out[r.Verdict.Recommendation]++
	}
	return out, nil
}

type fakeQueue struct {
	enqueued []domain.MatchTaskPayload
	err      error
}

func (f *fakeQueue) EnqueueMatch(_ domain.Context, payload domain.MatchTaskPayload) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.enqueued = append(f.enqueued, payload)
	return payload.MatchID, nil
}
