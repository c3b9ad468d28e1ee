package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-matcher/internal/db"
	"github.com/jonathan/candidate-matcher/internal/extraction"
	"github.com/jonathan/candidate-matcher/internal/types"
)

type transition struct {
	status   string
	progress int
	message  string
	result   []byte
	errMsg   string
}

// fakeJobStore records every status transition per job.
type fakeJobStore struct {
	mu          sync.Mutex
	transitions map[uuid.UUID][]transition
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{transitions: make(map[uuid.UUID][]transition)}
}

func (f *fakeJobStore) UpdateJobStatus(_ context.Context, jobID uuid.UUID, status string, progress int, message string, result []byte, errorMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transitions[jobID] = append(f.transitions[jobID], transition{
		status:   status,
		progress: progress,
		message:  message,
		result:   result,
		errMsg:   errorMessage,
	})
	return nil
}

func (f *fakeJobStore) history(jobID uuid.UUID) []transition {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]transition(nil), f.transitions[jobID]...)
}

func happyCandidateDeps() *Deps {
	x := &fakeExtractor{
		chunks:     &extraction.SectionChunks{},
		identity:   &types.Identity{FullName: "Ada Lovelace", Email: "ada@example.com"},
		experience: sampleExperience(),
	}
	return testCandidateDeps(x, &fakeCandidateStore{nextID: 7})
}

func TestExecutor_CandidateJobCompletes(t *testing.T) {
	jobs := newFakeJobStore()
	e := NewExecutor(context.Background(), jobs, happyCandidateDeps(), 1)

	jobID := uuid.New()
	e.SubmitCandidate(jobID, []byte("%PDF-1.4"))
	e.Wait()

	history := jobs.history(jobID)
	require.Len(t, history, 7)
	for _, tr := range history[:6] {
		assert.Equal(t, db.JobStatusProcessing, tr.status)
	}
	assert.Equal(t, 10, history[0].progress)
	assert.Equal(t, 90, history[5].progress)

	last := history[6]
	assert.Equal(t, db.JobStatusCompleted, last.status)
	assert.Equal(t, 100, last.progress)
	assert.Equal(t, "Resume processed successfully", last.message)
	assert.Empty(t, last.errMsg)

	var res candidateResult
	require.NoError(t, json.Unmarshal(last.result, &res))
	require.NotNil(t, res.Profile)
	assert.Equal(t, int64(7), res.Profile.CandidateID)
	assert.Equal(t, "Ada Lovelace", res.Profile.FullName)
	assert.Equal(t, 2, res.Profile.SkillCount)
}

func TestExecutor_EmployerJobCompletes(t *testing.T) {
	ranker := &fakeRanker{resp: &types.MatchResponse{
		Results: []types.RankedCandidate{
			{Name: "Ada Lovelace", CandidateID: 7, Score: 91.5},
			{Name: "Grace Hopper", CandidateID: 3, Score: 64.0},
		},
		RoleContext: "Backend role",
	}}
	deps := &Deps{
		Ranker:   ranker,
		ParseJob: func(_ context.Context, _ string) (*types.JobSkillProfile, error) { return testJobProfile(), nil },
	}
	jobs := newFakeJobStore()
	e := NewExecutor(context.Background(), jobs, deps, 1)

	jobID := uuid.New()
	e.SubmitEmployer(jobID, "We need a senior Python engineer for payments.", 0)
	e.Wait()

	history := jobs.history(jobID)
	require.Len(t, history, 5)
	last := history[4]
	assert.Equal(t, db.JobStatusCompleted, last.status)
	assert.Equal(t, "Found 2 matching candidates", last.message)

	var res employerResult
	require.NoError(t, json.Unmarshal(last.result, &res))
	require.Len(t, res.Matches, 2)
	assert.Equal(t, "Ada Lovelace", res.Matches[0].Name)
	assert.Equal(t, "Backend role", res.RoleContext)

	// Stored payload uses the consumer key names.
	assert.Contains(t, string(last.result), `"matches"`)
	assert.Contains(t, string(last.result), `"role_context"`)
}

func TestExecutor_CandidateFailureResetsProgress(t *testing.T) {
	x := &fakeExtractor{
		sectionsErr: &types.ErrExtraction{Stage: extraction.StageSections, Err: errors.New("llm unavailable")},
	}
	deps := testCandidateDeps(x, &fakeCandidateStore{})
	jobs := newFakeJobStore()
	e := NewExecutor(context.Background(), jobs, deps, 1)

	jobID := uuid.New()
	e.SubmitCandidate(jobID, []byte("%PDF-1.4"))
	e.Wait()

	history := jobs.history(jobID)
	require.NotEmpty(t, history)
	last := history[len(history)-1]
	assert.Equal(t, db.JobStatusFailed, last.status)
	assert.Equal(t, 0, last.progress)
	assert.Contains(t, last.message, "Processing failed: ")
	assert.Contains(t, last.errMsg, "llm unavailable")
	assert.Nil(t, last.result)
}

func TestExecutor_EmployerFailureMessagePrefix(t *testing.T) {
	deps := &Deps{
		Ranker: &fakeRanker{},
		ParseJob: func(_ context.Context, _ string) (*types.JobSkillProfile, error) {
			return nil, errors.New("response failed schema validation")
		},
	}
	jobs := newFakeJobStore()
	e := NewExecutor(context.Background(), jobs, deps, 1)

	jobID := uuid.New()
	e.SubmitEmployer(jobID, "gibberish", 0)
	e.Wait()

	history := jobs.history(jobID)
	last := history[len(history)-1]
	assert.Equal(t, db.JobStatusFailed, last.status)
	assert.Contains(t, last.message, "Matching failed: ")
}

func TestExecutor_PanicBecomesFailedJob(t *testing.T) {
	deps := &Deps{
		Ranker: &fakeRanker{},
		ParseJob: func(_ context.Context, _ string) (*types.JobSkillProfile, error) {
			panic("requirement index out of range")
		},
	}
	jobs := newFakeJobStore()
	e := NewExecutor(context.Background(), jobs, deps, 1)

	jobID := uuid.New()
	e.SubmitEmployer(jobID, "anything", 0)
	e.Wait()

	history := jobs.history(jobID)
	require.NotEmpty(t, history)
	last := history[len(history)-1]
	assert.Equal(t, db.JobStatusFailed, last.status)
	assert.Contains(t, last.errMsg, "internal error: requirement index out of range")
}

// gateExtractor wraps the fake extractor with a concurrency probe.
type gateExtractor struct {
	fakeExtractor
	mu      sync.Mutex
	current int
	peak    int
}

func (g *gateExtractor) Sections(ctx context.Context, pdf []byte) (*extraction.SectionChunks, error) {
	g.mu.Lock()
	g.current++
	if g.current > g.peak {
		g.peak = g.current
	}
	g.mu.Unlock()

	time.Sleep(20 * time.Millisecond)

	g.mu.Lock()
	g.current--
	g.mu.Unlock()
	return g.fakeExtractor.Sections(ctx, pdf)
}

func TestExecutor_BoundsConcurrency(t *testing.T) {
	x := &gateExtractor{fakeExtractor: fakeExtractor{
		chunks:     &extraction.SectionChunks{},
		identity:   &types.Identity{FullName: "Ada Lovelace"},
		experience: nil,
	}}
	deps := testCandidateDeps(x, &fakeCandidateStore{nextID: 1})
	jobs := newFakeJobStore()
	e := NewExecutor(context.Background(), jobs, deps, 2)

	ids := make([]uuid.UUID, 4)
	for i := range ids {
		ids[i] = uuid.New()
		e.SubmitCandidate(ids[i], []byte("%PDF-1.4"))
	}
	e.Wait()

	assert.LessOrEqual(t, x.peak, 2)
	for _, id := range ids {
		history := jobs.history(id)
		require.NotEmpty(t, history)
		assert.Equal(t, db.JobStatusCompleted, history[len(history)-1].status)
	}
}
