package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/candidate-matcher/internal/extraction"
	"github.com/jonathan/candidate-matcher/internal/matching"
	"github.com/jonathan/candidate-matcher/internal/taxonomy"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// testRefDate pins Deps.Now so durations and recency are deterministic.
var testRefDate = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

// fakeExtractor returns canned extraction results, failing at whichever
// stage has an error configured.
type fakeExtractor struct {
	chunks     *extraction.SectionChunks
	identity   *types.Identity
	experience []types.RawExperienceItem

	sectionsErr   error
	identityErr   error
	experienceErr error
}

func (f *fakeExtractor) Sections(_ context.Context, _ []byte) (*extraction.SectionChunks, error) {
	if f.sectionsErr != nil {
		return nil, f.sectionsErr
	}
	return f.chunks, nil
}

func (f *fakeExtractor) Identity(_ context.Context, _ *extraction.SectionChunks) (*types.Identity, error) {
	if f.identityErr != nil {
		return nil, f.identityErr
	}
	return f.identity, nil
}

func (f *fakeExtractor) RawExperience(_ context.Context, _ *extraction.SectionChunks) ([]types.RawExperienceItem, error) {
	if f.experienceErr != nil {
		return nil, f.experienceErr
	}
	return f.experience, nil
}

// fakeCandidateStore records what the candidate flow persists. Guarded by a
// mutex so executor tests can share one across workers.
type fakeCandidateStore struct {
	nextID    int64
	insertErr error
	upsertErr error

	mu             sync.Mutex
	inserted       bool
	fullName       string
	email          string
	experienceJSON []byte
	skillsFor      int64
	metrics        []types.SkillMetrics
}

func (f *fakeCandidateStore) InsertCandidate(_ context.Context, fullName, email string, experienceJSON []byte) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = true
	f.fullName = fullName
	f.email = email
	f.experienceJSON = experienceJSON
	return f.nextID, nil
}

func (f *fakeCandidateStore) UpsertCandidateSkills(_ context.Context, candidateID int64, metrics []types.SkillMetrics) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.skillsFor = candidateID
	f.metrics = metrics
	return nil
}

// fakeRanker records the profile it was asked to rank.
type fakeRanker struct {
	resp *types.MatchResponse
	err  error

	gotProfile *types.JobSkillProfile
	gotLimit   int
}

func (f *fakeRanker) Rank(_ context.Context, profile *types.JobSkillProfile, limit int) (*types.MatchResponse, error) {
	f.gotProfile = profile
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

// progressRecorder captures milestone callbacks in order. Safe for use from
// executor worker goroutines.
type progressRecorder struct {
	mu       sync.Mutex
	progress []int
	messages []string
}

func (r *progressRecorder) record(progress int, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, progress)
	r.messages = append(r.messages, message)
}

func (r *progressRecorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.progress...)
}

// testMatcher builds a matcher over a two-skill taxonomy. No embed function:
// the textual tiers are enough for fixture mentions.
func testMatcher() *matching.Matcher {
	skills := []types.MasterSkill{
		{ID: 1, Code: "language_python", Name: "Python", SkillType: "language", Category: "Programming Languages"},
		{ID: 2, Code: "tool_docker", Name: "Docker", SkillType: "tool", Category: "DevOps"},
	}
	return matching.New(taxonomy.NewIndex(skills, nil), nil)
}

func sampleExperience() []types.RawExperienceItem {
	return []types.RawExperienceItem{{
		JobTitle:         "Senior Software Engineer",
		Organization:     "Initech",
		StartDateRaw:     "06/2021",
		EndDateRaw:       "Present",
		Technologies:     []string{"Python", "Docker"},
		Domains:          []string{"backend"},
		Responsibilities: []string{"Built deployment tooling"},
		ExtractedSkills: []types.ExtractedSkill{
			{RawName: "Python", Source: types.SourceSkillsSection, Confidence: 1.0},
			{RawName: "Docker", Source: types.SourceTechnologyList, Confidence: 0.9},
		},
	}}
}

func testCandidateDeps(x ResumeExtractor, store CandidateStore) *Deps {
	return &Deps{
		Extractor:  x,
		Matcher:    testMatcher(),
		Candidates: store,
		Now:        func() time.Time { return testRefDate },
	}
}
