package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-matcher/internal/types"
)

func testJobProfile() *types.JobSkillProfile {
	return &types.JobSkillProfile{
		RoleContext: "Senior backend engineer on the payments platform team",
		JobMetadata: types.JobMetadata{PrimaryDomain: "Backend", SeniorityLevel: types.SenioritySenior},
		Requirements: []types.Requirement{
			{RawSkill: "Python", SkillTypeHint: types.HintProgramming, RequirementLevel: types.RequirementHard, Source: types.SkillSourceExplicit},
			{RawSkill: "Docker", SkillTypeHint: types.HintTool, RequirementLevel: types.RequirementSoft, Source: types.SkillSourceExplicit},
		},
	}
}

func TestRunEmployer_FullFlow(t *testing.T) {
	ranker := &fakeRanker{resp: &types.MatchResponse{
		Results: []types.RankedCandidate{
			{Name: "Ada Lovelace", CandidateID: 7, Score: 91.5, Confidence: "Strong Match"},
			{Name: "Grace Hopper", CandidateID: 3, Score: 64.0, Confidence: "Good Match"},
		},
		RoleContext: "Senior backend engineer on the payments platform team",
	}}
	parsed := testJobProfile()
	deps := &Deps{
		Ranker:   ranker,
		ParseJob: func(_ context.Context, _ string) (*types.JobSkillProfile, error) { return parsed, nil },
	}

	rec := &progressRecorder{}
	resp, err := deps.RunEmployer(context.Background(), "We need a senior Python engineer...", 25, rec.record)
	require.NoError(t, err)

	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Ada Lovelace", resp.Results[0].Name)
	assert.Same(t, parsed, ranker.gotProfile)
	assert.Equal(t, 25, ranker.gotLimit)

	assert.Equal(t, []int{10, 25, 40, 80}, rec.progress)
	assert.Equal(t, []string{
		"Analyzing job description",
		"Validating extracted requirements",
		"Matching candidates to requirements",
		"Formatting results",
	}, rec.messages)
}

func TestRunEmployer_ParseFailureStopsEarly(t *testing.T) {
	ranker := &fakeRanker{}
	deps := &Deps{
		Ranker: ranker,
		ParseJob: func(_ context.Context, _ string) (*types.JobSkillProfile, error) {
			return nil, errors.New("response failed schema validation")
		},
	}

	rec := &progressRecorder{}
	_, err := deps.RunEmployer(context.Background(), "gibberish", 0, rec.record)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job description parsing failed")
	assert.Nil(t, ranker.gotProfile)
	assert.Equal(t, []int{10}, rec.progress)
}

func TestRunEmployer_RankFailure(t *testing.T) {
	ranker := &fakeRanker{err: &types.ErrPersistence{Op: "eligibility query", Err: errors.New("timeout")}}
	parsed := testJobProfile()
	deps := &Deps{
		Ranker:   ranker,
		ParseJob: func(_ context.Context, _ string) (*types.JobSkillProfile, error) { return parsed, nil },
	}

	rec := &progressRecorder{}
	_, err := deps.RunEmployer(context.Background(), "We need a senior Python engineer...", 0, rec.record)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "candidate ranking failed")

	var persistErr *types.ErrPersistence
	assert.ErrorAs(t, err, &persistErr)
	assert.Equal(t, []int{10, 25, 40}, rec.progress)
}
