package ranking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-matcher/internal/types"
)

func TestEligibleCandidates_SkillRequirement(t *testing.T) {
	store := newFakeStore()
	store.add("Ada", candidateRow(1, "language_java", 24, 24, 0, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	store.add("Grace", candidateRow(2, "language_python", 24, 24, 0, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	engine := newTestEngine(store, nil)

	eligible, err := engine.EligibleCandidates(context.Background(), jobProfile(types.SeniorityMid, hardSkill("Java", types.HintProgramming, 18)))
	require.NoError(t, err)

	assert.Equal(t, map[int64]bool{1: true}, eligible)
}

func TestEligibleCandidates_IntersectionAcrossRequirements(t *testing.T) {
	lastUsed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.add("Ada", candidateRow(1, "language_java", 24, 24, 0, lastUsed))
	store.add("Grace",
		candidateRow(2, "language_java", 30, 30, 0, lastUsed),
		candidateRow(2, "language_python", 20, 20, 0, lastUsed))
	engine := newTestEngine(store, nil)

	eligible, err := engine.EligibleCandidates(context.Background(), jobProfile(types.SeniorityMid,
		hardSkill("Java", types.HintProgramming, 18),
		hardSkill("Python", types.HintProgramming, 18)))
	require.NoError(t, err)

	assert.Equal(t, map[int64]bool{2: true}, eligible)
}

func TestEligibleCandidates_SeniorityGate(t *testing.T) {
	// 40 mid months but zero senior months fails a Senior JD's senior band.
	store := newFakeStore()
	store.add("Ada", candidateRow(1, "language_java", 40, 40, 0, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	engine := newTestEngine(store, nil)

	eligible, err := engine.EligibleCandidates(context.Background(), jobProfile(types.SenioritySenior, hardSkill("Java", types.HintProgramming, 24)))
	require.NoError(t, err)
	assert.Empty(t, eligible)

	row := candidateRow(2, "language_java", 40, 24, 16, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	store.add("Grace", row)

	eligible, err = engine.EligibleCandidates(context.Background(), jobProfile(types.SenioritySenior, hardSkill("Java", types.HintProgramming, 24)))
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{2: true}, eligible)
}

func TestEligibleCandidates_RecencyCutoff(t *testing.T) {
	store := newFakeStore()
	store.add("Ada", candidateRow(1, "language_java", 48, 48, 0, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)))
	engine := newTestEngine(store, nil)

	eligible, err := engine.EligibleCandidates(context.Background(), jobProfile(types.SeniorityMid, hardSkill("Java", types.HintProgramming, 18)))
	require.NoError(t, err)

	assert.Empty(t, eligible)
}

func TestEligibleCandidates_FilterValues(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store, nil)

	_, err := engine.EligibleCandidates(context.Background(), jobProfile(types.SenioritySenior, hardSkill("Java", types.HintProgramming, 24)))
	require.NoError(t, err)

	require.Len(t, store.skillQueries, 1)
	filter := store.skillQueries[0]
	assert.Equal(t, map[int64]bool{1: true}, filter.AcceptableIDs)
	assert.Equal(t, 24, filter.MinMonths)
	assert.Equal(t, 2, filter.RequiredStrength)
	assert.Equal(t, 24, filter.MinMidMonths)
	assert.Equal(t, 12, filter.MinSeniorMonths)
	// 36 * 30 days before the engine clock.
	assert.Equal(t, time.Date(2023, time.January, 17, 0, 0, 0, 0, time.UTC), filter.RecencyCutoff)
}

func TestEligibleCandidates_ImplicationSatisfiesRequirement(t *testing.T) {
	// Only ASP.NET experience, but the implication edge grants .NET credit.
	store := newFakeStore()
	store.add("Ada", candidateRow(1, "framework_aspnet", 30, 30, 0, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)))
	engine := newTestEngine(store, nil)

	eligible, err := engine.EligibleCandidates(context.Background(), jobProfile(types.SeniorityMid, hardSkill(".NET", types.HintFramework, 24)))
	require.NoError(t, err)

	assert.Equal(t, map[int64]bool{1: true}, eligible)
	require.Len(t, store.skillQueries, 1)
	assert.Equal(t, map[int64]bool{3: true, 4: true}, store.skillQueries[0].AcceptableIDs)
}

func TestEligibleCandidates_SubtreeSatisfiesRequirement(t *testing.T) {
	store := newFakeStore()
	store.add("Ada", candidateRow(1, "database_postgresql", 24, 24, 0, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	engine := newTestEngine(store, nil)

	eligible, err := engine.EligibleCandidates(context.Background(), jobProfile(types.SeniorityMid, hardSkill("SQL", types.HintDatabase, 12)))
	require.NoError(t, err)

	assert.Equal(t, map[int64]bool{1: true}, eligible)
}

func TestEligibleCandidates_CategoryRequirement(t *testing.T) {
	lastUsed := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.add("Ada", candidateRow(1, "framework_angular", 20, 20, 0, lastUsed))
	store.add("Grace",
		candidateRow(2, "framework_angular", 18, 18, 0, lastUsed),
		candidateRow(2, "framework_react", 12, 12, 0, lastUsed))
	engine := newTestEngine(store, nil)

	eligible, err := engine.EligibleCandidates(context.Background(), jobProfile(types.SeniorityMid,
		categoryReq("Frontend Framework", 1, types.RequirementHard)))
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{1: true, 2: true}, eligible)

	// Two distinct frontend skills required: only Grace qualifies.
	eligible, err = engine.EligibleCandidates(context.Background(), jobProfile(types.SeniorityMid,
		categoryReq("Frontend Framework", 2, types.RequirementHard)))
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{2: true}, eligible)
}

func TestEligibleCandidates_SoftRequirementsNeverFilter(t *testing.T) {
	store := newFakeStore()
	store.add("Ada", candidateRow(1, "language_java", 24, 24, 0, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	engine := newTestEngine(store, nil)

	withSoft, err := engine.EligibleCandidates(context.Background(), jobProfile(types.SeniorityMid,
		hardSkill("Java", types.HintProgramming, 18),
		softSkill("Python", types.HintProgramming)))
	require.NoError(t, err)

	hardOnly, err := engine.EligibleCandidates(context.Background(), jobProfile(types.SeniorityMid,
		hardSkill("Java", types.HintProgramming, 18)))
	require.NoError(t, err)

	assert.Equal(t, hardOnly, withSoft)
	assert.Equal(t, map[int64]bool{1: true}, withSoft)
}

func TestEligibleCandidates_UnknownSkillSkipped(t *testing.T) {
	store := newFakeStore()
	store.add("Ada", candidateRow(1, "language_java", 24, 24, 0, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	engine := newTestEngine(store, nil)

	eligible, err := engine.EligibleCandidates(context.Background(), jobProfile(types.SeniorityMid,
		hardSkill("Cobol Mainframe", types.HintOther, 12),
		hardSkill("Java", types.HintProgramming, 18)))
	require.NoError(t, err)

	// The unresolved requirement constrains nothing; only Java was queried.
	assert.Equal(t, map[int64]bool{1: true}, eligible)
	assert.Len(t, store.skillQueries, 1)
}

func TestEligibleCandidates_AllRequirementsUnresolved(t *testing.T) {
	store := newFakeStore()
	store.add("Ada", candidateRow(1, "language_java", 24, 24, 0, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	engine := newTestEngine(store, nil)

	eligible, err := engine.EligibleCandidates(context.Background(), jobProfile(types.SeniorityMid,
		hardSkill("Cobol Mainframe", types.HintOther, 12)))
	require.NoError(t, err)

	assert.Empty(t, eligible)
	assert.Empty(t, store.skillQueries)
}

func TestEligibleCandidates_NoHardRequirements(t *testing.T) {
	store := newFakeStore()
	store.add("Ada", candidateRow(1, "language_java", 24, 24, 0, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	engine := newTestEngine(store, nil)

	eligible, err := engine.EligibleCandidates(context.Background(), jobProfile(types.SeniorityMid,
		softSkill("Java", types.HintProgramming)))
	require.NoError(t, err)

	assert.Empty(t, eligible)
	assert.Empty(t, store.skillQueries)
}

func TestEligibleCandidates_EarlyExitOnEmptySet(t *testing.T) {
	store := newFakeStore()
	store.add("Ada", candidateRow(1, "language_python", 24, 24, 0, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	engine := newTestEngine(store, nil)

	eligible, err := engine.EligibleCandidates(context.Background(), jobProfile(types.SeniorityMid,
		hardSkill("Java", types.HintProgramming, 18),
		hardSkill("Python", types.HintProgramming, 18)))
	require.NoError(t, err)

	assert.Empty(t, eligible)
	assert.Len(t, store.skillQueries, 1)
}

func TestEligibleCandidates_Idempotent(t *testing.T) {
	store := newFakeStore()
	store.add("Ada", candidateRow(1, "language_java", 24, 24, 0, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	store.add("Grace", candidateRow(2, "language_java", 19, 19, 0, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	engine := newTestEngine(store, nil)
	profile := jobProfile(types.SeniorityMid, hardSkill("Java", types.HintProgramming, 18))

	first, err := engine.EligibleCandidates(context.Background(), profile)
	require.NoError(t, err)
	second, err := engine.EligibleCandidates(context.Background(), profile)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEligibleCandidates_EmbedFailureSkipsRequirement(t *testing.T) {
	store := newFakeStore()
	store.add("Ada", candidateRow(1, "language_java", 24, 24, 0, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	embed := func(context.Context, string) ([]float32, error) {
		return nil, errors.New("embedding provider down")
	}
	engine := newTestEngine(store, embed)

	eligible, err := engine.EligibleCandidates(context.Background(), jobProfile(types.SeniorityMid,
		hardSkill("Kotlin Coroutines", types.HintProgramming, 12),
		hardSkill("Java", types.HintProgramming, 18)))
	require.NoError(t, err)

	assert.Equal(t, map[int64]bool{1: true}, eligible)
}

func TestEligibleCandidates_StoreErrorPropagates(t *testing.T) {
	store := newFakeStore()
	store.queryErr = errors.New("connection reset")
	engine := newTestEngine(store, nil)

	_, err := engine.EligibleCandidates(context.Background(), jobProfile(types.SeniorityMid,
		hardSkill("Java", types.HintProgramming, 18)))

	assert.Error(t, err)
}
