package ranking

import (
	"context"
	"time"

	"github.com/jonathan/candidate-matcher/internal/matching"
	"github.com/jonathan/candidate-matcher/internal/taxonomy"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// fakeStore evaluates filters against in-memory rows the way the SQL layer
// does, and records the filters it was asked to run.
type fakeStore struct {
	skills      map[int64][]CandidateSkillRow
	names       map[int64]string
	roleWeights map[string]float64

	failSkills map[int64]error
	queryErr   error
	weightsErr error

	skillQueries    []SkillFilter
	categoryQueries []CategoryFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		skills:      make(map[int64][]CandidateSkillRow),
		names:       make(map[int64]string),
		roleWeights: make(map[string]float64),
		failSkills:  make(map[int64]error),
	}
}

func (s *fakeStore) add(name string, rows ...CandidateSkillRow) {
	id := rows[0].CandidateID
	s.names[id] = name
	s.skills[id] = append(s.skills[id], rows...)
}

func (s *fakeStore) QueryEligibleCandidates(_ context.Context, filter SkillFilter) (map[int64]bool, error) {
	s.skillQueries = append(s.skillQueries, filter)
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	out := make(map[int64]bool)
	for id, rows := range s.skills {
		for i := range rows {
			row := &rows[i]
			if !filter.AcceptableIDs[row.MasterSkillID] {
				continue
			}
			if (row.TotalMonths >= filter.MinMonths || row.MaxEvidenceStrength >= filter.RequiredStrength) &&
				row.MidMonths >= filter.MinMidMonths &&
				row.SeniorMonths >= filter.MinSeniorMonths &&
				!row.LastUsed.Before(filter.RecencyCutoff) {
				out[id] = true
				break
			}
		}
	}
	return out, nil
}

func (s *fakeStore) QueryCategoryCandidates(_ context.Context, filter CategoryFilter) (map[int64]bool, error) {
	s.categoryQueries = append(s.categoryQueries, filter)
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	out := make(map[int64]bool)
	for id, rows := range s.skills {
		distinct := make(map[int64]bool)
		for i := range rows {
			row := &rows[i]
			if row.Category != filter.Category {
				continue
			}
			if (row.TotalMonths > 0 || row.MaxEvidenceStrength >= filter.RequiredStrength) &&
				row.MidMonths >= filter.MinMidMonths &&
				row.SeniorMonths >= filter.MinSeniorMonths &&
				!row.LastUsed.Before(filter.RecencyCutoff) {
				distinct[row.MasterSkillID] = true
			}
		}
		if len(distinct) >= filter.MinRequired {
			out[id] = true
		}
	}
	return out, nil
}

func (s *fakeStore) GetCandidateSkills(_ context.Context, candidateID int64) ([]CandidateSkillRow, error) {
	if err := s.failSkills[candidateID]; err != nil {
		return nil, err
	}
	return s.skills[candidateID], nil
}

func (s *fakeStore) GetCandidateNames(_ context.Context, candidateIDs []int64) (map[int64]string, error) {
	out := make(map[int64]string)
	for _, id := range candidateIDs {
		if name, ok := s.names[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

func (s *fakeStore) GetRoleSkillTypeWeights(_ context.Context, _, _ string) (map[string]float64, error) {
	if s.weightsErr != nil {
		return nil, s.weightsErr
	}
	return s.roleWeights, nil
}

func rankingSkills() []types.MasterSkill {
	sqlID := int64(7)
	return []types.MasterSkill{
		{ID: 1, Code: "language_java", Name: "Java", SkillType: "programming", Category: "Programming Language"},
		{ID: 2, Code: "language_python", Name: "Python", SkillType: "programming", Category: "Programming Language"},
		{ID: 3, Code: "framework_dotnet", Name: ".NET", SkillType: "framework", Category: "Backend Framework"},
		{ID: 4, Code: "framework_aspnet", Name: "ASP.NET", SkillType: "framework", Category: "Backend Framework"},
		{ID: 5, Code: "framework_angular", Name: "Angular", SkillType: "framework", Category: "Frontend Framework"},
		{ID: 6, Code: "framework_react", Name: "React", SkillType: "framework", Category: "Frontend Framework"},
		{ID: 7, Code: "database_sql", Name: "SQL", SkillType: "database", Category: "Database"},
		// The embedding keeps the vector tier reachable for unknown mentions.
		{ID: 8, Code: "database_postgresql", Name: "PostgreSQL", SkillType: "database", Category: "Database", ParentID: &sqlID, Embedding: []float32{0.12, 0.47, 0.88}},
	}
}

func rankingImplications() []types.SkillImplication {
	return []types.SkillImplication{
		{FromCode: "framework_aspnet", ToCode: "framework_dotnet"},
	}
}

// candidateRow builds a row for a fixture skill with strong exact-match
// defaults; tests override fields as needed.
func candidateRow(candidateID int64, code string, totalMonths, midMonths, seniorMonths int, lastUsed time.Time) CandidateSkillRow {
	for _, s := range rankingSkills() {
		if s.Code == code {
			return CandidateSkillRow{
				CandidateID:         candidateID,
				MasterSkillID:       s.ID,
				SkillCode:           s.Code,
				SkillType:           s.SkillType,
				Category:            s.Category,
				TotalMonths:         totalMonths,
				MidMonths:           midMonths,
				SeniorMonths:        seniorMonths,
				LastUsed:            lastUsed,
				MaxEvidenceStrength: 3,
				EvidenceSources:     []string{types.SourceResponsibility, types.SourceSkillsSection},
				NormalizationMethod: types.MethodExact,
			}
		}
	}
	panic("unknown fixture skill " + code)
}

// testClock pins ranking time so recency math is reproducible.
func testClock() time.Time {
	return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func newTestEngine(store Store, embed matching.EmbedFunc) *Engine {
	index := taxonomy.NewIndex(rankingSkills(), rankingImplications())
	return NewEngine(store, index, matching.New(index, embed), testClock)
}

func hardSkill(raw, hint string, minMonths int) types.Requirement {
	return types.Requirement{
		RawSkill:         raw,
		SkillTypeHint:    hint,
		MinMonths:        &minMonths,
		ExpectedEvidence: types.EvidenceExperienceRole,
		RequirementLevel: types.RequirementHard,
		Source:           types.SkillSourceExplicit,
	}
}

func softSkill(raw, hint string) types.Requirement {
	minMonths := 0
	return types.Requirement{
		RawSkill:         raw,
		SkillTypeHint:    hint,
		MinMonths:        &minMonths,
		ExpectedEvidence: types.EvidenceResumeSkill,
		RequirementLevel: types.RequirementSoft,
		Source:           types.SkillSourceInferred,
	}
}

func categoryReq(category string, minRequired int, level string) types.Requirement {
	return types.Requirement{
		GroupID:          "grp_" + category,
		GroupType:        "category_any_of",
		Category:         category,
		MinRequired:      minRequired,
		RequirementLevel: level,
		Source:           types.SkillSourceExplicit,
	}
}

func jobProfile(seniority string, reqs ...types.Requirement) *types.JobSkillProfile {
	return &types.JobSkillProfile{
		RoleContext:  "Product engineering team building web services",
		JobMetadata:  types.JobMetadata{PrimaryDomain: "Software Engineering", SeniorityLevel: seniority},
		Requirements: reqs,
	}
}
