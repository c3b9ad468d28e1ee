// Package ranking implements the employer matching core: a hard-requirement
// eligibility gate followed by deterministic weighted scoring of the
// surviving candidates. The package performs no I/O of its own; everything it
// needs from persistence passes through the Store interface.
package ranking

import (
	"context"
	"time"
)

// CandidateSkillRow is one persisted candidate skill joined with its master
// skill. EvidenceSources is the decoded sorted array from the stored row.
type CandidateSkillRow struct {
	CandidateID         int64
	MasterSkillID       int64
	SkillCode           string
	SkillType           string
	Category            string
	TotalMonths         int
	MidMonths           int
	SeniorMonths        int
	LastUsed            time.Time
	MaxEvidenceStrength int
	EvidenceSources     []string
	NormalizationMethod string
}

// SkillFilter is the eligibility predicate for a single resolved skill
// requirement, pushed down to the store.
type SkillFilter struct {
	AcceptableIDs    map[int64]bool
	MinMonths        int
	RequiredStrength int
	MinMidMonths     int
	MinSeniorMonths  int
	RecencyCutoff    time.Time
}

// CategoryFilter is the eligibility predicate for a category requirement:
// the candidate must hold MinRequired distinct skills in Category, each
// meeting the evidence, seniority, and recency constraints.
type CategoryFilter struct {
	Category         string
	MinRequired      int
	RequiredStrength int
	MinMidMonths     int
	MinSeniorMonths  int
	RecencyCutoff    time.Time
}

// Store is the persistence surface the ranking engine consumes. Implementors
// must evaluate filters against CandidateSkills; the engine never sees rows
// it did not ask for.
type Store interface {
	// QueryEligibleCandidates returns ids of candidates holding at least one
	// skill in filter.AcceptableIDs that satisfies the filter.
	QueryEligibleCandidates(ctx context.Context, filter SkillFilter) (map[int64]bool, error)

	// QueryCategoryCandidates returns ids of candidates meeting a category
	// requirement under the filter.
	QueryCategoryCandidates(ctx context.Context, filter CategoryFilter) (map[int64]bool, error)

	// GetCandidateSkills returns all skill rows for one candidate.
	GetCandidateSkills(ctx context.Context, candidateID int64) ([]CandidateSkillRow, error)

	// GetCandidateNames resolves display names for a set of candidate ids.
	// Missing ids are absent from the returned map.
	GetCandidateNames(ctx context.Context, candidateIDs []int64) (map[int64]string, error)

	// GetRoleSkillTypeWeights returns the skill-type weight multipliers for a
	// (primary domain, seniority) pair, including rows declared for the "any"
	// seniority level.
	GetRoleSkillTypeWeights(ctx context.Context, domain, seniority string) (map[string]float64, error)
}
