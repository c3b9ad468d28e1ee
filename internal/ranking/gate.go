package ranking

import (
	"context"
	"log"
	"time"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// RecencyMonthsLimit bounds how stale a skill may be and still count toward
// eligibility. The cutoff is computed as limit * 30 days before the engine's
// current date.
const RecencyMonthsLimit = 36

// SeniorityThreshold is the experience profile a JD seniority level demands,
// in months. Total describes the level; the gate compares the mid and senior
// bands together with the requirement's own min_months.
type SeniorityThreshold struct {
	Total  int
	Mid    int
	Senior int
}

var seniorityThresholds = map[string]SeniorityThreshold{
	types.SeniorityJunior: {Total: 6, Mid: 0, Senior: 0},
	types.SeniorityMid:    {Total: 18, Mid: 12, Senior: 0},
	types.SenioritySenior: {Total: 36, Mid: 24, Senior: 12},
	types.SeniorityLead:   {Total: 60, Mid: 36, Senior: 24},
}

// requiredStrength is the minimum max_evidence_strength that substitutes for
// months: responsibility-or-title evidence for hard requirements, a skills
// section listing for soft ones.
func requiredStrength(level string) int {
	if level == types.RequirementHard {
		return 2
	}
	return 1
}

// EligibleCandidates runs the hard-requirement gate and returns the ids
// surviving every requirement. Soft requirements never filter. A skill
// requirement that does not resolve against the taxonomy is skipped: a JD
// naming something unknown cannot exclude anyone. The final set is the
// intersection across requirements, with an early exit once it is empty.
func (e *Engine) EligibleCandidates(ctx context.Context, profile *types.JobSkillProfile) (map[int64]bool, error) {
	hard := profile.HardRequirements()
	if len(hard) == 0 {
		return map[int64]bool{}, nil
	}

	threshold := seniorityThresholds[profile.JobMetadata.SeniorityLevel]
	cutoff := e.now().AddDate(0, 0, -RecencyMonthsLimit*30)

	var eligible map[int64]bool
	for i := range hard {
		ids, resolved, err := e.requirementCandidates(ctx, &hard[i], profile.RoleContext, threshold, cutoff)
		if err != nil {
			return nil, err
		}
		if !resolved {
			continue
		}
		eligible = intersect(eligible, ids)
		if len(eligible) == 0 {
			return map[int64]bool{}, nil
		}
	}

	if eligible == nil {
		return map[int64]bool{}, nil
	}
	return eligible, nil
}

// requirementCandidates evaluates one hard requirement against the store.
// The second return is false when the requirement could not be resolved and
// must not constrain the eligible set.
func (e *Engine) requirementCandidates(ctx context.Context, req *types.Requirement, roleContext string, threshold SeniorityThreshold, cutoff time.Time) (map[int64]bool, bool, error) {
	strength := requiredStrength(req.RequirementLevel)

	if req.IsCategory() {
		ids, err := e.store.QueryCategoryCandidates(ctx, CategoryFilter{
			Category:         req.Category,
			MinRequired:      req.MinRequired,
			RequiredStrength: strength,
			MinMidMonths:     threshold.Mid,
			MinSeniorMonths:  threshold.Senior,
			RecencyCutoff:    cutoff,
		})
		if err != nil {
			return nil, false, err
		}
		return ids, true, nil
	}

	match, err := e.matcher.Match(ctx, req.RawSkill, roleContext)
	if err != nil {
		log.Printf("[RANKING] gate skipping %q, resolution degraded: %v", req.RawSkill, err)
		return nil, false, nil
	}
	if !match.Matched() {
		log.Printf("[RANKING] gate skipping %q, not in taxonomy (%s)", req.RawSkill, match.Method)
		return nil, false, nil
	}

	ids, err := e.store.QueryEligibleCandidates(ctx, SkillFilter{
		AcceptableIDs:    e.index.AcceptableIDs(match.SkillCode),
		MinMonths:        req.MinMonthsValue(),
		RequiredStrength: strength,
		MinMidMonths:     threshold.Mid,
		MinSeniorMonths:  threshold.Senior,
		RecencyCutoff:    cutoff,
	})
	if err != nil {
		return nil, false, err
	}
	return ids, true, nil
}

// intersect narrows a to the ids also present in b. A nil a means no
// requirement has constrained the set yet, so b is taken whole.
func intersect(a, b map[int64]bool) map[int64]bool {
	if a == nil {
		return b
	}
	out := make(map[int64]bool)
	for id := range a {
		if b[id] {
			out[id] = true
		}
	}
	return out
}
