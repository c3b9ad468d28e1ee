package ranking

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/jonathan/candidate-matcher/internal/matching"
	"github.com/jonathan/candidate-matcher/internal/taxonomy"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// DefaultLimit caps the result list when the caller does not.
const DefaultLimit = 50

// Engine gates and scores candidates against parsed job profiles. It is
// built once per taxonomy snapshot and is safe for concurrent use.
type Engine struct {
	store   Store
	index   *taxonomy.Index
	matcher *matching.Matcher
	now     func() time.Time
}

// NewEngine creates a ranking engine. The now function drives recency
// cutoffs and can be fixed in tests; nil means time.Now.
func NewEngine(store Store, index *taxonomy.Index, matcher *matching.Matcher, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{store: store, index: index, matcher: matcher, now: now}
}

// resolvedRequirement caches the per-profile resolution work shared by every
// candidate: the composite weight and, for skill requirements, the
// acceptable-id set derived from the taxonomy.
type resolvedRequirement struct {
	req           *types.Requirement
	weight        float64
	acceptableIDs map[int64]bool
}

// requirementOutcome is one requirement's result for one candidate, carrying
// the raw contribution that ranks alongside the presentation fields.
type requirementOutcome struct {
	name       string
	kind       string
	matched    bool
	months     int
	lastUsed   time.Time
	weight     float64
	rowScore   float64
	recency    float64
	competency float64
	method     string
	reason     string
	verified   bool
}

// Rank gates and scores candidates against the profile and returns the
// consumer response, best first. A limit of zero or less means DefaultLimit.
// Per-candidate faults drop the candidate from the results; only whole-query
// store failures propagate.
func (e *Engine) Rank(ctx context.Context, profile *types.JobSkillProfile, limit int) (*types.MatchResponse, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	eligible, err := e.EligibleCandidates(ctx, profile)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return &types.MatchResponse{Results: []types.RankedCandidate{}, RoleContext: profile.RoleContext}, nil
	}
	log.Printf("[RANKING] %d eligible candidates", len(eligible))

	weights, err := e.store.GetRoleSkillTypeWeights(ctx, profile.JobMetadata.PrimaryDomain, profile.JobMetadata.SeniorityLevel)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(eligible))
	for id := range eligible {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	names, err := e.store.GetCandidateNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := e.now()
	resolved := e.resolveRequirements(ctx, profile, weights)
	maxScore := maxPossibleScore(resolved)

	scored := make([]scoredCandidate, 0, len(ids))
	for _, id := range ids {
		name, ok := names[id]
		if !ok {
			log.Printf("[RANKING] dropping candidate %d, no candidate record", id)
			continue
		}
		rows, err := e.store.GetCandidateSkills(ctx, id)
		if err != nil {
			log.Printf("[RANKING] dropping candidate %d: %v", id, err)
			continue
		}
		total, outcomes := scoreCandidate(rows, resolved, now)
		scored = append(scored, buildResult(id, name, total, maxScore, outcomes))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := &scored[i], &scored[j]
		if a.result.Score != b.result.Score {
			return a.result.Score > b.result.Score
		}
		if a.tieMonths != b.tieMonths {
			return a.tieMonths > b.tieMonths
		}
		if !a.tieLastUsed.Equal(b.tieLastUsed) {
			return a.tieLastUsed.After(b.tieLastUsed)
		}
		return a.result.CandidateID < b.result.CandidateID
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	results := make([]types.RankedCandidate, 0, len(scored))
	for i := range scored {
		results = append(results, scored[i].result)
	}
	return &types.MatchResponse{Results: results, RoleContext: profile.RoleContext}, nil
}

// resolveRequirements matches every requirement's raw skill once. A skill
// requirement that fails resolution keeps a nil acceptable set and scores as
// unmatched for every candidate.
func (e *Engine) resolveRequirements(ctx context.Context, profile *types.JobSkillProfile, weights map[string]float64) []resolvedRequirement {
	resolved := make([]resolvedRequirement, 0, len(profile.Requirements))
	for i := range profile.Requirements {
		req := &profile.Requirements[i]
		rr := resolvedRequirement{req: req, weight: compositeWeight(weights, req)}
		if !req.IsCategory() {
			match, err := e.matcher.Match(ctx, req.RawSkill, profile.RoleContext)
			switch {
			case err != nil:
				log.Printf("[RANKING] scoring %q degraded, counts as unmatched: %v", req.RawSkill, err)
			case match.Matched():
				rr.acceptableIDs = e.index.AcceptableIDs(match.SkillCode)
			}
		}
		resolved = append(resolved, rr)
	}
	return resolved
}

// maxPossibleScore sums composite weights over all requirements; a candidate
// matching everything at full factors normalizes to 100.
func maxPossibleScore(resolved []resolvedRequirement) float64 {
	sum := 0.0
	for _, rr := range resolved {
		sum += rr.weight
	}
	return roundTo(sum, 4)
}

// scoreCandidate evaluates every requirement against one candidate's rows.
// Sums run in requirement-declaration order so output is reproducible.
func scoreCandidate(rows []CandidateSkillRow, resolved []resolvedRequirement, now time.Time) (float64, []requirementOutcome) {
	byID := make(map[int64]*CandidateSkillRow, len(rows))
	byCategory := make(map[string][]*CandidateSkillRow)
	for i := range rows {
		row := &rows[i]
		byID[row.MasterSkillID] = row
		byCategory[row.Category] = append(byCategory[row.Category], row)
	}

	total := 0.0
	outcomes := make([]requirementOutcome, 0, len(resolved))
	for _, rr := range resolved {
		var row *CandidateSkillRow
		if rr.req.IsCategory() {
			row = bestRow(byCategory[rr.req.Category])
		} else {
			row = bestAcceptable(byID, rr.acceptableIDs)
		}

		if row == nil {
			outcomes = append(outcomes, unmatchedOutcome(rr))
			continue
		}

		total += rawContribution(rr.weight, row, rr.req.MinMonthsValue(), now)
		comp := computeCompetency(row.TotalMonths, row.LastUsed, now, rr.weight)

		reason := explainMatch(row)
		if rr.req.IsCategory() {
			reason = "via " + row.SkillCode + "; " + reason
		}

		outcomes = append(outcomes, requirementOutcome{
			name:       requirementName(rr.req),
			kind:       requirementKind(rr.req),
			matched:    true,
			months:     row.TotalMonths,
			lastUsed:   row.LastUsed,
			weight:     rr.weight,
			rowScore:   roundTo(comp.final, 2),
			recency:    roundTo(recencyFactor(now, row.LastUsed)*100, 1),
			competency: roundTo(comp.competency*100, 1),
			method:     row.NormalizationMethod,
			reason:     reason,
			verified:   hasSource(row.EvidenceSources, types.SourceSkillsSection),
		})
	}
	return total, outcomes
}

// bestAcceptable picks the candidate's strongest row within an acceptable-id
// set, so a requirement satisfied through the taxonomy or an implication is
// scored on the row that earned eligibility.
func bestAcceptable(byID map[int64]*CandidateSkillRow, acceptable map[int64]bool) *CandidateSkillRow {
	var best *CandidateSkillRow
	for id := range acceptable {
		if row, ok := byID[id]; ok && (best == nil || betterRow(row, best)) {
			best = row
		}
	}
	return best
}

// bestRow picks the row greatest by (total months, evidence strength).
func bestRow(rows []*CandidateSkillRow) *CandidateSkillRow {
	var best *CandidateSkillRow
	for _, row := range rows {
		if best == nil || betterRow(row, best) {
			best = row
		}
	}
	return best
}

// betterRow orders rows by months, then strength, then skill code so exact
// ties resolve the same way on every run.
func betterRow(a, b *CandidateSkillRow) bool {
	if a.TotalMonths != b.TotalMonths {
		return a.TotalMonths > b.TotalMonths
	}
	if a.MaxEvidenceStrength != b.MaxEvidenceStrength {
		return a.MaxEvidenceStrength > b.MaxEvidenceStrength
	}
	return a.SkillCode < b.SkillCode
}

func unmatchedOutcome(rr resolvedRequirement) requirementOutcome {
	reason := reasonSkillMissing
	if rr.req.IsCategory() {
		reason = reasonCategoryMissing
	}
	return requirementOutcome{
		name:   requirementName(rr.req),
		kind:   requirementKind(rr.req),
		weight: rr.weight,
		method: types.MatchTypeUnmatched,
		reason: reason,
	}
}

func requirementName(req *types.Requirement) string {
	if req.IsCategory() {
		return req.Category
	}
	return req.RawSkill
}

func requirementKind(req *types.Requirement) string {
	if req.IsCategory() {
		return types.BreakdownCategory
	}
	return types.BreakdownSkill
}

// scoredCandidate pairs a built result with its tie-break keys: summed
// matched months and the most recent last-used date.
type scoredCandidate struct {
	result      types.RankedCandidate
	tieMonths   int
	tieLastUsed time.Time
}

// buildResult projects requirement outcomes into the consumer-facing shape.
func buildResult(id int64, name string, total, maxScore float64, outcomes []requirementOutcome) scoredCandidate {
	score := 0.0
	if maxScore > 0 {
		score = roundTo(total/maxScore*100, 4)
	}

	matches := make([]string, 0, len(outcomes))
	unmatched := make([]string, 0)
	breakdown := make([]types.SkillBreakdownRow, 0, len(outcomes))
	tieMonths := 0
	var tieLastUsed time.Time

	for _, o := range outcomes {
		row := types.SkillBreakdownRow{
			SkillName:        o.name,
			MatchType:        o.method,
			Type:             o.kind,
			Matched:          o.matched,
			Weight:           o.weight,
			ExperienceMonths: o.months,
			RecencyScore:     o.recency,
			CompetencyScore:  o.competency,
			Reason:           o.reason,
		}
		if maxScore > 0 {
			row.ContributionToTotal = roundTo(o.rowScore*100/maxScore, 2)
		}
		if o.matched {
			row.LastUsedDate = o.lastUsed.Format("01-02-2006")
			marker := "(inferred)"
			if o.verified {
				marker = "(verified)"
			}
			matches = append(matches, o.name+" "+marker)
			tieMonths += o.months
			if o.lastUsed.After(tieLastUsed) {
				tieLastUsed = o.lastUsed
			}
		} else {
			unmatched = append(unmatched, o.name)
		}
		breakdown = append(breakdown, row)
	}

	return scoredCandidate{
		result: types.RankedCandidate{
			Name:                name,
			CandidateID:         id,
			Score:               score,
			Matches:             matches,
			Confidence:          types.ConfidenceLabel(score),
			SkillBreakdown:      breakdown,
			UnmatchedSkills:     unmatched,
			TotalJDSkills:       len(outcomes),
			MatchedSkillCount:   len(matches),
			UnmatchedSkillCount: len(unmatched),
		},
		tieMonths:   tieMonths,
		tieLastUsed: tieLastUsed,
	}
}
