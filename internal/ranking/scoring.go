package ranking

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// Requirement-level weights and scoring constants.
const (
	hardWeight = 1.0
	softWeight = 0.4

	// vectorPenalty discounts rows whose stored skill match was semantic
	// rather than textual.
	vectorPenalty = 0.85

	// depthSaturationMonths is where competency depth stops growing.
	depthSaturationMonths = 36.0
)

// Unmatched-row reason templates.
const (
	reasonSkillMissing    = "Skill not present on candidate profile"
	reasonCategoryMissing = "No skills in required category"
)

// jdWeight weighs a requirement by its level. Soft requirements still score
// but at a fraction of a hard one.
func jdWeight(level string) float64 {
	if level == types.RequirementHard {
		return hardWeight
	}
	return softWeight
}

// skillTypeWeight resolves the role-adjusted multiplier for a requirement.
// Category requirements weigh as frameworks; unknown types fall back to 1.0.
func skillTypeWeight(weights map[string]float64, req *types.Requirement) float64 {
	hint := req.SkillTypeHint
	if req.IsCategory() || hint == "" {
		hint = types.HintFramework
	}
	if w, ok := weights[hint]; ok {
		return w
	}
	return 1.0
}

// compositeWeight is the per-requirement cap on contribution.
func compositeWeight(weights map[string]float64, req *types.Requirement) float64 {
	return jdWeight(req.RequirementLevel) * skillTypeWeight(weights, req)
}

// experienceFactor saturates the log of how far the candidate's months
// exceed the requirement's minimum. Category requirements carry no minimum
// and pass zero, which degrades to ln(1 + months).
func experienceFactor(totalMonths, minMonths int) float64 {
	if minMonths < 1 {
		minMonths = 1
	}
	return math.Min(1.0, math.Log(1+float64(totalMonths)/float64(minMonths)))
}

// recencyFactor discounts by months since last use, measured as elapsed days
// over 30.
func recencyFactor(now, lastUsed time.Time) float64 {
	monthsSince := now.Sub(lastUsed).Hours() / 24 / 30
	switch {
	case monthsSince <= 12:
		return 1.0
	case monthsSince <= 36:
		return 0.8
	case monthsSince <= 60:
		return 0.6
	default:
		return 0.3
	}
}

// evidenceFactor maps max evidence strength onto [0,1]; responsibility
// evidence saturates it.
func evidenceFactor(strength int) float64 {
	return math.Min(float64(strength)/3.0, 1.0)
}

// rawContribution is the product that ranks candidates: composite weight
// discounted by experience, recency, evidence, and the vector penalty.
func rawContribution(composite float64, row *CandidateSkillRow, minMonths int, now time.Time) float64 {
	penalty := 1.0
	if row.NormalizationMethod == types.MethodVector {
		penalty = vectorPenalty
	}
	return composite *
		experienceFactor(row.TotalMonths, minMonths) *
		recencyFactor(now, row.LastUsed) *
		evidenceFactor(row.MaxEvidenceStrength) *
		penalty
}

// competencyScore is the reported depth-times-recency measure. Its weighted
// final feeds the per-row score in the breakdown; the raw contribution is
// what ranks.
type competencyScore struct {
	depth      float64
	recency    float64
	competency float64
	final      float64
}

// computeCompetency measures how established a skill is, independent of the
// requirement's minimum. The gap here is calendar months, unlike the
// day-counted recencyFactor.
func computeCompetency(months int, lastUsed, now time.Time, weight float64) competencyScore {
	depth := math.Min(1.0, float64(months)/depthSaturationMonths)
	gap := (now.Year()-lastUsed.Year())*12 + int(now.Month()) - int(lastUsed.Month())

	recency := 0.25
	switch {
	case gap < 12:
		recency = 1.0
	case gap < 48:
		recency = 0.6
	}

	competency := depth * recency
	return competencyScore{
		depth:      depth,
		recency:    recency,
		competency: competency,
		final:      competency * weight,
	}
}

// explainMatch renders the reason string for a matched row. The
// "explicitly listed by candidate" clause doubles as the verified marker in
// the matches list.
func explainMatch(row *CandidateSkillRow) string {
	reasons := []string{fmt.Sprintf("%d months experience", row.TotalMonths)}
	if row.SeniorMonths > 0 {
		reasons = append(reasons, "senior-level exposure")
	}
	if hasSource(row.EvidenceSources, types.SourceSkillsSection) {
		reasons = append(reasons, "explicitly listed by candidate")
	}
	if row.NormalizationMethod == types.MethodVector {
		reasons = append(reasons, "semantic match")
	}
	return strings.Join(reasons, "; ")
}

func hasSource(sources []string, want string) bool {
	for _, s := range sources {
		if s == want {
			return true
		}
	}
	return false
}

// roundTo rounds to the given number of decimal places, half away from zero.
func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
