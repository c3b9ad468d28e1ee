package profile

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/jonathan/candidate-matcher/internal/matching"
	"github.com/jonathan/candidate-matcher/internal/textnorm"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// sourceEvidenceWeight feeds evidence_score and the blended confidence.
// Implicit mentions are recorded but contribute nothing.
var sourceEvidenceWeight = map[string]float64{
	types.SourceSkillsSection:  1.0,
	types.SourceTechnologyList: 0.9,
	types.SourceResponsibility: 0.7,
	types.SourceImplicit:       0.0,
}

// evidenceStrength ranks how strongly a source demonstrates the skill.
// Sources not listed rank 0.
var evidenceStrength = map[string]int{
	types.SourceResponsibility: 3,
	types.SourceRoleTitle:      2,
	types.SourceSkillsSection:  1,
}

// roleTitleSkillMap grants presence credit for skills that broad role titles
// imply but resume bodies rarely spell out. Keys are canonicalized titles,
// matched whole. Presence only: months always come from mentions.
var roleTitleSkillMap = map[string][]string{
	"dot net developer":  {"framework_dotnet"},
	"java developer":     {"language_java"},
	"python developer":   {"language_python"},
	"frontend developer": {"web_html", "web_css", "language_javascript"},
	"backend developer":  {},
}

// accumulator collects per-skill evidence across roles before finalization.
type accumulator struct {
	juniorMonths        int
	midMonths           int
	seniorMonths        int
	firstUsed           time.Time
	lastUsed            time.Time
	evidenceScore       float64
	evidenceSources     map[string]bool
	maxEvidenceStrength int
	confidenceScores    []float64
	methods             []string
	hasPresence         bool
}

func newAccumulator() *accumulator {
	return &accumulator{
		evidenceSources:     make(map[string]bool),
		maxEvidenceStrength: 1,
	}
}

// recomputeStrength resets max_evidence_strength from the observed sources.
func (a *accumulator) recomputeStrength() {
	strength := 0
	for src := range a.evidenceSources {
		if s := evidenceStrength[src]; s > strength {
			strength = s
		}
	}
	a.maxEvidenceStrength = strength
}

// addMonths credits the role duration to the seniority band.
func (a *accumulator) addMonths(band string, months int) {
	switch band {
	case types.BandJunior:
		a.juniorMonths += months
	case types.BandSenior:
		a.seniorMonths += months
	default:
		a.midMonths += months
	}
}

// observeDates widens the first/last used window. Zero times are ignored.
func (a *accumulator) observeDates(start, end time.Time) {
	if !start.IsZero() && (a.firstUsed.IsZero() || start.Before(a.firstUsed)) {
		a.firstUsed = start
	}
	if !end.IsZero() && (a.lastUsed.IsZero() || end.After(a.lastUsed)) {
		a.lastUsed = end
	}
}

// Aggregator folds role mentions into per-skill metrics for one candidate.
type Aggregator struct {
	matcher *matching.Matcher
	refDate time.Time
	skills  map[string]*accumulator
}

// NewAggregator creates an Aggregator. The reference date resolves ongoing
// roles and keeps re-ingestion deterministic.
func NewAggregator(matcher *matching.Matcher, refDate time.Time) *Aggregator {
	return &Aggregator{
		matcher: matcher,
		refDate: refDate,
		skills:  make(map[string]*accumulator),
	}
}

func (ag *Aggregator) acc(skillCode string) *accumulator {
	a, ok := ag.skills[skillCode]
	if !ok {
		a = newAccumulator()
		ag.skills[skillCode] = a
	}
	return a
}

// ProcessRole folds one role's mentions into the accumulators. Unresolved
// mentions are dropped with a log line; only embedding failures error.
func (ag *Aggregator) ProcessRole(ctx context.Context, role types.RawExperienceItem) error {
	title := textnorm.CanonicalizeJobTitle(role.JobTitle)
	band := InferBand(title)
	months := RoleDuration(role.StartDateRaw, role.EndDateRaw, ag.refDate)
	start, _ := ParseRoleDate(role.StartDateRaw)
	end, _ := ResolveEndDate(role.EndDateRaw, ag.refDate)

	ag.creditRoleTitle(title)

	for _, mention := range RoleMentions(role) {
		match, err := ag.matcher.Match(ctx, mention.RawName, mention.Context)
		if err != nil {
			return err
		}
		if !match.Matched() {
			log.Printf("[PROFILE] dropped mention %q (%s)", mention.RawName, match.Method)
			continue
		}

		a := ag.acc(match.SkillCode)
		a.addMonths(band, months)
		a.observeDates(start, end)

		weight := sourceEvidenceWeight[mention.Source]
		a.evidenceScore += weight
		a.evidenceSources[mention.Source] = true
		if mention.Source == types.SourceSkillsSection {
			a.hasPresence = true
		}
		a.recomputeStrength()

		blended := (0.6*mention.Confidence + 0.4*match.Confidence) * weight
		a.confidenceScores = append(a.confidenceScores, blended)
		a.methods = append(a.methods, match.Method)
	}

	return nil
}

// creditRoleTitle marks presence for skills the canonicalized title implies.
func (ag *Aggregator) creditRoleTitle(title string) {
	for _, code := range roleTitleSkillMap[title] {
		a := ag.acc(code)
		a.hasPresence = true
		a.evidenceSources[types.SourceRoleTitle] = true
		a.recomputeStrength()
	}
}

// Finalize produces the per-skill metrics, sorted by skill code for
// deterministic persistence. Aggregation invariants are validated; a
// violation aborts the candidate.
func (ag *Aggregator) Finalize() ([]types.SkillMetrics, error) {
	codes := make([]string, 0, len(ag.skills))
	for code := range ag.skills {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	metrics := make([]types.SkillMetrics, 0, len(codes))
	for _, code := range codes {
		a := ag.skills[code]

		sources := make([]string, 0, len(a.evidenceSources))
		for src := range a.evidenceSources {
			sources = append(sources, src)
		}
		sort.Strings(sources)

		m := types.SkillMetrics{
			SkillCode:               code,
			JuniorMonths:            a.juniorMonths,
			MidMonths:               a.midMonths,
			SeniorMonths:            a.seniorMonths,
			TotalMonths:             a.juniorMonths + a.midMonths + a.seniorMonths,
			FirstUsed:               a.firstUsed,
			LastUsed:                a.lastUsed,
			EvidenceScore:           a.evidenceScore,
			EvidenceSources:         sources,
			MaxEvidenceStrength:     a.maxEvidenceStrength,
			ConfidenceScores:        a.confidenceScores,
			MatchConfidence:         mean(a.confidenceScores),
			NormalizationMethod:     resolveMethod(a.methods),
			NormalizationConfidence: maxOf(a.confidenceScores),
			HasPresence:             a.hasPresence,
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}

	return metrics, nil
}

// resolveMethod picks the strongest normalization method observed.
func resolveMethod(methods []string) string {
	best := types.MethodNone
	for _, m := range methods {
		if types.MethodPriority(m) > types.MethodPriority(best) {
			best = m
		}
	}
	return best
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func maxOf(values []float64) float64 {
	best := 0.0
	for _, v := range values {
		if v > best {
			best = v
		}
	}
	return best
}
