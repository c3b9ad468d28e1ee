// Package types provides type definitions for structured data used throughout the candidate-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Breakdown row kinds.
const (
	BreakdownSkill    = "Skill"
	BreakdownCategory = "Category"
)

// MatchTypeUnmatched marks a breakdown row whose requirement found no
// candidate skill. Matched rows carry the normalization method instead.
const MatchTypeUnmatched = "Unmatched"

// SkillBreakdownRow explains one requirement's contribution to a candidate's
// score. LastUsedDate is formatted MM-DD-YYYY, or empty when unmatched.
type SkillBreakdownRow struct {
	SkillName           string  `json:"skill_name"`
	MatchType           string  `json:"match_type"`
	Type                string  `json:"type"`
	Matched             bool    `json:"matched"`
	LastUsedDate        string  `json:"last_used_date"`
	Weight              float64 `json:"weight"`
	ExperienceMonths    int     `json:"experience_months"`
	RecencyScore        float64 `json:"recency_score"`
	CompetencyScore     float64 `json:"competency_score"`
	ContributionToTotal float64 `json:"contribution_to_total"`
	Reason              string  `json:"reason"`
}

// RankedCandidate is one entry in the ranker output, ordered by score.
type RankedCandidate struct {
	Name                string              `json:"name"`
	CandidateID         int64               `json:"candidate_id"`
	Score               float64             `json:"score"`
	Matches             []string            `json:"matches"`
	Confidence          string              `json:"confidence"`
	SkillBreakdown      []SkillBreakdownRow `json:"skill_breakdown"`
	UnmatchedSkills     []string            `json:"unmatched_skills"`
	TotalJDSkills       int                 `json:"total_jd_skills"`
	MatchedSkillCount   int                 `json:"matched_skill_count"`
	UnmatchedSkillCount int                 `json:"unmatched_skill_count"`
}

// MatchResponse is the full result of an employer matching job.
type MatchResponse struct {
	Results     []RankedCandidate `json:"results"`
	RoleContext string            `json:"role_context"`
}

// ConfidenceLabel buckets a 0-100 score into the consumer-facing match label.
func ConfidenceLabel(score float64) string {
	switch {
	case score >= 80:
		return "Strong Match"
	case score >= 60:
		return "Good Match"
	case score >= 40:
		return "Partial Match"
	default:
		return "Weak Match"
	}
}
