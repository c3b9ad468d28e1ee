// Package types provides type definitions for structured data used throughout the candidate-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// SkillMetrics is the aggregated evidence for one candidate and one master
// skill. One row is persisted per (candidate, skill) pair; re-ingesting a
// resume overwrites the candidate's rows.
//
// EvidenceSources is kept sorted so rows compare equal across runs.
type SkillMetrics struct {
	SkillCode               string    `json:"skill_code"`
	JuniorMonths            int       `json:"junior_months"`
	MidMonths               int       `json:"mid_months"`
	SeniorMonths            int       `json:"senior_months"`
	TotalMonths             int       `json:"total_months"`
	FirstUsed               time.Time `json:"first_used"`
	LastUsed                time.Time `json:"last_used"`
	EvidenceScore           float64   `json:"evidence_score"`
	EvidenceSources         []string  `json:"evidence_sources"`
	MaxEvidenceStrength     int       `json:"max_evidence_strength"`
	ConfidenceScores        []float64 `json:"confidence_scores"`
	MatchConfidence         float64   `json:"match_confidence"`
	NormalizationMethod     string    `json:"normalization_method"`
	NormalizationConfidence float64   `json:"normalization_confidence"`
	HasPresence             bool      `json:"has_presence"`
}

// Validate checks the aggregation invariants before a row is persisted.
func (m *SkillMetrics) Validate() error {
	if m.TotalMonths != m.JuniorMonths+m.MidMonths+m.SeniorMonths {
		return &ErrInvariantViolation{
			SkillCode: m.SkillCode,
			Message:   "total_months disagrees with band sum",
		}
	}
	if !m.FirstUsed.IsZero() && !m.LastUsed.IsZero() && m.FirstUsed.After(m.LastUsed) {
		return &ErrInvariantViolation{
			SkillCode: m.SkillCode,
			Message:   "first_used is after last_used",
		}
	}
	if len(m.EvidenceSources) == 0 && m.TotalMonths != 0 {
		return &ErrInvariantViolation{
			SkillCode: m.SkillCode,
			Message:   "months recorded without evidence sources",
		}
	}
	return nil
}
