package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMetrics() SkillMetrics {
	return SkillMetrics{
		SkillCode:           "language_java",
		MidMonths:           18,
		SeniorMonths:        6,
		TotalMonths:         24,
		FirstUsed:           time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		LastUsed:            time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EvidenceScore:       1.0,
		EvidenceSources:     []string{"skills_section"},
		MaxEvidenceStrength: 1,
		ConfidenceScores:    []float64{1.0},
		MatchConfidence:     1.0,
		NormalizationMethod: MethodExact,
		HasPresence:         true,
	}
}

func TestSkillMetricsValidate(t *testing.T) {
	m := validMetrics()
	require.NoError(t, m.Validate())
}

func TestSkillMetricsValidateBandSum(t *testing.T) {
	m := validMetrics()
	m.TotalMonths = 30

	err := m.Validate()
	require.Error(t, err)
	var inv *ErrInvariantViolation
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "language_java", inv.SkillCode)
}

func TestSkillMetricsValidateDateOrder(t *testing.T) {
	m := validMetrics()
	m.FirstUsed = m.LastUsed.AddDate(1, 0, 0)

	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first_used")
}

func TestSkillMetricsValidateMonthsWithoutEvidence(t *testing.T) {
	m := validMetrics()
	m.EvidenceSources = nil

	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evidence")
}
