package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-matcher/internal/types"
)

func TestBuildRoles(t *testing.T) {
	raw := []types.RawExperienceItem{
		{
			JobTitle:     "Senior Engineer",
			StartDateRaw: "2022-01",
			EndDateRaw:   "2024-01",
			Technologies: []string{"Java", ".NET", "java"},
			Domains:      []string{"fintech"},
		},
		{
			JobTitle:     "Engineer",
			StartDateRaw: "2024-02",
			EndDateRaw:   "Present",
		},
	}

	roles := BuildRoles(raw, refDate())
	require.Len(t, roles, 2)

	assert.Equal(t, "Senior Engineer", roles[0].Title)
	assert.Equal(t, 24, roles[0].VerifiedDurationMonths)
	assert.Equal(t, "2024-01-01", roles[0].EndDate)
	// Canonicalized, deduplicated, sorted.
	assert.Equal(t, []string{"java", "net"}, roles[0].RawTechnologies)
	assert.Equal(t, []string{"fintech"}, roles[0].Domains)

	assert.Equal(t, 23, roles[1].VerifiedDurationMonths)
	assert.Equal(t, "2026-01-01", roles[1].EndDate)
}

func TestBuildRolesUnparseableEndDate(t *testing.T) {
	roles := BuildRoles([]types.RawExperienceItem{
		{JobTitle: "Engineer", StartDateRaw: "2022-01", EndDateRaw: "whenever"},
	}, refDate())

	require.Len(t, roles, 1)
	assert.Equal(t, 0, roles[0].VerifiedDurationMonths)
	assert.Equal(t, "2026-01-01", roles[0].EndDate)
}

func TestBuildRolesEmpty(t *testing.T) {
	assert.Empty(t, BuildRoles(nil, refDate()))
}
