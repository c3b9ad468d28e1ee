package profile

import (
	"sort"
	"time"

	"github.com/jonathan/candidate-matcher/internal/textnorm"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// BuildRoles turns raw experience into verified candidate roles with
// deterministic durations and resolved end dates. Technologies are
// canonicalized and deduplicated.
func BuildRoles(rawExperience []types.RawExperienceItem, refDate time.Time) []types.CandidateRole {
	roles := make([]types.CandidateRole, 0, len(rawExperience))

	for _, raw := range rawExperience {
		end, ok := ResolveEndDate(raw.EndDateRaw, refDate)
		if !ok {
			end = refDate
		}

		roles = append(roles, types.CandidateRole{
			Title:                  raw.JobTitle,
			VerifiedDurationMonths: RoleDuration(raw.StartDateRaw, raw.EndDateRaw, refDate),
			StartDateRaw:           raw.StartDateRaw,
			EndDate:                end.Format("2006-01-02"),
			RawTechnologies:        canonicalTechnologies(raw.Technologies),
			Domains:                raw.Domains,
		})
	}

	return roles
}

// canonicalTechnologies canonicalizes and deduplicates a technology list,
// sorted for stable output.
func canonicalTechnologies(technologies []string) []string {
	seen := make(map[string]bool, len(technologies))
	for _, tech := range technologies {
		if canonical := textnorm.Canonicalize(tech); canonical != "" {
			seen[canonical] = true
		}
	}

	out := make([]string, 0, len(seen))
	for tech := range seen {
		out = append(out, tech)
	}
	sort.Strings(out)
	return out
}
