package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/candidate-matcher/internal/types"
)

func intPtr(v int) *int { return &v }

func TestPrintJobSkillProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	profile := &types.JobSkillProfile{
		RoleContext: "Senior backend engineer on the payments platform",
		JobMetadata: types.JobMetadata{PrimaryDomain: "Backend", SeniorityLevel: types.SenioritySenior},
		Requirements: []types.Requirement{
			{RawSkill: "Python", MinMonths: intPtr(36), RequirementLevel: types.RequirementHard, Source: types.SkillSourceExplicit},
			{Category: "Cloud Platforms", MinRequired: 2, RequirementLevel: types.RequirementHard, Source: types.SkillSourceExplicit},
			{RawSkill: "Docker", RequirementLevel: types.RequirementSoft, Source: types.SkillSourceExplicit},
		},
	}

	p.PrintJobSkillProfile(profile)
	output := buf.String()

	assert.Contains(t, output, "PARSED JOB REQUIREMENTS")
	assert.Contains(t, output, "Backend")
	assert.Contains(t, output, "Senior")
	assert.Contains(t, output, "Python (36+ months)")
	assert.Contains(t, output, "any 2 from Cloud Platforms")
	assert.Contains(t, output, "Soft Requirements:")
	assert.Contains(t, output, "Docker")
}

func TestPrintJobSkillProfile_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobSkillProfile(nil)

	assert.Empty(t, buf.String())
}

func TestPrintRankedCandidates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	response := &types.MatchResponse{
		Results: []types.RankedCandidate{
			{
				Name:       "Ada Lovelace",
				Score:      91.5,
				Confidence: "Strong Match",
				Matches:    []string{"Python (verified)", "AWS (verified)"},
			},
			{
				Name:                "Grace Hopper",
				Score:               58.2,
				Confidence:          "Partial Match",
				Matches:             []string{"Python (verified)"},
				TotalJDSkills:       3,
				UnmatchedSkillCount: 2,
			},
		},
		RoleContext: "Backend role",
	}

	p.PrintRankedCandidates(response)
	output := buf.String()

	assert.Contains(t, output, "TOP MATCHING CANDIDATES")
	assert.Contains(t, output, "Total candidates matched: 2")
	assert.Contains(t, output, "#1  Ada Lovelace")
	assert.Contains(t, output, "Score: 91.5 (Strong Match)")
	assert.Contains(t, output, "#2  Grace Hopper")
	assert.Contains(t, output, "Unmatched: 2 of 3")
}

func TestPrintRankedCandidates_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRankedCandidates(&types.MatchResponse{})

	assert.Contains(t, buf.String(), "NO MATCHING CANDIDATES")
}

func TestPrintRankedCandidates_TruncatesToTopFive(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	results := make([]types.RankedCandidate, 8)
	for i := range results {
		results[i] = types.RankedCandidate{Name: "Candidate", Score: float64(90 - i)}
	}

	p.PrintRankedCandidates(&types.MatchResponse{Results: results})
	output := buf.String()

	assert.Contains(t, output, "... and 3 more candidates")
	assert.Equal(t, 5, strings.Count(output, "Score:"))
}

func TestPrintCandidateProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	profile := &types.CandidateProfile{
		CandidateID: 7,
		FullName:    "Ada Lovelace",
		SkillCount:  12,
		Roles: []types.CandidateRole{
			{Title: "Senior Software Engineer", VerifiedDurationMonths: 55},
			{Title: "Software Engineer", VerifiedDurationMonths: 24},
		},
	}

	p.PrintCandidateProfile(profile)
	output := buf.String()

	assert.Contains(t, output, "INGESTED CANDIDATE PROFILE")
	assert.Contains(t, output, "Ada Lovelace")
	assert.Contains(t, output, "12 distinct")
	assert.Contains(t, output, "Senior Software Engineer (55 months)")
}

func TestPrintCandidateProfile_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCandidateProfile(nil)

	assert.Empty(t, buf.String())
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	// Long values must be truncated to fit the box.
	profile := &types.CandidateProfile{
		CandidateID: 1,
		FullName:    "A Candidate With A Very Long Name That Should Be Truncated To Fit",
		Roles: []types.CandidateRole{
			{Title: "Senior Staff Principal Distinguished Engineer Level 99", VerifiedDurationMonths: 1},
		},
	}

	p.PrintCandidateProfile(profile)
	output := buf.String()

	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.True(t, strings.Contains(output, "│"))
	assert.Contains(t, output, "...")
}
