package pipeline

import (
	"context"
	"fmt"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// employerResult is the stored result payload of a completed matching job.
type employerResult struct {
	Matches     []types.RankedCandidate `json:"matches"`
	RoleContext string                  `json:"role_context"`
}

// RunEmployer matches candidates against one job description: LLM parsing
// into a requirement profile, hard-requirement gating, and weighted scoring.
// The response lists candidates best first, capped at limit.
func (d *Deps) RunEmployer(ctx context.Context, jdText string, limit int, onProgress ProgressFunc) (*types.MatchResponse, error) {
	report(onProgress, 10, "Analyzing job description")
	fmt.Printf("Step 1/4: Analyzing job description (%d chars)...\n", len(jdText))
	jobProfile, err := d.ParseJob(ctx, jdText)
	if err != nil {
		return nil, fmt.Errorf("job description parsing failed: %w", err)
	}

	report(onProgress, 25, "Validating extracted requirements")
	hard := 0
	for i := range jobProfile.Requirements {
		if jobProfile.Requirements[i].RequirementLevel == types.RequirementHard {
			hard++
		}
	}
	fmt.Printf("Step 2/4: Validated %d requirements (%d hard) for %s/%s role...\n",
		len(jobProfile.Requirements), hard,
		jobProfile.JobMetadata.PrimaryDomain, jobProfile.JobMetadata.SeniorityLevel)
	if d.Verbose && d.Printer != nil {
		d.Printer.PrintJobSkillProfile(jobProfile)
	}

	report(onProgress, 40, "Matching candidates to requirements")
	fmt.Printf("Step 3/4: Matching candidates to requirements...\n")
	response, err := d.Ranker.Rank(ctx, jobProfile, limit)
	if err != nil {
		return nil, fmt.Errorf("candidate ranking failed: %w", err)
	}

	report(onProgress, 80, "Formatting results")
	fmt.Printf("Step 4/4: Formatting %d results...\n", len(response.Results))
	if d.Verbose && d.Printer != nil {
		d.Printer.PrintRankedCandidates(response)
	}
	return response, nil
}
