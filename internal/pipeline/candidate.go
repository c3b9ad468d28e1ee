package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/candidate-matcher/internal/profile"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// candidateResult is the stored result payload of a completed ingestion job.
type candidateResult struct {
	Profile *types.CandidateProfile `json:"profile"`
}

// RunCandidate ingests one resume PDF: section extraction, identity and
// experience recovery, deterministic profile building, skill aggregation,
// and persistence. It returns the verified profile that becomes the job
// result.
func (d *Deps) RunCandidate(ctx context.Context, pdf []byte, onProgress ProgressFunc) (*types.CandidateProfile, error) {
	report(onProgress, 10, "Parsing resume document")
	fmt.Printf("Step 1/6: Parsing resume document (%d bytes)...\n", len(pdf))
	chunks, err := d.Extractor.Sections(ctx, pdf)
	if err != nil {
		return nil, fmt.Errorf("section extraction failed: %w", err)
	}

	report(onProgress, 20, "Recovering candidate identity")
	fmt.Printf("Step 2/6: Recovering candidate identity...\n")
	identity, err := d.Extractor.Identity(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("identity extraction failed: %w", err)
	}

	report(onProgress, 40, "Extracting work experience")
	fmt.Printf("Step 3/6: Extracting work experience...\n")
	rawExperience, err := d.Extractor.RawExperience(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("experience extraction failed: %w", err)
	}

	report(onProgress, 60, "Building professional profile")
	fmt.Printf("Step 4/6: Building professional profile (%d roles)...\n", len(rawExperience))
	refDate := d.Now()
	roles := profile.BuildRoles(rawExperience, refDate)

	report(onProgress, 80, "Aggregating skill evidence")
	fmt.Printf("Step 5/6: Aggregating skill evidence...\n")
	aggregator := profile.NewAggregator(d.Matcher, refDate)
	for _, role := range rawExperience {
		if err := aggregator.ProcessRole(ctx, role); err != nil {
			return nil, fmt.Errorf("skill aggregation failed: %w", err)
		}
	}
	metrics, err := aggregator.Finalize()
	if err != nil {
		return nil, fmt.Errorf("skill aggregation failed: %w", err)
	}

	report(onProgress, 90, "Saving to database")
	fmt.Printf("Step 6/6: Saving profile (%d skills) to database...\n", len(metrics))
	if rawExperience == nil {
		rawExperience = []types.RawExperienceItem{}
	}
	experienceJSON, err := json.Marshal(rawExperience)
	if err != nil {
		return nil, fmt.Errorf("failed to encode raw experience: %w", err)
	}
	candidateID, err := d.Candidates.InsertCandidate(ctx, identity.FullName, identity.Email, experienceJSON)
	if err != nil {
		return nil, err
	}
	if err := d.Candidates.UpsertCandidateSkills(ctx, candidateID, metrics); err != nil {
		return nil, err
	}

	result := &types.CandidateProfile{
		CandidateID: candidateID,
		FullName:    identity.FullName,
		Roles:       roles,
		SkillCount:  len(metrics),
	}
	if d.Verbose && d.Printer != nil {
		d.Printer.PrintCandidateProfile(result)
	}
	return result, nil
}
