// Package extraction turns an uploaded resume PDF into the candidate's
// identity and raw work experience. The document is fed to the model as
// inline data; no local text extraction runs first. Every stage response
// passes a JSON Schema gate before it is decoded, and transient provider
// failures are retried once before the stage fails the ingestion job.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/candidate-matcher/internal/llm"
	"github.com/jonathan/candidate-matcher/internal/prompts"
	"github.com/jonathan/candidate-matcher/internal/schemas"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// PDFMIMEType is the only upload content type candidate ingestion accepts.
const PDFMIMEType = "application/pdf"

// Extraction stage names carried by ErrExtraction.
const (
	StageSections   = "sections"
	StageIdentity   = "identity"
	StageExperience = "experience"
)

// SectionChunks is the resume text partitioned into standard categories.
// Each chunk keeps its original headings so role titles and date ranges stay
// attached to their content.
type SectionChunks struct {
	ContactInfo string `json:"contact_info"`
	Summary     string `json:"summary"`
	Experience  string `json:"experience"`
	Education   string `json:"education"`
	Skills      string `json:"skills"`
	Other       string `json:"other"`
}

// Extractor runs the LLM stages of candidate ingestion: sectioning, identity
// recovery, and raw experience extraction.
type Extractor struct {
	client llm.Client
}

// New returns an Extractor backed by client.
func New(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

// Sections partitions the resume document into labeled text chunks.
func (x *Extractor) Sections(ctx context.Context, pdf []byte) (*SectionChunks, error) {
	prompt := prompts.MustGet("extraction.json", "extract-sections")

	resp, err := llm.RetryTransient(ctx, llm.TransientRetryPolicy, "extract sections",
		func(ctx context.Context) (string, error) {
			return x.client.GenerateJSONWithFile(ctx, prompt, pdf, PDFMIMEType, llm.TierStandard)
		})
	if err != nil {
		return nil, &types.ErrExtraction{Stage: StageSections, Err: err}
	}

	var chunks SectionChunks
	if err := json.Unmarshal([]byte(resp), &chunks); err != nil {
		return nil, &types.ErrExtraction{Stage: StageSections, Err: fmt.Errorf("malformed section response: %w", err)}
	}

	return &chunks, nil
}

// Identity recovers the candidate's name and contact links. Links often hide
// at the bottom of a resume, so the unclassified chunk is searched alongside
// the contact header. A resume that yields no name fails the stage: a
// nameless candidate row could never appear in match results.
func (x *Extractor) Identity(ctx context.Context, chunks *SectionChunks) (*types.Identity, error) {
	template := prompts.MustGet("extraction.json", "recover-identity")
	prompt := prompts.Format(template, map[string]string{
		"Text": chunks.ContactInfo + "\n" + chunks.Other,
	})

	resp, err := llm.RetryTransient(ctx, llm.TransientRetryPolicy, "recover identity",
		func(ctx context.Context) (string, error) {
			return x.client.GenerateJSON(ctx, prompt, llm.TierLite)
		})
	if err != nil {
		return nil, &types.ErrExtraction{Stage: StageIdentity, Err: err}
	}

	if err := schemas.Validate(schemas.Identity, resp); err != nil {
		return nil, &types.ErrExtraction{Stage: StageIdentity, Err: err}
	}

	var identity types.Identity
	if err := json.Unmarshal([]byte(resp), &identity); err != nil {
		return nil, &types.ErrExtraction{Stage: StageIdentity, Err: err}
	}

	identity.FullName = strings.TrimSpace(identity.FullName)
	if identity.FullName == "" {
		return nil, &types.ErrExtraction{Stage: StageIdentity, Err: errors.New("no candidate name recovered")}
	}

	return &identity, nil
}

// RawExperience extracts the role history with verbatim skill mentions. The
// output schema rides inside the prompt and gates the response afterwards.
// An empty role list is a valid outcome.
func (x *Extractor) RawExperience(ctx context.Context, chunks *SectionChunks) ([]types.RawExperienceItem, error) {
	schema, err := schemas.Raw(schemas.RawExperience)
	if err != nil {
		return nil, &types.ErrExtraction{Stage: StageExperience, Err: err}
	}

	template := prompts.MustGet("extraction.json", "extract-experience")
	prompt := prompts.Format(template, map[string]string{
		"ExperienceText": experienceText(chunks),
		"Schema":         schema,
	})

	resp, err := llm.RetryTransient(ctx, llm.TransientRetryPolicy, "extract experience",
		func(ctx context.Context) (string, error) {
			return x.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
		})
	if err != nil {
		return nil, &types.ErrExtraction{Stage: StageExperience, Err: err}
	}

	if err := schemas.Validate(schemas.RawExperience, resp); err != nil {
		return nil, &types.ErrExtraction{Stage: StageExperience, Err: err}
	}

	var items []types.RawExperienceItem
	if err := json.Unmarshal([]byte(resp), &items); err != nil {
		return nil, &types.ErrExtraction{Stage: StageExperience, Err: err}
	}

	return items, nil
}

// experienceText assembles the model input for experience extraction. The
// summary and skills sections ride along with the roles: date inheritance
// reads context from preceding sections, and the skills_section source tag
// needs the skills list in view.
func experienceText(chunks *SectionChunks) string {
	var sb strings.Builder
	writeSection := func(label, text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		sb.WriteString("### ")
		sb.WriteString(label)
		sb.WriteString("\n")
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	writeSection("SUMMARY", chunks.Summary)
	writeSection("EXPERIENCE", chunks.Experience)
	writeSection("SKILLS", chunks.Skills)

	return strings.TrimSpace(sb.String())
}
