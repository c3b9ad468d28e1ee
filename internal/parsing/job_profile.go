// Package parsing turns cleaned job description text into a validated
// JobSkillProfile using LLM extraction, a JSON Schema gate, and a
// deterministic post-processing pass.
package parsing

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/candidate-matcher/internal/llm"
	"github.com/jonathan/candidate-matcher/internal/prompts"
	"github.com/jonathan/candidate-matcher/internal/schemas"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// TaxonomyHints carries store-derived vocabulary into the extraction prompt:
// the primary domain whitelist and the category names the taxonomy knows.
type TaxonomyHints struct {
	PrimaryDomains []string
	Categories     []string
}

// ParseJobProfile extracts a structured JobSkillProfile from cleaned job
// description text. The raw response is schema-gated, decoded, validated,
// and post-processed before being returned.
func ParseJobProfile(ctx context.Context, jdText, apiKey string, hints TaxonomyHints) (*types.JobSkillProfile, error) {
	if apiKey == "" {
		return nil, &APICallError{Message: "API key is required"}
	}

	config := llm.DefaultConfig()
	client, err := llm.NewClient(ctx, config, apiKey)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to create LLM client",
			Cause:   err,
		}
	}
	defer func() { _ = client.Close() }()

	prompt := buildExtractionPrompt(jdText, hints)

	// Structured JD parsing needs reasoning; transient provider failures
	// are retried once before giving up.
	responseText, err := llm.RetryTransient(ctx, llm.TransientRetryPolicy, "parse job profile",
		func(ctx context.Context) (string, error) {
			return client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
		})
	if err != nil {
		return nil, &APICallError{
			Message: "failed to generate content from LLM",
			Cause:   err,
		}
	}

	profile, err := decodeJobProfile(responseText)
	if err != nil {
		return nil, err
	}

	PostProcess(profile, hints.PrimaryDomains)

	return profile, nil
}

// buildExtractionPrompt constructs the prompt for structured extraction.
func buildExtractionPrompt(jdText string, hints TaxonomyHints) string {
	template := prompts.MustGet("parsing.json", "extract-job-profile")
	return prompts.Format(template, map[string]string{
		"JobDescription": jdText,
		"PrimaryDomains": strings.Join(hints.PrimaryDomains, " | "),
		"Categories":     strings.Join(hints.Categories, " | "),
	})
}

// decodeJobProfile gates the raw response against the JSON schema, decodes
// it, and applies struct-level validation.
func decodeJobProfile(jsonText string) (*types.JobSkillProfile, error) {
	if err := schemas.Validate(schemas.JobSkillProfile, jsonText); err != nil {
		return nil, &ParseError{
			Message: "response failed schema validation",
			Cause:   err,
		}
	}

	var profile types.JobSkillProfile
	if err := json.Unmarshal([]byte(jsonText), &profile); err != nil {
		return nil, &ParseError{
			Message: "failed to parse JSON response",
			Cause:   err,
		}
	}

	if err := profile.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	return &profile, nil
}
