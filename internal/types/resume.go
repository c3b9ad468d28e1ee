// Package types provides type definitions for structured data used throughout the candidate-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Mention sources, in the order a resume surfaces them. Implicit mentions are
// recorded but carry zero evidence weight.
const (
	SourceSkillsSection  = "skills_section"
	SourceTechnologyList = "technology_list"
	SourceResponsibility = "responsibility"
	SourceImplicit       = "implicit"
	SourceRoleTitle      = "role_title"
)

// Seniority bands inferred from role titles.
const (
	BandJunior = "junior"
	BandMid    = "mid"
	BandSenior = "senior"
)

// Identity holds the candidate contact details recovered from resume headers
// and footers.
type Identity struct {
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// ExtractedSkill is a verbatim skill mention tagged with where in the resume
// it appeared. Names are transcribed exactly as written; normalization
// happens downstream.
type ExtractedSkill struct {
	RawName    string  `json:"raw_name"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// RawExperienceItem is one work experience entry as extracted from a resume.
// Dates are raw strings ("06/2016", "Present", null); duration is computed
// deterministically afterwards, never by the extractor.
type RawExperienceItem struct {
	JobTitle         string           `json:"job_title"`
	Organization     string           `json:"organization,omitempty"`
	StartDateRaw     string           `json:"start_date_raw,omitempty"`
	EndDateRaw       string           `json:"end_date_raw,omitempty"`
	Technologies     []string         `json:"technologies"`
	Domains          []string         `json:"domains"`
	Responsibilities []string         `json:"responsibilities"`
	ExtractedSkills  []ExtractedSkill `json:"extracted_skills"`
}

// CandidateRole is a verified work experience entry with deterministic
// duration and a resolved end date.
type CandidateRole struct {
	Title                  string   `json:"title"`
	VerifiedDurationMonths int      `json:"verified_duration_months"`
	StartDateRaw           string   `json:"start_date_raw,omitempty"`
	EndDate                string   `json:"end_date"`
	RawTechnologies        []string `json:"raw_technologies"`
	Domains                []string `json:"domains"`
}

// CandidateProfile is the verified professional profile assembled from raw
// experience, returned as the result of a candidate ingestion job.
type CandidateProfile struct {
	CandidateID int64           `json:"candidate_id"`
	FullName    string          `json:"full_name"`
	Roles       []CandidateRole `json:"candidate_roles"`
	SkillCount  int             `json:"skill_count"`
}
