// Package types provides type definitions for structured data used throughout the candidate-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// Requirement levels. Hard requirements gate eligibility; soft requirements
// only influence scoring.
const (
	RequirementHard = "hard"
	RequirementSoft = "soft"
)

// Skill sources as declared by the JD parser.
const (
	SkillSourceExplicit = "explicit"
	SkillSourceInferred = "inferred"
)

// Skill type hints attached to JD requirements.
const (
	HintProgramming = "programming"
	HintFramework   = "framework"
	HintCloud       = "cloud"
	HintDatabase    = "database"
	HintTool        = "tool"
	HintPlatform    = "platform"
	HintMethodology = "methodology"
	HintOther       = "other"
)

// Expected evidence kinds for a JD requirement.
const (
	EvidenceResumeSkill    = "resume_skill"
	EvidenceExperienceRole = "experience_role"
	EvidenceProject        = "project"
	EvidenceImplicit       = "implicit"
)

// Seniority levels a JD can target.
const (
	SeniorityJunior = "Junior"
	SeniorityMid    = "Mid"
	SenioritySenior = "Senior"
	SeniorityLead   = "Lead"
)

// DomainGeneral is the fallback primary domain for values outside the
// store-driven whitelist.
const DomainGeneral = "General"

// Requirement is one entry in a JD's mixed requirement list. Two shapes
// share the struct: a skill requirement names a RawSkill, a category
// requirement names a Category with a minimum distinct-skill count.
type Requirement struct {
	RawSkill         string   `json:"raw_skill,omitempty"`
	SkillTypeHint    string   `json:"skill_type_hint,omitempty"`
	MinMonths        *int     `json:"min_months,omitempty"`
	ExpectedEvidence string   `json:"expected_evidence,omitempty"`
	GroupID          string   `json:"group_id,omitempty"`
	GroupType        string   `json:"group_type,omitempty"`
	Category         string   `json:"category,omitempty"`
	MinRequired      int      `json:"min_required,omitempty"`
	ExampleSkills    []string `json:"example_skills,omitempty"`
	RequirementLevel string   `json:"requirement_level" validate:"required,oneof=hard soft"`
	Source           string   `json:"source" validate:"required,oneof=explicit inferred"`
}

// IsCategory reports whether this is an any-of-category requirement rather
// than a single-skill one.
func (r *Requirement) IsCategory() bool {
	return r.Category != ""
}

// MinMonthsValue returns the effective minimum months, treating a missing
// value as zero.
func (r *Requirement) MinMonthsValue() int {
	if r.MinMonths == nil {
		return 0
	}
	return *r.MinMonths
}

// JobMetadata classifies the JD for weight-table lookups.
type JobMetadata struct {
	PrimaryDomain  string `json:"primary_domain" validate:"required"`
	SeniorityLevel string `json:"seniority_level" validate:"required,oneof=Junior Mid Senior Lead"`
}

// JobSkillProfile is the structured form of a job description: role context,
// classification metadata, and an ordered mixed requirement list.
type JobSkillProfile struct {
	RoleContext  string        `json:"role_context" validate:"required,min=10"`
	JobMetadata  JobMetadata   `json:"job_metadata"`
	Requirements []Requirement `json:"requirements" validate:"required,min=1,dive"`
}

// Validate checks structural validity plus the one semantic rule the parser
// must satisfy: at least one hard requirement.
func (p *JobSkillProfile) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return err
	}
	for i := range p.Requirements {
		if p.Requirements[i].RequirementLevel == RequirementHard {
			return nil
		}
	}
	return &ErrInputValidation{Field: "requirements", Message: "at least one hard requirement is required"}
}

// HardRequirements returns the hard subset in declaration order.
func (p *JobSkillProfile) HardRequirements() []Requirement {
	var hard []Requirement
	for _, r := range p.Requirements {
		if r.RequirementLevel == RequirementHard {
			hard = append(hard, r)
		}
	}
	return hard
}
