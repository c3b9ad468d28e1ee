// Package types provides type definitions for structured data used throughout the candidate-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "encoding/json"

// Match methods in ascending priority order. When a skill is matched through
// several methods across mentions, the highest-priority one is persisted.
const (
	MethodNone                  = "none"
	MethodVector                = "vector"
	MethodRule                  = "rule"
	MethodAlias                 = "alias"
	MethodExact                 = "exact"
	MethodNoMatch               = "no_match"
	MethodEmpty                 = "empty"
	MethodDisambiguationBlocked = "disambiguation_blocked"
)

// methodPriority orders normalization methods from weakest to strongest.
var methodPriority = map[string]int{
	MethodNone:   0,
	MethodVector: 1,
	MethodRule:   2,
	MethodAlias:  3,
	MethodExact:  4,
}

// MethodPriority returns the strength rank of a normalization method.
// Unknown methods rank below none.
func MethodPriority(method string) int {
	if p, ok := methodPriority[method]; ok {
		return p
	}
	return -1
}

// MasterSkill is a node in the skill taxonomy. Aliases, Tokens and Rules are
// stored as raw JSON exactly as persisted; malformed payloads are tolerated
// at match time rather than load time.
type MasterSkill struct {
	ID        int64     `json:"skill_id"`
	Code      string    `json:"skill_code"`
	Name      string    `json:"skill_name"`
	SkillType string    `json:"skill_type"`
	Category  string    `json:"category"`
	ParentID  *int64    `json:"parent_skill_id,omitempty"`
	Aliases   string    `json:"aliases,omitempty"`
	Tokens    string    `json:"tokens,omitempty"`
	Rules     string    `json:"disambiguation_rules,omitempty"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// DisambiguationRules guards a master skill against false-positive matches.
// BlockIfContains rejects when any entry appears in the combined mention and
// context text. AllowIfContains, when non-empty, requires at least one hit.
type DisambiguationRules struct {
	BlockIfContains []string `json:"block_if_contains,omitempty"`
	AllowIfContains []string `json:"allow_if_contains,omitempty"`
}

// ParseDisambiguationRules decodes the raw rules payload. A missing or
// malformed payload yields nil, which callers treat as "no restrictions".
func ParseDisambiguationRules(raw string) *DisambiguationRules {
	if raw == "" {
		return nil
	}
	var rules DisambiguationRules
	if err := json.Unmarshal([]byte(raw), &rules); err != nil {
		return nil
	}
	return &rules
}

// SkillImplication is a directed edge meaning demonstrated experience in
// FromCode grants credit for ToCode, e.g. framework_aspnet -> framework_dotnet.
type SkillImplication struct {
	FromCode string `json:"from_skill_code"`
	ToCode   string `json:"to_skill_code"`
}

// VectorEntry pairs a master skill with its decoded embedding for the
// flat-scan vector index.
type VectorEntry struct {
	SkillCode string
	SkillType string
	Embedding []float32
	Skill     *MasterSkill
}

// MatchResult is the outcome of resolving one raw skill mention against the
// taxonomy.
type MatchResult struct {
	SkillID    int64
	SkillCode  string
	SkillType  string
	Confidence float64
	Method     string
}

// Matched reports whether the resolution landed on a master skill.
func (m MatchResult) Matched() bool {
	return m.SkillCode != ""
}
