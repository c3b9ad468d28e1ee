// Package taxonomy provides the in-memory master skill index: O(1) lookup by
// code and id, parent/child traversal, and the implication graph used by the
// eligibility gate. The index is built once at engine construction and is
// immutable afterwards.
package taxonomy

import (
	"encoding/json"

	"github.com/jonathan/candidate-matcher/internal/textnorm"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// Entry is one master skill with its matching artifacts precomputed. Aliases
// and tokens stay nil when the stored payload is absent or malformed, which
// skips the corresponding match tier for that skill.
type Entry struct {
	Skill     *types.MasterSkill
	Canonical string
	Aliases   []string
	Tokens    []string
	Rules     *types.DisambiguationRules
}

// Index is the arena of master skills plus derived lookup structures.
type Index struct {
	entries   []Entry
	byCode    map[string]*Entry
	byID      map[int64]*Entry
	children  map[int64][]int64
	impliedBy map[string][]string
	vectors   []types.VectorEntry
}

// NewIndex builds the index from the persisted skill list and implication
// edges. Skills with an embedding also land in the vector index.
func NewIndex(skills []types.MasterSkill, implications []types.SkillImplication) *Index {
	ix := &Index{
		byCode:    make(map[string]*Entry, len(skills)),
		byID:      make(map[int64]*Entry, len(skills)),
		children:  make(map[int64][]int64),
		impliedBy: make(map[string][]string),
	}

	ix.entries = make([]Entry, len(skills))
	for i := range skills {
		skill := &skills[i]
		ix.entries[i] = Entry{
			Skill:     skill,
			Canonical: textnorm.Canonicalize(skill.Name),
			Aliases:   decodeStringList(skill.Aliases),
			Tokens:    decodeStringList(skill.Tokens),
			Rules:     types.ParseDisambiguationRules(skill.Rules),
		}
	}

	for i := range ix.entries {
		entry := &ix.entries[i]
		ix.byCode[entry.Skill.Code] = entry
		ix.byID[entry.Skill.ID] = entry
		if entry.Skill.ParentID != nil {
			ix.children[*entry.Skill.ParentID] = append(ix.children[*entry.Skill.ParentID], entry.Skill.ID)
		}
		if len(entry.Skill.Embedding) > 0 {
			ix.vectors = append(ix.vectors, types.VectorEntry{
				SkillCode: entry.Skill.Code,
				SkillType: entry.Skill.SkillType,
				Embedding: entry.Skill.Embedding,
				Skill:     entry.Skill,
			})
		}
	}

	for _, imp := range implications {
		ix.impliedBy[imp.ToCode] = append(ix.impliedBy[imp.ToCode], imp.FromCode)
	}

	return ix
}

// decodeStringList parses a JSON string array, returning nil for absent or
// malformed payloads.
func decodeStringList(raw string) []string {
	if raw == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil
	}
	return list
}

// Entries returns all index entries in load order.
func (ix *Index) Entries() []Entry {
	return ix.entries
}

// ByCode returns the entry for a skill code, or nil if unknown.
func (ix *Index) ByCode(code string) *Entry {
	return ix.byCode[code]
}

// ByID returns the entry for a skill id, or nil if unknown.
func (ix *Index) ByID(id int64) *Entry {
	return ix.byID[id]
}

// VectorEntries returns the flat vector index over skills with embeddings.
func (ix *Index) VectorEntries() []types.VectorEntry {
	return ix.vectors
}

// Subtree returns the skill ids in the subtree rooted at code, inclusive.
// Traversal is iterative; the taxonomy is a DAG and may be deep.
func (ix *Index) Subtree(code string) map[int64]bool {
	ids := make(map[int64]bool)
	root := ix.byCode[code]
	if root == nil {
		return ids
	}

	stack := []int64{root.Skill.ID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if ids[id] {
			continue
		}
		ids[id] = true
		stack = append(stack, ix.children[id]...)
	}

	return ids
}

// ImplicationSources returns the ids of skills whose demonstrated experience
// grants credit for code, i.e. the from-side of edges pointing at code.
func (ix *Index) ImplicationSources(code string) map[int64]bool {
	ids := make(map[int64]bool)
	for _, from := range ix.impliedBy[code] {
		if entry := ix.byCode[from]; entry != nil {
			ids[entry.Skill.ID] = true
		}
	}
	return ids
}

// AcceptableIDs returns the full set of skill ids that satisfy a requirement
// on code: the subtree rooted at code plus all implication sources.
func (ix *Index) AcceptableIDs(code string) map[int64]bool {
	ids := ix.Subtree(code)
	for id := range ix.ImplicationSources(code) {
		ids[id] = true
	}
	return ids
}
