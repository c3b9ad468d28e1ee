// Package matching resolves raw skill mentions against the master taxonomy.
// Resolution runs four tiers in order: exact canonical match, alias match,
// token rule match, then a strict vector similarity match. Disambiguation
// rules are applied after any positive tier, so a textual hit can still be
// rejected by context.
package matching

import (
	"context"
	"log"
	"math"
	"strings"

	"github.com/jonathan/candidate-matcher/internal/taxonomy"
	"github.com/jonathan/candidate-matcher/internal/textnorm"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// EmbedFunc produces an embedding for canonicalized skill text. Implementations
// carry their own retry policy; the matcher treats a returned error as final.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// Tier confidences and the vector acceptance threshold.
const (
	exactConfidence = 1.00
	aliasConfidence = 0.95
	ruleConfidence  = 0.90

	// VectorThreshold is deliberately strict: below it, no match is better
	// than a wrong match.
	VectorThreshold = 0.92
)

// Matcher resolves raw mentions against an immutable taxonomy index. The
// embed function is optional; without it the vector tier is skipped.
type Matcher struct {
	index *taxonomy.Index
	embed EmbedFunc
}

// New creates a Matcher over the given index.
func New(index *taxonomy.Index, embed EmbedFunc) *Matcher {
	return &Matcher{index: index, embed: embed}
}

// Match resolves one raw skill mention. The returned error is non-nil only
// when the vector tier's embedding call fails; textual tiers never error.
func (m *Matcher) Match(ctx context.Context, rawName, contextText string) (types.MatchResult, error) {
	normalized := textnorm.Canonicalize(rawName)
	if normalized == "" {
		return types.MatchResult{Method: types.MethodEmpty}, nil
	}

	contextNorm := textnorm.Canonicalize(contextText)
	entries := m.index.Entries()

	// Tier 1: exact canonical name.
	for i := range entries {
		entry := &entries[i]
		if entry.Canonical != normalized {
			continue
		}
		if !passesDisambiguation(entry.Rules, normalized, contextNorm) {
			return blocked(), nil
		}
		return result(entry, exactConfidence, types.MethodExact), nil
	}

	// Tier 2: aliases.
	for i := range entries {
		entry := &entries[i]
		for _, alias := range entry.Aliases {
			if textnorm.Canonicalize(alias) != normalized {
				continue
			}
			if !passesDisambiguation(entry.Rules, normalized, contextNorm) {
				return blocked(), nil
			}
			return result(entry, aliasConfidence, types.MethodAlias), nil
		}
	}

	// Tier 3: token rules.
	mentionTokens := textnorm.Tokenize(normalized)
	for i := range entries {
		entry := &entries[i]
		if len(entry.Tokens) == 0 {
			continue
		}
		if !tokensMatch(entry.Tokens, mentionTokens) {
			continue
		}
		if !passesDisambiguation(entry.Rules, normalized, contextNorm) {
			return blocked(), nil
		}
		log.Printf("[MATCH] token rule matched %q to %s", rawName, entry.Skill.Code)
		return result(entry, ruleConfidence, types.MethodRule), nil
	}

	// Tier 4: vector similarity.
	if m.embed != nil && len(m.index.VectorEntries()) > 0 {
		match, err := m.vectorMatch(ctx, normalized, contextNorm)
		if err != nil {
			return types.MatchResult{Method: types.MethodNoMatch}, err
		}
		if match.Method != types.MethodNoMatch {
			return match, nil
		}
	}

	return types.MatchResult{Method: types.MethodNoMatch}, nil
}

// tokensMatch reports whether every rule token appears in the mention's
// token set. Guardrail: rules containing a single-character token (c, r)
// only apply to single-token mentions, so "c" never fires inside a phrase.
func tokensMatch(ruleTokens []string, mentionTokens map[string]bool) bool {
	for _, tok := range ruleTokens {
		if len(tok) == 1 && len(mentionTokens) > 1 {
			return false
		}
	}
	for _, tok := range ruleTokens {
		if !mentionTokens[strings.ToLower(tok)] {
			return false
		}
	}
	return true
}

func (m *Matcher) vectorMatch(ctx context.Context, normalized, contextNorm string) (types.MatchResult, error) {
	queryVec, err := m.embed(ctx, normalized)
	if err != nil {
		return types.MatchResult{Method: types.MethodNoMatch}, err
	}

	var best *types.VectorEntry
	bestScore := 0.0
	vectors := m.index.VectorEntries()
	for i := range vectors {
		score := Cosine(queryVec, vectors[i].Embedding)
		if score > bestScore {
			bestScore = score
			best = &vectors[i]
		}
	}

	if best == nil || bestScore < VectorThreshold {
		return types.MatchResult{Method: types.MethodNoMatch}, nil
	}

	entry := m.index.ByCode(best.SkillCode)
	if entry == nil {
		return types.MatchResult{Method: types.MethodNoMatch}, nil
	}
	if !passesDisambiguation(entry.Rules, normalized, contextNorm) {
		return blocked(), nil
	}

	return result(entry, math.Round(bestScore*1000)/1000, types.MethodVector), nil
}

func blocked() types.MatchResult {
	return types.MatchResult{Method: types.MethodDisambiguationBlocked}
}

func result(entry *taxonomy.Entry, confidence float64, method string) types.MatchResult {
	return types.MatchResult{
		SkillID:    entry.Skill.ID,
		SkillCode:  entry.Skill.Code,
		SkillType:  entry.Skill.SkillType,
		Confidence: confidence,
		Method:     method,
	}
}
