package matching

import (
	"strings"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// passesDisambiguation applies a skill's disambiguation rules to the combined
// mention and context text. Nil rules pass everything; block entries reject
// on any hit; a non-empty allow list then requires at least one hit. This is
// what keeps "Java" from landing on language_java inside a JavaScript stack.
func passesDisambiguation(rules *types.DisambiguationRules, normalized, context string) bool {
	if rules == nil {
		return true
	}

	combined := strings.ToLower(normalized + " " + context)

	for _, blocked := range rules.BlockIfContains {
		if strings.Contains(combined, strings.ToLower(blocked)) {
			return false
		}
	}

	if len(rules.AllowIfContains) > 0 {
		for _, allowed := range rules.AllowIfContains {
			if strings.Contains(combined, strings.ToLower(allowed)) {
				return true
			}
		}
		return false
	}

	return true
}
