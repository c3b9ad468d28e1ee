// Package textnorm provides the deterministic text canonicalization used
// throughout skill matching. Everything in this package is a pure function:
// no inference, no lookups, same input always yields the same output.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	punctuationPattern = regexp.MustCompile(`[^\w\s.+#]`)
	separatorPattern   = regexp.MustCompile(`[_\-/]+`)
	suffixWordPattern  = regexp.MustCompile(`\b(programming|language|framework)\b`)
	html5Pattern       = regexp.MustCompile(`\bhtml\s*5\b`)
	css3Pattern        = regexp.MustCompile(`\bcss\s*3\b`)
	nonAlphanumPattern = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
	tokenPattern       = regexp.MustCompile(`\b[a-z0-9+#.]+\b`)
)

// compositeSeparators are the literal separators that signal an explicit
// multi-skill mention, e.g. "HTML/CSS" or "HTML and CSS".
var compositeSeparators = []string{
	"/",
	"\\",
	",",
	" & ",
	" and ",
	"+",
}

// Canonicalize reduces raw skill text to its canonical matching form.
// Applied in order: lowercase, strip punctuation, drop periods
// (react.js -> reactjs), collapse separators, drop decorative suffix
// words, fold version suffixes (html5 -> html), fold c sharp -> c#.
// Idempotent: Canonicalize(Canonicalize(s)) == Canonicalize(s).
func Canonicalize(raw string) string {
	if raw == "" {
		return ""
	}

	t := strings.ToLower(strings.TrimSpace(raw))
	t = punctuationPattern.ReplaceAllString(t, " ")
	t = strings.ReplaceAll(t, ".", "")
	t = separatorPattern.ReplaceAllString(t, " ")
	t = suffixWordPattern.ReplaceAllString(t, "")
	t = html5Pattern.ReplaceAllString(t, "html")
	t = css3Pattern.ReplaceAllString(t, "css")
	t = strings.ReplaceAll(t, "c sharp", "c#")
	t = strings.ReplaceAll(t, "csharp", "c#")
	t = whitespacePattern.ReplaceAllString(t, " ")

	return strings.TrimSpace(t)
}

// CanonicalizeJobTitle canonicalizes a job title for deterministic lookup.
// Dot-net variants are spelled out so "Sr. .NET Developer" and
// "dotnet developer" land on the same form.
func CanonicalizeJobTitle(title string) string {
	if title == "" {
		return ""
	}

	t := strings.ToLower(title)
	t = separatorPattern.ReplaceAllString(t, " ")
	t = strings.ReplaceAll(t, ".net", " dot net ")
	t = strings.ReplaceAll(t, "dotnet", " dot net ")
	t = nonAlphanumPattern.ReplaceAllString(t, "")
	t = whitespacePattern.ReplaceAllString(t, " ")

	return strings.TrimSpace(t)
}

// SplitComposite splits an explicit composite mention like "HTML/CSS" into
// its atomic parts. Splitting is literal, not inference: only the listed
// separators split, and fragments shorter than two characters are dropped.
func SplitComposite(raw string) []string {
	if raw == "" {
		return nil
	}

	text := strings.ToLower(strings.TrimSpace(raw))
	for _, sep := range compositeSeparators {
		text = strings.ReplaceAll(text, sep, "|")
	}

	var parts []string
	for _, p := range strings.Split(text, "|") {
		p = strings.TrimSpace(p)
		if len(p) < 2 {
			continue
		}
		parts = append(parts, p)
	}

	return parts
}

// Tokenize breaks canonicalized text into its set of word tokens.
func Tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		tokens[tok] = true
	}
	return tokens
}
