// Package ingestion prepares employer job descriptions for parsing. It
// fetches postings from job board URLs or local files, strips markup and
// boilerplate, and normalizes the text while preserving the heading and
// bullet structure the requirement parser relies on.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/candidate-matcher/internal/fetch"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// MinJDLength is the minimum number of characters a job description must
// contain after cleaning. Anything shorter is rejected before an LLM call
// is attempted.
const MinJDLength = 50

// ValidateJobDescription rejects job description text that is too short to
// parse meaningfully.
func ValidateJobDescription(text string) error {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < MinJDLength {
		return &types.ErrInputValidation{
			Field:   "job_description",
			Message: fmt.Sprintf("must be at least %d characters, got %d", MinJDLength, len(trimmed)),
		}
	}
	return nil
}

var (
	spaceRuns = regexp.MustCompile(`\s+`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes a posting's text for parsing. Headings and bullets
// keep their markers and indentation, runs of spaces inside a line collapse
// to one, and runs of blank lines collapse to a single blank line. The
// output is deterministic so the provenance hash stays stable per posting.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine normalizes one line. Markdown headings lose their leading
// indentation. Bullets keep indentation and content untouched so nested
// requirement lists survive. Everything else keeps its indentation with
// interior whitespace collapsed.
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	indent := strings.Repeat(" ", len(line)-len(trimmed))
	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
		return indent + trimmed
	}
	return indent + spaceRuns.ReplaceAllString(trimmed, " ")
}

// IngestFromFile reads a job description from a local file, cleans it, and
// returns the cleaned text with provenance metadata. HTML files go through
// the same content extraction as fetched pages; everything else is treated
// as plain text. Callers that feed the result into the matching flow should
// run ValidateJobDescription on it first.
func IngestFromFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	text := string(content)
	if isHTMLFile(path, text) {
		extracted, err := fetch.ExtractMainText(text, fetch.JobPostingSelectors())
		if err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
		}
		text = extracted
	}

	cleanedText := CleanText(text)
	metadata := NewMetadata(cleanedText, "")

	return cleanedText, metadata, nil
}

// isHTMLFile decides whether file content should be treated as HTML.
// Extension wins; otherwise sniff the first bytes for a document tag.
func isHTMLFile(path string, content string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	head := strings.ToLower(strings.TrimSpace(content))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}
