// Package fetch retrieves job postings over HTTP and reduces their HTML to
// plain text. Board-specific selector sets live in platform.go; headless
// rendering for script-heavy boards lives in browser.go.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultTimeout bounds a single posting download.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies the matcher to job boards.
	DefaultUserAgent = "Mozilla/5.0 (compatible; CandidateMatcher/1.0)"

	// maxBodyBytes caps how much of a response we are willing to read.
	maxBodyBytes = 10 << 20
)

// boilerplate is stripped from every page before text extraction.
const boilerplate = "nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup"

// Result holds the raw and processed content from a posting download.
type Result struct {
	URL         string
	HTML        string
	Text        string
	ContentType string
	StatusCode  int
}

// Error describes a failed posting download.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Options configures a download. A nil Options means defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

func (o *Options) timeout() time.Duration {
	if o == nil || o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

func (o *Options) userAgent() string {
	if o == nil || o.UserAgent == "" {
		return DefaultUserAgent
	}
	return o.UserAgent
}

// URL downloads the page at urlStr. A Result is returned alongside the error
// for non-2xx responses so callers can inspect the status and partial body.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.userAgent())
	if opts != nil {
		for key, value := range opts.Headers {
			req.Header.Set(key, value)
		}
	}

	client := &http.Client{Timeout: opts.timeout()}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}
	if len(body) > maxBodyBytes {
		return nil, &Error{URL: urlStr, Message: "response body too large"}
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return result, nil
}

// ExtractMainText reduces html to the text of its main content region.
// Boilerplate and any noiseSelectors are removed first; the first matching
// entry of contentSelectors picks the region, falling back to body.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(boilerplate).Remove()
	if noise := strings.Join(noiseSelectors, ", "); noise != "" {
		doc.Find(noise).Remove()
	}

	content := doc.Find("body")
	for _, selector := range contentSelectors {
		if found := doc.Find(selector); found.Length() > 0 {
			content = found.First()
			break
		}
	}

	return collapseWhitespace(content.Text()), nil
}

// JobPostingSelectors returns content selectors for job board pages whose
// platform could not be identified.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// DefaultTextSelectors returns content selectors for general web pages.
func DefaultTextSelectors() []string {
	return []string{
		"main",
		"article",
		".content",
		"#content",
		".main-content",
		"#main-content",
	}
}

// collapseWhitespace squeezes runs of spaces inside each line and drops
// blank lines. goquery's Text output keeps the source indentation, which
// would otherwise survive into the model prompt.
func collapseWhitespace(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}
	return strings.Join(lines, "\n")
}
