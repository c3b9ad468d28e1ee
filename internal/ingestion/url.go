package ingestion

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/jonathan/candidate-matcher/internal/fetch"
	"github.com/jonathan/candidate-matcher/internal/types"
)

var (
	// ErrHTTPRequestFailed is returned when the posting could not be fetched
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when no readable text could be pulled from the page
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
)

// IngestFromURL fetches a job posting, extracts the description text, cleans
// it, and returns it with provenance metadata. Platform detection picks
// board-specific selectors for Greenhouse, Lever, and Workday pages. If
// useBrowser is true and the static HTML yields too little text, the page is
// re-rendered in a headless browser before extraction. The cleaned text must
// meet MinJDLength or the ingest fails with a validation error.
func IngestFromURL(ctx context.Context, urlStr string, useBrowser bool, verbose bool) (string, *Metadata, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", nil, &types.ErrInputValidation{
			Field:   "job_url",
			Message: "must be an absolute http(s) URL",
		}
	}

	// Detect platform for platform-specific selectors
	platform := fetch.DetectPlatform(urlStr)
	if verbose {
		log.Printf("[VERBOSE] URL: %s", urlStr)
		log.Printf("[VERBOSE] Detected platform: %s", platform)
	}

	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Fetched HTML: %d bytes", len(result.HTML))
	}

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)
	if verbose {
		log.Printf("[VERBOSE] Content selectors: %v", contentSelectors)
		log.Printf("[VERBOSE] Noise selectors count: %d", len(noiseSelectors))
	}

	textContent, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Extracted text: %d chars", len(textContent))
	}

	// SPA boards render the posting client-side, so the static HTML can come
	// back nearly empty. Retry with a headless browser when allowed.
	if useBrowser && fetch.NeedsRender(textContent) {
		if verbose {
			log.Printf("[VERBOSE] Content too short (%d chars < %d), falling back to browser rendering...",
				len(textContent), fetch.MinContentLength)
		}

		browserHTML, browserErr := fetch.Render(ctx, urlStr, fetch.DefaultTimeout, verbose)
		if browserErr != nil {
			if verbose {
				log.Printf("[VERBOSE] Browser rendering failed: %v, using HTTP content", browserErr)
			}
			// Continue with HTTP content if browser fails
		} else {
			rendered, renderErr := fetch.ExtractMainText(browserHTML, contentSelectors, noiseSelectors...)
			if renderErr != nil {
				if verbose {
					log.Printf("[VERBOSE] Browser content extraction failed: %v", renderErr)
				}
			} else {
				textContent = rendered
				if verbose {
					log.Printf("[VERBOSE] Browser extracted text: %d chars", len(textContent))
				}
			}
		}
	}

	cleanedText := CleanText(textContent)
	if verbose {
		log.Printf("[VERBOSE] Cleaned text: %d chars", len(cleanedText))
	}

	if err := ValidateJobDescription(cleanedText); err != nil {
		return "", nil, err
	}

	metadata := NewMetadata(cleanedText, urlStr)
	if platform != fetch.PlatformUnknown {
		metadata.Platform = string(platform)
	}

	return cleanedText, metadata, nil
}
