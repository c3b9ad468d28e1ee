package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-matcher/internal/types"
)

func TestIngestFromURL_InvalidURL(t *testing.T) {
	tests := []struct {
		name   string
		urlStr string
	}{
		{"empty URL", ""},
		{"malformed URL", "not-a-url"},
		{"no scheme", "example.com"},
		{"no host", "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := IngestFromURL(context.Background(), tt.urlStr, false, false)
			require.Error(t, err)

			var invalid *types.ErrInputValidation
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, "job_url", invalid.Field)
		})
	}
}

func TestIngestFromURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		html := `<!DOCTYPE html>
<html>
<body>
<nav>Nav</nav>
<main>
<h1>Backend Engineer</h1>
<p>We are looking for a backend engineer with Python, PostgreSQL, and
Docker experience to join our platform team.</p>
</main>
<footer>Footer</footer>
</body>
</html>`
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(html))
	}))
	defer server.Close()

	cleanedText, metadata, err := IngestFromURL(context.Background(), server.URL, false, false)
	require.NoError(t, err)

	assert.NotEmpty(t, cleanedText)
	assert.NotNil(t, metadata)
	assert.Equal(t, server.URL, metadata.URL)
	assert.Equal(t, computeHash(cleanedText), metadata.Hash)
	assert.Contains(t, cleanedText, "Backend Engineer")
	assert.Contains(t, cleanedText, "PostgreSQL")
	assert.NotContains(t, cleanedText, "Nav")
	assert.NotContains(t, cleanedText, "Footer")
	// A plain test server URL matches no known job board.
	assert.Empty(t, metadata.Platform)
}

func TestIngestFromURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, _, err := IngestFromURL(context.Background(), server.URL, false, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHTTPRequestFailed))
}

func TestIngestFromURL_NetworkError(t *testing.T) {
	_, _, err := IngestFromURL(context.Background(), "http://localhost:99999/nonexistent", false, false)
	assert.Error(t, err)
}

func TestIngestFromURL_ContentTooShort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><main>Apply now</main></body></html>"))
	}))
	defer server.Close()

	_, _, err := IngestFromURL(context.Background(), server.URL, false, false)
	require.Error(t, err)

	var invalid *types.ErrInputValidation
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "job_description", invalid.Field)
}

func TestIngestFromURL_WithTestFixture(t *testing.T) {
	testFile := "testdata/sample_job_posting.html"
	htmlContent, err := os.ReadFile(testFile)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(htmlContent)
	}))
	defer server.Close()

	cleanedText, metadata, err := IngestFromURL(context.Background(), server.URL, false, false)
	require.NoError(t, err)

	assert.NotEmpty(t, cleanedText)
	assert.NotNil(t, metadata)
	assert.Contains(t, cleanedText, "Senior Backend Engineer")
	assert.Contains(t, cleanedText, "About the Role")
	assert.Contains(t, cleanedText, "Requirements")
	assert.NotContains(t, cleanedText, "Navigation")
	assert.NotContains(t, cleanedText, "window.analytics")
}
