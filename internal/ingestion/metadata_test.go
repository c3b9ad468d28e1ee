package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadata(t *testing.T) {
	metadata := NewMetadata("cleaned posting text", "https://example.com/job")

	assert.Equal(t, "https://example.com/job", metadata.URL)
	assert.Equal(t, computeHash("cleaned posting text"), metadata.Hash)

	parsed, err := time.Parse(time.RFC3339, metadata.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)
}

func TestComputeHash(t *testing.T) {
	first := computeHash("test content")
	second := computeHash("different content")

	// 64 hex characters of SHA-256.
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
	assert.Equal(t, first, computeHash("test content"))
}

func TestMetadataToJSON(t *testing.T) {
	metadata := &Metadata{
		URL:       "https://example.com/job",
		Timestamp: "2024-01-01T00:00:00Z",
		Hash:      "abcd1234",
		Platform:  "greenhouse",
	}

	data, err := metadata.ToJSON()
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "https://example.com/job", decoded["url"])
	assert.Equal(t, "2024-01-01T00:00:00Z", decoded["timestamp"])
	assert.Equal(t, "abcd1234", decoded["hash"])
	assert.Equal(t, "greenhouse", decoded["platform"])
}

func TestMetadataToJSONOmitsEmptyFields(t *testing.T) {
	metadata := NewMetadata("some cleaned text", "")

	data, err := metadata.ToJSON()
	require.NoError(t, err)

	assert.NotContains(t, string(data), `"url"`)
	assert.NotContains(t, string(data), `"platform"`)
	assert.Contains(t, string(data), `"hash"`)
	assert.Contains(t, string(data), `"timestamp"`)
}
