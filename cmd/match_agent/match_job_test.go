package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchJobCommand_MissingFlags(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "match-job")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "either --job or --job-url must be provided")
}

func TestMatchJobCommand_MutuallyExclusiveInputs(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "match-job",
		"--job", "posting.txt",
		"--job-url", "https://example.com/posting")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "mutually exclusive")
}

func TestMatchJobCommand_ConfigFileNotFound(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "match-job", "--config", "nonexistent-config.json")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to load config")
}

func TestMatchJobCommand_ConfigProvidesJob(t *testing.T) {
	binaryPath := getBinaryPath(t)

	tmpDir := t.TempDir()
	jobFile := filepath.Join(tmpDir, "posting.txt")
	require.NoError(t, os.WriteFile(jobFile, []byte("A job posting"), 0644))

	configFile := filepath.Join(tmpDir, "config.json")
	require.NoError(t, os.WriteFile(configFile, []byte(`{"job": "`+jobFile+`"}`), 0644))

	// The config file supplies the job path, so validation must get past the
	// "either --job or --job-url" check and fail later on the missing API key.
	cmd := exec.Command(binaryPath, "match-job", "--config", configFile)
	cmd.Env = []string{"PATH=" + os.Getenv("PATH")}
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.NotContains(t, string(output), "either --job or --job-url")
	assert.Contains(t, string(output), "GEMINI_API_KEY")
}
