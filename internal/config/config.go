// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Resume string `json:"resume,omitempty"`  // Path to candidate resume PDF
	Job    string `json:"job,omitempty"`     // Path to job description text file
	JobURL string `json:"job_url,omitempty"` // URL to fetch job description from

	// Matching
	Limit int `json:"limit,omitempty"` // Maximum ranked candidates to return

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	UseBrowser  bool   `json:"use_browser,omitempty"`  // Use headless browser for SPA job boards
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Embeddings
	EmbeddingProvider string `json:"embedding_provider,omitempty"` // "gemini" (default) or "ollama"
	OllamaEndpoint    string `json:"ollama_endpoint,omitempty"`    // Ollama base URL
	OllamaModel       string `json:"ollama_model,omitempty"`       // Ollama embedding model name

	// Server
	Port    int `json:"port,omitempty"`    // HTTP listen port
	Workers int `json:"workers,omitempty"` // Background job worker count

	// ReferenceDate pins "today" for experience duration math (YYYY-MM-DD).
	// Empty means the current date.
	ReferenceDate string `json:"reference_date,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}

	// Validate numeric ranges
	if c.Limit < 0 {
		return fmt.Errorf("config error: 'limit' must be non-negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}

	switch c.EmbeddingProvider {
	case "", "gemini", "ollama":
	default:
		return fmt.Errorf("config error: unknown 'embedding_provider': %s", c.EmbeddingProvider)
	}

	if c.ReferenceDate != "" {
		if _, err := time.Parse("2006-01-02", c.ReferenceDate); err != nil {
			return fmt.Errorf("config error: 'reference_date' must be YYYY-MM-DD: %s", c.ReferenceDate)
		}
	}

	// Validate file paths exist (if specified)
	if c.Resume != "" {
		if _, err := os.Stat(c.Resume); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", c.Resume)
		}
	}

	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}

	return nil
}

// ReferenceTime returns the pinned reference date, or fallback when unset.
func (c *Config) ReferenceTime(fallback time.Time) time.Time {
	if c.ReferenceDate == "" {
		return fallback
	}
	t, err := time.Parse("2006-01-02", c.ReferenceDate)
	if err != nil {
		return fallback
	}
	return t
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Resume == "" {
		result.Resume = defaults.Resume
	}
	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.EmbeddingProvider == "" {
		result.EmbeddingProvider = defaults.EmbeddingProvider
	}
	if result.OllamaEndpoint == "" {
		result.OllamaEndpoint = defaults.OllamaEndpoint
	}
	if result.OllamaModel == "" {
		result.OllamaModel = defaults.OllamaModel
	}
	if result.ReferenceDate == "" {
		result.ReferenceDate = defaults.ReferenceDate
	}

	// Int fields: use default if zero
	if result.Limit == 0 {
		result.Limit = defaults.Limit
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
