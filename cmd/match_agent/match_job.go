package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-matcher/internal/config"
	"github.com/jonathan/candidate-matcher/internal/db"
	"github.com/jonathan/candidate-matcher/internal/embedding"
	"github.com/jonathan/candidate-matcher/internal/ingestion"
	"github.com/jonathan/candidate-matcher/internal/pipeline"
)

var matchJobCmd = &cobra.Command{
	Use:   "match-job",
	Short: "Rank stored candidates against a job description",
	Long: `Parse a job description into a structured requirement profile, gate stored candidates against the hard requirements, and rank the eligible ones.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runMatchJob,
}

var (
	matchConfigPath    string
	matchJob           string
	matchJobURL        string
	matchLimit         int
	matchAPIKey        string
	matchDatabaseURL   string
	matchProvider      string
	matchReferenceDate string
	matchUseBrowser    bool
	matchVerbose       bool
	matchOutFile       string
)

func init() {
	// Config file flag (processed first)
	matchJobCmd.Flags().StringVar(&matchConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	matchJobCmd.Flags().StringVarP(&matchJob, "job", "j", "", "Path to job description text file (mutually exclusive with --job-url)")
	matchJobCmd.Flags().StringVar(&matchJobURL, "job-url", "", "URL to fetch job description from (mutually exclusive with --job)")
	matchJobCmd.Flags().IntVar(&matchLimit, "limit", 0, "Maximum ranked candidates to return (default 50)")
	matchJobCmd.Flags().StringVar(&matchAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	matchJobCmd.Flags().StringVar(&matchDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	matchJobCmd.Flags().StringVar(&matchProvider, "embedding-provider", "", "Embedding provider: gemini (default) or ollama")
	matchJobCmd.Flags().StringVar(&matchReferenceDate, "reference-date", "", "Pin 'today' for recency math (YYYY-MM-DD, defaults to the current date)")
	matchJobCmd.Flags().BoolVar(&matchUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	matchJobCmd.Flags().BoolVarP(&matchVerbose, "verbose", "v", false, "Print detailed debug information")
	matchJobCmd.Flags().StringVarP(&matchOutFile, "out", "o", "", "Write the full match response JSON to this file")

	rootCmd.AddCommand(matchJobCmd)
}

func runMatchJob(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if matchConfigPath != "" {
		loadedCfg, err := config.LoadConfig(matchConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Validate loaded config
		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if matchVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", matchConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("job") {
		cfg.Job = matchJob
	}
	if cmd.Flags().Changed("job-url") {
		cfg.JobURL = matchJobURL
	}
	if cmd.Flags().Changed("limit") {
		cfg.Limit = matchLimit
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = matchAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = matchDatabaseURL
	}
	if cmd.Flags().Changed("embedding-provider") {
		cfg.EmbeddingProvider = matchProvider
	}
	if cmd.Flags().Changed("reference-date") {
		cfg.ReferenceDate = matchReferenceDate
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = matchUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = matchVerbose
	}

	// Step 3: Validate required fields
	if cfg.Job == "" && cfg.JobURL == "" {
		return fmt.Errorf("either --job or --job-url must be provided (via flag or config)")
	}
	if cfg.Job != "" && cfg.JobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}

	// Step 4: API Key handling
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	// Step 5: Database URL handling
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	now, err := resolveClock(cfg.ReferenceDate)
	if err != nil {
		return err
	}

	// Step 6: Get the job description text
	var jdText string
	if cfg.JobURL != "" {
		jdText, _, err = ingestion.IngestFromURL(ctx, cfg.JobURL, cfg.UseBrowser, cfg.Verbose)
		if err != nil {
			return fmt.Errorf("failed to ingest from URL: %w", err)
		}
	} else {
		jdText, _, err = ingestion.IngestFromFile(cfg.Job)
		if err != nil {
			return fmt.Errorf("failed to ingest from file: %w", err)
		}
		if err := ingestion.ValidateJobDescription(jdText); err != nil {
			return err
		}
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	deps, err := pipeline.Build(ctx, database, pipeline.BuildOptions{
		APIKey: cfg.APIKey,
		Embedding: embedding.Config{
			Provider:       cfg.EmbeddingProvider,
			OllamaEndpoint: cfg.OllamaEndpoint,
			OllamaModel:    cfg.OllamaModel,
		},
		Verbose: cfg.Verbose,
		Now:     now,
	})
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer deps.Close()

	response, err := deps.RunEmployer(ctx, jdText, cfg.Limit, nil)
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}

	if matchOutFile != "" {
		jsonBytes, err := json.MarshalIndent(response, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal match response: %w", err)
		}
		if err := os.WriteFile(matchOutFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Match response written to: %s\n", matchOutFile)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Ranked %d candidates for role: %s\n", len(response.Results), response.RoleContext)
	for i, candidate := range response.Results {
		_, _ = fmt.Fprintf(os.Stdout, "%2d. %-30s %8.4f  %s\n",
			i+1, candidate.Name, candidate.Score, candidate.Confidence)
	}

	return nil
}
