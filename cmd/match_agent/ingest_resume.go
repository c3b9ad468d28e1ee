package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-matcher/internal/db"
	"github.com/jonathan/candidate-matcher/internal/embedding"
	"github.com/jonathan/candidate-matcher/internal/pipeline"
)

var ingestResumeCmd = &cobra.Command{
	Use:   "ingest-resume",
	Short: "Ingest a resume PDF into a candidate skill profile",
	Long:  "Extract identity and work experience from a resume PDF, aggregate skill evidence against the master taxonomy, and store the candidate profile.",
	RunE:  runIngestResume,
}

var (
	ingestResumePath    string
	ingestDatabaseURL   string
	ingestAPIKey        string
	ingestProvider      string
	ingestReferenceDate string
	ingestVerbose       bool
)

func init() {
	ingestResumeCmd.Flags().StringVarP(&ingestResumePath, "resume", "r", "", "Path to resume PDF file (required)")
	ingestResumeCmd.Flags().StringVar(&ingestDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	ingestResumeCmd.Flags().StringVar(&ingestAPIKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY env var)")
	ingestResumeCmd.Flags().StringVar(&ingestProvider, "embedding-provider", "", "Embedding provider: gemini (default) or ollama")
	ingestResumeCmd.Flags().StringVar(&ingestReferenceDate, "reference-date", "", "Pin 'today' for tenure math (YYYY-MM-DD, defaults to the current date)")
	ingestResumeCmd.Flags().BoolVarP(&ingestVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = ingestResumeCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(ingestResumeCmd)
}

func runIngestResume(_ *cobra.Command, _ []string) error {
	apiKey := ingestAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	databaseURL := ingestDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	now, err := resolveClock(ingestReferenceDate)
	if err != nil {
		return err
	}

	pdf, err := os.ReadFile(ingestResumePath)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		return fmt.Errorf("resume file is not a PDF: %s", ingestResumePath)
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	deps, err := pipeline.Build(ctx, database, pipeline.BuildOptions{
		APIKey:    apiKey,
		Embedding: embedding.Config{Provider: ingestProvider},
		Verbose:   ingestVerbose,
		Now:       now,
	})
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer deps.Close()

	profile, err := deps.RunCandidate(ctx, pdf, nil)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully ingested resume for %s\n", profile.FullName)
	_, _ = fmt.Fprintf(os.Stdout, "Candidate ID: %d\n", profile.CandidateID)
	_, _ = fmt.Fprintf(os.Stdout, "Verified roles: %d, distinct skills: %d\n", len(profile.Roles), profile.SkillCount)

	return nil
}

// resolveClock turns an optional YYYY-MM-DD flag into the clock the tenure
// math uses. An empty flag means the real current date.
func resolveClock(referenceDate string) (func() time.Time, error) {
	if referenceDate == "" {
		return time.Now, nil
	}
	ref, err := time.Parse("2006-01-02", referenceDate)
	if err != nil {
		return nil, fmt.Errorf("invalid --reference-date (want YYYY-MM-DD): %s", referenceDate)
	}
	return func() time.Time { return ref }, nil
}
