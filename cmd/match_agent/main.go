// Package main provides the entry point for the Candidate Matcher HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "match_agent",
	Short: "Candidate Matcher HTTP API Server",
	Long:  "Candidate Matcher ingests resumes into time-weighted skill profiles and ranks stored candidates against parsed job descriptions via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
