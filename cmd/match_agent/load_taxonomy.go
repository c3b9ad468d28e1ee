package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-matcher/internal/db"
	"github.com/jonathan/candidate-matcher/internal/embedding"
	"github.com/jonathan/candidate-matcher/internal/textnorm"
	"github.com/jonathan/candidate-matcher/internal/types"
)

var loadTaxonomyCmd = &cobra.Command{
	Use:   "load-taxonomy",
	Short: "Seed the master skill taxonomy from a JSON file",
	Long: `Upsert master skills, implication edges, and weight tables from a JSON seed file.

Skills that lack an embedding get one generated and cached, so re-running the command against an updated seed file only embeds new skills. Re-seeding never wipes existing embeddings.`,
	RunE: runLoadTaxonomy,
}

var (
	seedFile           string
	seedDatabaseURL    string
	seedAPIKey         string
	seedProvider       string
	seedSkipEmbeddings bool
)

func init() {
	loadTaxonomyCmd.Flags().StringVarP(&seedFile, "seed", "s", "", "Path to taxonomy seed JSON file (required)")
	loadTaxonomyCmd.Flags().StringVar(&seedDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	loadTaxonomyCmd.Flags().StringVar(&seedAPIKey, "api-key", "", "Gemini API key for embedding generation (defaults to GEMINI_API_KEY env var)")
	loadTaxonomyCmd.Flags().StringVar(&seedProvider, "embedding-provider", "", "Embedding provider: gemini (default) or ollama")
	loadTaxonomyCmd.Flags().BoolVar(&seedSkipEmbeddings, "skip-embeddings", false, "Seed skills and weights without generating embeddings")

	_ = loadTaxonomyCmd.MarkFlagRequired("seed")

	rootCmd.AddCommand(loadTaxonomyCmd)
}

// taxonomySeed is the on-disk seed file shape. Aliases, tokens, and rules are
// authored as structured JSON here and stored as raw JSON columns.
type taxonomySeed struct {
	Skills       []seedSkill        `json:"skills"`
	Implications []seedImplication  `json:"implications,omitempty"`
	BaseWeights  map[string]float64 `json:"base_weights,omitempty"`
	RoleWeights  []seedRoleWeight   `json:"role_weights,omitempty"`
}

type seedSkill struct {
	Code       string                     `json:"skill_code"`
	Name       string                     `json:"skill_name"`
	SkillType  string                     `json:"skill_type"`
	Category   string                     `json:"category,omitempty"`
	ParentCode string                     `json:"parent_skill_code,omitempty"`
	Aliases    []string                   `json:"aliases,omitempty"`
	Tokens     []string                   `json:"tokens,omitempty"`
	Rules      *types.DisambiguationRules `json:"disambiguation_rules,omitempty"`
}

type seedImplication struct {
	FromCode string `json:"from_skill_code"`
	ToCode   string `json:"to_skill_code"`
}

type seedRoleWeight struct {
	PrimaryDomain  string  `json:"primary_domain"`
	SeniorityLevel string  `json:"seniority_level"`
	SkillType      string  `json:"skill_type"`
	Multiplier     float64 `json:"multiplier"`
}

func runLoadTaxonomy(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed taxonomySeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed JSON: %w", err)
	}
	if err := validateSeed(&seed); err != nil {
		return err
	}

	databaseURL := seedDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
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

	// Pass 1: upsert every skill so all codes exist before parents link up.
	for i := range seed.Skills {
		skill, err := seed.Skills[i].toMasterSkill()
		if err != nil {
			return fmt.Errorf("skill %s: %w", seed.Skills[i].Code, err)
		}
		if _, err := database.UpsertMasterSkill(ctx, skill); err != nil {
			return fmt.Errorf("failed to upsert skill %s: %w", skill.Code, err)
		}
	}
	_, _ = fmt.Fprintf(os.Stdout, "Upserted %d master skills\n", len(seed.Skills))

	// The known-code set covers skills already in the database too, so an
	// incremental seed file may reference codes it does not itself define.
	existing, err := database.LoadMasterSkills(ctx)
	if err != nil {
		return fmt.Errorf("failed to load master skills: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for i := range existing {
		known[existing[i].Code] = true
	}

	// Pass 2: parent links.
	for i := range seed.Skills {
		s := &seed.Skills[i]
		if s.ParentCode == "" {
			continue
		}
		if !known[s.ParentCode] {
			return fmt.Errorf("skill %s references unknown parent %s", s.Code, s.ParentCode)
		}
		if err := database.SetSkillParent(ctx, s.Code, s.ParentCode); err != nil {
			return fmt.Errorf("failed to link %s to parent %s: %w", s.Code, s.ParentCode, err)
		}
	}

	// Implication edges. Edges naming unknown codes are skipped rather than
	// fatal: a trimmed seed file should not block the rest of the load.
	skippedEdges := 0
	for _, imp := range seed.Implications {
		if !known[imp.FromCode] || !known[imp.ToCode] {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: skipping implication %s -> %s (unknown skill code)\n",
				imp.FromCode, imp.ToCode)
			skippedEdges++
			continue
		}
		if err := database.UpsertSkillImplication(ctx, imp.FromCode, imp.ToCode); err != nil {
			return fmt.Errorf("failed to upsert implication %s -> %s: %w", imp.FromCode, imp.ToCode, err)
		}
	}
	_, _ = fmt.Fprintf(os.Stdout, "Upserted %d implication edges (%d skipped)\n",
		len(seed.Implications)-skippedEdges, skippedEdges)

	// Weight tables, in sorted order so reruns touch rows deterministically.
	skillTypes := make([]string, 0, len(seed.BaseWeights))
	for skillType := range seed.BaseWeights {
		skillTypes = append(skillTypes, skillType)
	}
	sort.Strings(skillTypes)
	for _, skillType := range skillTypes {
		if err := database.UpsertBaseWeight(ctx, skillType, seed.BaseWeights[skillType]); err != nil {
			return fmt.Errorf("failed to upsert base weight for %s: %w", skillType, err)
		}
	}
	for _, rw := range seed.RoleWeights {
		if err := database.UpsertRoleWeight(ctx, rw.PrimaryDomain, rw.SeniorityLevel, rw.SkillType, rw.Multiplier); err != nil {
			return fmt.Errorf("failed to upsert role weight %s/%s/%s: %w",
				rw.PrimaryDomain, rw.SeniorityLevel, rw.SkillType, err)
		}
	}
	_, _ = fmt.Fprintf(os.Stdout, "Upserted %d base weights, %d role weights\n",
		len(seed.BaseWeights), len(seed.RoleWeights))

	if seedSkipEmbeddings {
		_, _ = fmt.Fprintf(os.Stdout, "Skipping embedding generation (--skip-embeddings)\n")
		return nil
	}

	return generateMissingEmbeddings(ctx, database, existing)
}

// generateMissingEmbeddings embeds the canonicalized name of every skill that
// has no vector yet. The cache-backed engine means a re-seed after a partial
// failure resumes without re-paying for vectors already generated.
func generateMissingEmbeddings(ctx context.Context, database *db.DB, skills []types.MasterSkill) error {
	apiKey := seedAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" && (seedProvider == "" || seedProvider == embedding.ProviderGemini) {
		return fmt.Errorf("embedding generation needs GEMINI_API_KEY (or pass --embedding-provider ollama, or --skip-embeddings)")
	}

	engine, err := embedding.New(ctx, embedding.Config{Provider: seedProvider}, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create embedding engine: %w", err)
	}
	defer engine.Close() //nolint:errcheck
	cached := embedding.NewCachedEngine(engine, database.EmbeddingCache())

	generated := 0
	for i := range skills {
		skill := &skills[i]
		if len(skill.Embedding) > 0 {
			continue
		}
		vec, err := cached.Embed(ctx, textnorm.Canonicalize(skill.Name))
		if err != nil {
			return fmt.Errorf("failed to embed skill %s: %w", skill.Code, err)
		}
		if err := database.SetSkillEmbedding(ctx, skill.Code, vec); err != nil {
			return fmt.Errorf("failed to store embedding for %s: %w", skill.Code, err)
		}
		generated++
	}

	// Read back the persisted index so the summary reflects what matching
	// will actually see, not just what this run wrote.
	entries, err := database.LoadVectorEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify vector index: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Generated %d embeddings; vector index covers %d of %d skills\n",
		generated, len(entries), len(skills))
	return nil
}

// validateSeed rejects files that would seed an unusable taxonomy.
func validateSeed(seed *taxonomySeed) error {
	if len(seed.Skills) == 0 {
		return fmt.Errorf("seed file contains no skills")
	}

	codes := make(map[string]bool, len(seed.Skills))
	for i := range seed.Skills {
		s := &seed.Skills[i]
		if s.Code == "" {
			return fmt.Errorf("skill at index %d has no skill_code", i)
		}
		if s.Name == "" {
			return fmt.Errorf("skill %s has no skill_name", s.Code)
		}
		if codes[s.Code] {
			return fmt.Errorf("duplicate skill_code in seed file: %s", s.Code)
		}
		codes[s.Code] = true
	}

	for _, imp := range seed.Implications {
		if imp.FromCode == "" || imp.ToCode == "" {
			return fmt.Errorf("implication with empty endpoint: %q -> %q", imp.FromCode, imp.ToCode)
		}
		if imp.FromCode == imp.ToCode {
			return fmt.Errorf("self-referential implication: %s", imp.FromCode)
		}
	}

	for _, rw := range seed.RoleWeights {
		if rw.PrimaryDomain == "" || rw.SeniorityLevel == "" || rw.SkillType == "" {
			return fmt.Errorf("role weight with empty key: %q/%q/%q",
				rw.PrimaryDomain, rw.SeniorityLevel, rw.SkillType)
		}
	}

	return nil
}

// toMasterSkill converts a seed entry to the persisted row shape. List and
// rule payloads are stored as raw JSON; empty ones stay empty strings.
func (s *seedSkill) toMasterSkill() (*types.MasterSkill, error) {
	skill := &types.MasterSkill{
		Code:      s.Code,
		Name:      s.Name,
		SkillType: s.SkillType,
		Category:  s.Category,
	}

	if len(s.Aliases) > 0 {
		raw, err := json.Marshal(s.Aliases)
		if err != nil {
			return nil, fmt.Errorf("failed to encode aliases: %w", err)
		}
		skill.Aliases = string(raw)
	}
	if len(s.Tokens) > 0 {
		raw, err := json.Marshal(s.Tokens)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tokens: %w", err)
		}
		skill.Tokens = string(raw)
	}
	if s.Rules != nil {
		raw, err := json.Marshal(s.Rules)
		if err != nil {
			return nil, fmt.Errorf("failed to encode disambiguation rules: %w", err)
		}
		skill.Rules = string(raw)
	}

	return skill, nil
}
