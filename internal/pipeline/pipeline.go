// Package pipeline orchestrates the two background job flows: candidate
// resume ingestion and employer matching. Both flows report coarse progress
// milestones so the jobs table can surface them to polling clients.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-matcher/internal/db"
	"github.com/jonathan/candidate-matcher/internal/embedding"
	"github.com/jonathan/candidate-matcher/internal/extraction"
	"github.com/jonathan/candidate-matcher/internal/llm"
	"github.com/jonathan/candidate-matcher/internal/matching"
	"github.com/jonathan/candidate-matcher/internal/observability"
	"github.com/jonathan/candidate-matcher/internal/parsing"
	"github.com/jonathan/candidate-matcher/internal/ranking"
	"github.com/jonathan/candidate-matcher/internal/taxonomy"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// ProgressFunc receives progress milestones as a job flow reaches them.
type ProgressFunc func(progress int, message string)

// report calls the progress callback if one is configured.
func report(fn ProgressFunc, progress int, message string) {
	if fn != nil {
		fn(progress, message)
	}
}

// ResumeExtractor is the LLM extraction surface of the candidate flow.
type ResumeExtractor interface {
	Sections(ctx context.Context, pdf []byte) (*extraction.SectionChunks, error)
	Identity(ctx context.Context, chunks *extraction.SectionChunks) (*types.Identity, error)
	RawExperience(ctx context.Context, chunks *extraction.SectionChunks) ([]types.RawExperienceItem, error)
}

// CandidateStore is the persistence surface of the candidate flow.
type CandidateStore interface {
	InsertCandidate(ctx context.Context, fullName, email string, experienceJSON []byte) (int64, error)
	UpsertCandidateSkills(ctx context.Context, candidateID int64, metrics []types.SkillMetrics) error
}

// Ranker gates and scores candidates against a parsed job profile.
type Ranker interface {
	Rank(ctx context.Context, profile *types.JobSkillProfile, limit int) (*types.MatchResponse, error)
}

// JobParser turns cleaned job description text into a validated profile.
type JobParser func(ctx context.Context, jdText string) (*types.JobSkillProfile, error)

// Deps bundles everything the job flows need. Build assembles the production
// set from a database connection; tests substitute fakes per field.
type Deps struct {
	Extractor  ResumeExtractor
	Matcher    *matching.Matcher
	Candidates CandidateStore
	Ranker     Ranker
	ParseJob   JobParser
	Now        func() time.Time
	Verbose    bool
	Printer    *observability.Printer

	closers []func() error
}

// Close releases the provider connections Build opened. Deps assembled by
// tests from fakes have nothing to close.
func (d *Deps) Close() {
	for _, closeFn := range d.closers {
		if err := closeFn(); err != nil {
			log.Printf("[ENGINE] close failed: %v", err)
		}
	}
}

// BuildOptions configures dependency assembly.
type BuildOptions struct {
	APIKey    string
	Embedding embedding.Config
	Verbose   bool
	Now       func() time.Time
}

// Build assembles the production dependency set: the taxonomy snapshot is
// loaded from the store, the matcher and ranking engine are built on top of
// it, and the extraction vocabulary is derived from what the taxonomy knows.
// The snapshot is read once; reseeding the taxonomy requires a restart.
func Build(ctx context.Context, database *db.DB, opts BuildOptions) (*Deps, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	var (
		skills       []types.MasterSkill
		implications []types.SkillImplication
		domains      []string
		categories   []string
		baseWeights  map[string]float64
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		skills, err = database.LoadMasterSkills(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		implications, err = database.LoadSkillImplications(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		domains, err = database.LoadPrimaryDomains(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = database.LoadCategories(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		baseWeights, err = database.LoadBaseWeights(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load taxonomy snapshot: %w", err)
	}
	if len(skills) == 0 {
		return nil, fmt.Errorf("taxonomy is empty, seed it with load-taxonomy first")
	}
	if len(baseWeights) == 0 {
		log.Printf("[ENGINE] skill_type_weights is empty, every skill type will weigh 1.0")
	}

	index := taxonomy.NewIndex(skills, implications)

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), opts.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	engine, err := embedding.New(ctx, opts.Embedding, opts.APIKey)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to create embedding engine: %w", err)
	}
	cached := embedding.NewCachedEngine(engine, database.EmbeddingCache())

	matcher := matching.New(index, cached.Embed)
	hints := parsing.TaxonomyHints{PrimaryDomains: domains, Categories: categories}

	return &Deps{
		Extractor:  extraction.New(client),
		Matcher:    matcher,
		Candidates: database,
		Ranker:     ranking.NewEngine(database, index, matcher, opts.Now),
		ParseJob: func(ctx context.Context, jdText string) (*types.JobSkillProfile, error) {
			return parsing.ParseJobProfile(ctx, jdText, opts.APIKey, hints)
		},
		Now:     opts.Now,
		Verbose: opts.Verbose,
		Printer: observability.NewPrinter(os.Stdout),
		closers: []func() error{client.Close, cached.Close},
	}, nil
}
