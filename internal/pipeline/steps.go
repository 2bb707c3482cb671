package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/database"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/loader"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/model"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/parser"
)

// DefaultConcurrency is the number of documents parsed simultaneously
// when no explicit limit is configured.
const DefaultConcurrency = 4

// DefaultExtension is the file extension ingested from the source
// directory when no explicit extension is configured.
const DefaultExtension = ".html"

// ParseStep reads every matching document from the run's source
// directory and parses each one into a structured report.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each document gets its own goroutine, but only 'concurrency'
// goroutines run simultaneously. Outcomes are written to pre-allocated
// slots indexed by file position, so the batch stays in file-name order
// regardless of completion order.
type ParseStep struct {
	// parser converts one document into a structured report.
	parser *parser.DeckParser

	// extension selects which directory entries count as documents.
	extension string

	// concurrency limits simultaneous parses.
	concurrency int

	// logger for structured logging.
	logger *slog.Logger
}

// ParseStepOption configures a ParseStep.
type ParseStepOption func(*ParseStep)

// WithExtension sets the file extension that identifies documents.
// The comparison is case-insensitive.
func WithExtension(extension string) ParseStepOption {
	return func(s *ParseStep) {
		s.extension = extension
	}
}

// WithConcurrency sets the number of documents parsed simultaneously.
func WithConcurrency(concurrency int) ParseStepOption {
	return func(s *ParseStep) {
		if concurrency > 0 {
			s.concurrency = concurrency
		}
	}
}

// WithParseLogger sets a custom logger for the parse step.
func WithParseLogger(logger *slog.Logger) ParseStepOption {
	return func(s *ParseStep) {
		s.logger = logger
	}
}

// NewParseStep creates a parse step using the given document parser.
func NewParseStep(p *parser.DeckParser, opts ...ParseStepOption) *ParseStep {
	s := &ParseStep{
		parser:      p,
		extension:   DefaultExtension,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ParseStep) Name() string {
	return "parse"
}

// Do reads the source directory and parses every matching document.
// A document that fails to parse is recorded as a failed outcome; the
// step itself only fails when the directory cannot be read.
func (s *ParseStep) Do(ctx context.Context, run *model.IngestRun) error {
	entries, err := os.ReadDir(run.SourceDir)
	if err != nil {
		return fmt.Errorf("failed to read source directory: %w", err)
	}

	// ReadDir returns entries sorted by name, which fixes batch order.
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), s.extension) {
			continue
		}
		files = append(files, entry.Name())
	}

	if len(files) == 0 {
		s.logger.Warn("no documents found",
			"dir", run.SourceDir,
			"extension", s.extension,
		)
	}

	run.Outcomes = make([]model.ParseOutcome, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, file := range files {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			outcome := model.ParseOutcome{File: file}

			report, err := s.parser.ParseFile(filepath.Join(run.SourceDir, file))
			if err != nil {
				s.logger.Warn("parse failed",
					"file", file,
					"error", err,
				)
				outcome.ErrorMessage = err.Error()
			} else {
				s.logger.Debug("parse completed",
					"file", file,
					"teams", len(report.Teams),
				)
				outcome.Report = report
			}

			// Failed parses stay in the batch as failed outcomes, so
			// returning nil keeps the other documents running.
			run.Outcomes[i] = outcome
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.Info("documents parsed",
		"total", len(files),
		"failed", len(run.Failed()),
	)
	return nil
}

// ResolveStep resolves every team and lead name in the batch to a store
// identifier, creating missing entities by natural key.
type ResolveStep struct {
	resolver *loader.Resolver
}

// NewResolveStep creates a resolve step backed by the given store.
func NewResolveStep(db *database.ReportDB, opts ...loader.ResolverOption) *ResolveStep {
	return &ResolveStep{resolver: loader.NewResolver(db, opts...)}
}

// Name returns the step name.
func (s *ResolveStep) Name() string {
	return "resolve"
}

// Do resolves references for the whole batch.
func (s *ResolveStep) Do(ctx context.Context, run *model.IngestRun) error {
	return s.resolver.Resolve(ctx, run)
}

// LoadStep persists every successfully parsed report.
type LoadStep struct {
	loader *loader.Loader
}

// NewLoadStep creates a load step backed by the given store.
func NewLoadStep(db *database.ReportDB, opts ...loader.LoaderOption) *LoadStep {
	return &LoadStep{loader: loader.NewLoader(db, opts...)}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do loads the batch into the store.
func (s *LoadStep) Do(ctx context.Context, run *model.IngestRun) error {
	return s.loader.Load(ctx, run)
}

// ValidateStep audits the store's entity counts against the counts
// accumulated during the run. The verdict lands on the run; a mismatch
// never fails the step.
type ValidateStep struct {
	db     *database.ReportDB
	logger *slog.Logger
}

// ValidateStepOption configures a ValidateStep.
type ValidateStepOption func(*ValidateStep)

// WithValidateLogger sets a custom logger for the validate step.
func WithValidateLogger(logger *slog.Logger) ValidateStepOption {
	return func(s *ValidateStep) {
		s.logger = logger
	}
}

// NewValidateStep creates a validate step backed by the given store.
func NewValidateStep(db *database.ReportDB, opts ...ValidateStepOption) *ValidateStep {
	s := &ValidateStep{
		db:     db,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ValidateStep) Name() string {
	return "validate"
}

// Do runs the count audit and records the verdict on the run.
func (s *ValidateStep) Do(ctx context.Context, run *model.IngestRun) error {
	result, err := loader.Validate(ctx, s.db, run)
	if err != nil {
		return err
	}

	run.Validation = result
	if result.Passed {
		s.logger.Info("validation passed", "counts", result.Actual)
	} else {
		for _, mismatch := range result.Mismatches {
			s.logger.Warn("validation mismatch", "detail", mismatch)
		}
	}
	return nil
}
