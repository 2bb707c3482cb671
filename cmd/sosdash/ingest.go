package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/config"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/database"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/loader"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/log"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/model"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/parser"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/pipeline"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/report"
)

// NewIngestCmd creates the ingest command.
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <directory>",
		Short: "Parse and load a directory of status-report documents",
		Long: `Ingest parses every matching document in the directory, resolves team
and lead names to database records, loads the reports with their nested
items, and audits the resulting entity counts.

A document that fails to parse is reported and skipped; the rest of the
batch continues. A report whose period-end date already exists in the
database fails on its own unless --replace is given.

Examples:
  # Ingest all .html decks from a directory
  sosdash ingest weekly-decks/

  # Re-ingest, replacing reports that already exist for the same week
  sosdash ingest --replace weekly-decks/

  # Write a JSON run summary to a file
  sosdash ingest --json --output summary.json weekly-decks/

Configuration file (.sosdash) example:
  source_dir: weekly-decks
  db_dir: /var/lib/sosdash
  concurrency: 8`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIngestCmd,
	}

	cmd.Flags().StringP("db", "D", "",
		"Database directory (default: XDG data directory)")
	cmd.Flags().StringP("extension", "e", config.DefaultExtension,
		"File extension of status-report documents")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of documents parsed concurrently")
	cmd.Flags().BoolP("replace", "r", false,
		"Replace reports whose period-end date already exists")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sosdash in current or home directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON run summary (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown run summary (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write run summary to specified file path (creates directories if needed)")

	return cmd
}

// runIngestCmd executes the ingest command.
func runIngestCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runIngest(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	if len(args) > 0 {
		cfg.SourceDir = args[0]
	}

	dbDir, err := cmd.Flags().GetString("db")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	cfg.Extension, err = cmd.Flags().GetString("extension")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.Replace, err = cmd.Flags().GetBool("replace")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.JSONOutput, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownOutput, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	if err := loadConfigFile(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadConfigFile merges the configuration file into cfg.
// If the user explicitly specified a config file path, error if not found.
// If no path specified, silently skip when no file exists.
func loadConfigFile(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)

	if path == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	cfg.Apply(file)
	return nil
}

// runIngest executes the full ingest pipeline.
func runIngest(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting ingest",
		"sourceDir", cfg.SourceDir,
		"dbDir", cfg.DBDir,
		"concurrency", cfg.Concurrency,
		"replace", cfg.Replace,
	)

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewParseStep(
			parser.NewDeckParser(parser.WithLogger(logger)),
			pipeline.WithExtension(cfg.Extension),
			pipeline.WithConcurrency(cfg.Concurrency),
			pipeline.WithParseLogger(logger),
		),
		pipeline.NewResolveStep(db, loader.WithResolverLogger(logger)),
		pipeline.NewLoadStep(db,
			loader.WithLoaderLogger(logger),
			loader.WithReplace(cfg.Replace),
		),
		pipeline.NewValidateStep(db, pipeline.WithValidateLogger(logger)),
	)

	run := model.NewIngestRun(cfg.SourceDir)

	start := time.Now()
	if err := p.Execute(ctx, run); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	logger.Info("ingest completed",
		"elapsed", time.Since(start).Round(time.Millisecond),
		"loaded", run.ReportsLoaded,
		"failed", run.ReportsFailed,
	)

	return outputRunSummary(cfg, run)
}

// outputRunSummary writes the run summary in the requested format.
func outputRunSummary(cfg *config.Config, run *model.IngestRun) error {
	output, closeOutput, err := openOutput(cfg.OutputFile)
	if err != nil {
		return err
	}
	defer closeOutput()

	w := newWriter(cfg, output)
	_, err = w.WriteRun(run)
	return err
}

// newWriter selects the summary writer for the configured format.
func newWriter(cfg *config.Config, output *os.File) report.Writer {
	if cfg.JSONOutput {
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	}
	if cfg.MarkdownOutput {
		return report.NewMarkdownWriter(output)
	}
	return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
}

// openOutput opens the summary destination, defaulting to stdout.
// The returned close function is a no-op for stdout.
func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
