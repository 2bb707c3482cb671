package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/config"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/database"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/loader"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/log"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/model"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/pipeline"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/transcript"
)

// NewTranscriptCmd creates the transcript command.
func NewTranscriptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcript <file>",
		Short: "Extract a status report from a meeting transcript",
		Long: `Transcript sends a free-form meeting transcript to an LLM provider and
extracts a structured status report from it. Use "-" to read the
transcript from stdin.

The provider API key is read from the OPENAI_API_KEY environment
variable, falling back to the transcript.api_key entry of the
configuration file. Any OpenAI-compatible endpoint works via
--base-url.

By default the extracted report is printed without loading it; pass
--load to resolve, load, and validate it against the database like an
ingested document.

Examples:
  # Print the extracted report
  sosdash transcript standup-notes.txt

  # Read from stdin and load into the database
  cat standup-notes.txt | sosdash transcript --load -

  # Use OpenRouter instead of OpenAI
  sosdash transcript --base-url https://openrouter.ai/api/v1 --model openai/gpt-4o-mini standup-notes.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runTranscriptCmd,
	}

	cmd.Flags().String("model", "",
		"Provider model for extraction (default from config, then "+config.DefaultTranscriptModel+")")
	cmd.Flags().String("base-url", "",
		"OpenAI-compatible endpoint override")
	cmd.Flags().BoolP("load", "l", false,
		"Load the extracted report into the database")
	cmd.Flags().StringP("db", "D", "",
		"Database directory (default: XDG data directory)")
	cmd.Flags().BoolP("replace", "r", false,
		"Replace a report whose period-end date already exists")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sosdash in current or home directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write output to specified file path (creates directories if needed)")

	return cmd
}

// runTranscriptCmd executes the transcript command.
func runTranscriptCmd(cmd *cobra.Command, args []string) error {
	cfg, load, err := buildTranscriptConfig(cmd)
	if err != nil {
		return err
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	text, err := readTranscript(cmd, args[0])
	if err != nil {
		return err
	}

	if cfg.APIKey == "" {
		return config.ErrNoAPIKey
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	p := transcript.NewOpenAIParser(cfg.APIKey,
		transcript.WithModel(cfg.TranscriptModel),
		transcript.WithBaseURL(cfg.TranscriptBaseURL),
		transcript.WithTranscriptLogger(logger),
	)

	parsed, err := p.Parse(ctx, text)
	if err != nil {
		return fmt.Errorf("transcript extraction failed: %w", err)
	}

	if !load {
		output, closeOutput, err := openOutput(cfg.OutputFile)
		if err != nil {
			return err
		}
		defer closeOutput()

		w := newWriter(cfg, output)
		_, err = w.WriteReport(parsed)
		return err
	}

	return loadTranscriptReport(ctx, cfg, logger, args[0], parsed)
}

// buildTranscriptConfig creates a Config from the transcript command's flags.
func buildTranscriptConfig(cmd *cobra.Command) (*config.Config, bool, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.APIKey = os.Getenv("OPENAI_API_KEY")

	var err error

	model, err := cmd.Flags().GetString("model")
	if err != nil {
		return nil, false, err
	}
	if model != "" {
		cfg.TranscriptModel = model
	}

	cfg.TranscriptBaseURL, err = cmd.Flags().GetString("base-url")
	if err != nil {
		return nil, false, err
	}

	load, err := cmd.Flags().GetBool("load")
	if err != nil {
		return nil, false, err
	}

	dbDir, err := cmd.Flags().GetString("db")
	if err != nil {
		return nil, false, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	cfg.Replace, err = cmd.Flags().GetBool("replace")
	if err != nil {
		return nil, false, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, false, err
	}

	cfg.JSONOutput, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, false, err
	}

	cfg.MarkdownOutput, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, false, err
	}
	if cfg.JSONOutput && cfg.MarkdownOutput {
		return nil, false, config.ErrConflictingOutputFormats
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, false, err
	}

	if err := loadConfigFile(cfg); err != nil {
		return nil, false, err
	}

	return cfg, load, nil
}

// readTranscript reads the transcript from a file, or stdin for "-".
func readTranscript(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read transcript from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-provided transcript path is intentional
	if err != nil {
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}
	return string(data), nil
}

// loadTranscriptReport runs the extracted report through the resolve,
// load, and validate steps like an ingested document.
func loadTranscriptReport(ctx context.Context, cfg *config.Config, logger *slog.Logger, source string, parsed *model.ParsedReport) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	run := model.NewIngestRun(source)
	run.Outcomes = []model.ParseOutcome{{File: source, Report: parsed}}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewResolveStep(db, loader.WithResolverLogger(logger)),
		pipeline.NewLoadStep(db,
			loader.WithLoaderLogger(logger),
			loader.WithReplace(cfg.Replace),
		),
		pipeline.NewValidateStep(db, pipeline.WithValidateLogger(logger)),
	)

	if err := p.Execute(ctx, run); err != nil {
		return fmt.Errorf("failed to load transcript report: %w", err)
	}

	return outputRunSummary(cfg, run)
}
