package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/config"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/log"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/parser"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Parse a single document without loading it",
		Long: `Inspect parses one status-report document and prints the structured
result without touching the database. Use it to check what a deck will
produce before ingesting a whole directory.

Examples:
  # Show the parsed structure of one deck
  sosdash inspect weekly-decks/week-47.html

  # Full item detail
  sosdash inspect -v weekly-decks/week-47.html

  # JSON output for tooling
  sosdash inspect --json weekly-decks/week-47.html`,
		Args: cobra.ExactArgs(1),
		RunE: runInspectCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write output to specified file path (creates directories if needed)")

	return cmd
}

// runInspectCmd executes the inspect command.
func runInspectCmd(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.JSONOutput, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	cfg.MarkdownOutput, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if cfg.JSONOutput && cfg.MarkdownOutput {
		return config.ErrConflictingOutputFormats
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	p := parser.NewDeckParser(parser.WithLogger(logger))
	parsed, err := p.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	output, closeOutput, err := openOutput(cfg.OutputFile)
	if err != nil {
		return err
	}
	defer closeOutput()

	w := newWriter(cfg, output)
	_, err = w.WriteReport(parsed)
	return err
}
