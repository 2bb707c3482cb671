// Package main provides the entry point for the sosdash CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sosdash.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sosdash",
		Short: "Ingest Scrum of Scrums status reports into a local database",
		Long: `sosdash parses recurring "Scrum of Scrums" slide-deck documents into
normalized status records (accomplishments, goals, blockers, risks) and
loads them into a local SQLite database.

Documents are tolerated, not trusted: a malformed deck fails on its own
while the rest of the batch continues, and a post-load count audit
reports any divergence between parsed and stored records.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewInspectCmd())
	cmd.AddCommand(NewTranscriptCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
