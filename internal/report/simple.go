package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/model"
)

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables per-item detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with per-item details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteRun outputs the run summary in human-readable format.
func (w *SimpleWriter) WriteRun(run *model.IngestRun) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, run)
	w.writeOutcomes(&sb, run)
	w.writeTotals(&sb, run)
	w.writeValidation(&sb, run)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the run header.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, run *model.IngestRun) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        INGEST RUN SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Source Dir: %s\n", run.SourceDir))
	sb.WriteString(fmt.Sprintf("Started:    %s\n", run.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Documents:  %d\n", len(run.Outcomes)))
	sb.WriteString("\n")
}

// writeOutcomes writes the per-document parse and load results.
func (w *SimpleWriter) writeOutcomes(sb *strings.Builder, run *model.IngestRun) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("DOCUMENTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(run.Outcomes) == 0 {
		sb.WriteString("  No documents found\n\n")
		return
	}

	for i := range run.Outcomes {
		o := &run.Outcomes[i]
		if o.OK() {
			sb.WriteString(fmt.Sprintf("  [+] %s (%s, %d teams)\n",
				o.File,
				o.Report.PeriodEndDate.Format("2006-01-02"),
				len(o.Report.Teams),
			))
			if w.verbose {
				for j := range o.Report.Teams {
					team := &o.Report.Teams[j]
					sb.WriteString(fmt.Sprintf("      %s: %d items\n", team.Name, team.ItemCount()))
				}
			}
		} else {
			sb.WriteString(fmt.Sprintf("  [x] %s: %s\n", o.File, o.ErrorMessage))
		}
	}
	sb.WriteString("\n")
}

// writeTotals writes the load counters and item totals.
func (w *SimpleWriter) writeTotals(sb *strings.Builder, run *model.IngestRun) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("LOADED\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Reports loaded:  %d\n", run.ReportsLoaded))
	sb.WriteString(fmt.Sprintf("  Reports failed:  %d\n", run.ReportsFailed))
	sb.WriteString(fmt.Sprintf("  Teams skipped:   %d\n", run.TeamsSkipped))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Accomplishments: %d\n", run.Totals.Accomplishments))
	sb.WriteString(fmt.Sprintf("  Goals:           %d\n", run.Totals.Goals))
	sb.WriteString(fmt.Sprintf("  Blockers:        %d\n", run.Totals.Blockers))
	sb.WriteString(fmt.Sprintf("  Risks:           %d\n", run.Totals.Risks))
	sb.WriteString(fmt.Sprintf("  TOTAL:           %d items\n", run.Totals.Sum()))
	sb.WriteString("\n")
}

// writeValidation writes the count-audit verdict.
func (w *SimpleWriter) writeValidation(sb *strings.Builder, run *model.IngestRun) {
	if run.Validation == nil {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("VALIDATION\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if run.Validation.Passed {
		sb.WriteString("  Status: PASSED\n")
	} else {
		sb.WriteString("  Status: MISMATCH (advisory)\n")
		for _, m := range run.Validation.Mismatches {
			sb.WriteString(fmt.Sprintf("    - %s\n", m))
		}
	}
	sb.WriteString("\n")
}

// WriteReport outputs a single parsed report in human-readable format.
func (w *SimpleWriter) WriteReport(report *model.ParsedReport) (int, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s\n", report.Title))
	sb.WriteString(fmt.Sprintf("Period End: %s\n\n", report.PeriodEndDate.Format("2006-01-02")))

	for i := range report.Teams {
		team := &report.Teams[i]
		sb.WriteString(fmt.Sprintf("%s", team.Name))
		if team.Lead != "" {
			sb.WriteString(fmt.Sprintf(" (lead: %s)", team.Lead))
		}
		sb.WriteString("\n")

		w.writeItems(&sb, "Accomplishments", team.Accomplishments)
		w.writeItems(&sb, "Goals", team.Goals)
		w.writeItems(&sb, "Blockers", team.Blockers)
		w.writeItems(&sb, "Risks", team.Risks)
		sb.WriteString("\n")
	}

	return w.output.Write([]byte(sb.String()))
}

// writeItems writes one kind of item list for a team.
func (w *SimpleWriter) writeItems(sb *strings.Builder, label string, items []model.ParsedItem) {
	sb.WriteString(fmt.Sprintf("  %s: %d\n", label, len(items)))
	if !w.verbose {
		return
	}
	for i := range items {
		item := &items[i]
		sb.WriteString(fmt.Sprintf("    - %s", item.Description))
		if item.TicketID != "" {
			sb.WriteString(fmt.Sprintf(" [%s]", item.TicketID))
		}
		sb.WriteString("\n")
	}
}
