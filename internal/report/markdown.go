package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/model"
)

// MarkdownWriter outputs summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteRun outputs the run summary in Markdown format.
func (w *MarkdownWriter) WriteRun(run *model.IngestRun) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Ingest Run Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source Dir", "`" + run.SourceDir + "`"},
			{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Documents", strconv.Itoa(len(run.Outcomes))},
			{"Reports Loaded", strconv.Itoa(run.ReportsLoaded)},
			{"Reports Failed", strconv.Itoa(run.ReportsFailed)},
			{"Teams Skipped", strconv.Itoa(run.TeamsSkipped)},
		},
	})
	md.PlainText("")

	w.writeDocuments(md, run)
	w.writeTotals(md, run)
	w.writeValidation(md, run)

	return len(md.String()), md.Build()
}

// writeDocuments writes the per-document results table.
func (w *MarkdownWriter) writeDocuments(md *markdown.Markdown, run *model.IngestRun) {
	if len(run.Outcomes) == 0 {
		return
	}

	md.H2("Documents")
	md.PlainText("")

	rows := make([][]string, 0, len(run.Outcomes))
	for i := range run.Outcomes {
		o := &run.Outcomes[i]
		if o.OK() {
			rows = append(rows, []string{
				"`" + o.File + "`",
				o.Report.PeriodEndDate.Format("2006-01-02"),
				strconv.Itoa(len(o.Report.Teams)),
				"✅",
			})
		} else {
			rows = append(rows, []string{
				"`" + o.File + "`",
				"-",
				"-",
				"❌ " + o.ErrorMessage,
			})
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"File", "Period End", "Teams", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeTotals writes the item totals and a distribution chart.
func (w *MarkdownWriter) writeTotals(md *markdown.Markdown, run *model.IngestRun) {
	md.H2("Items Loaded")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Count"},
		Rows: [][]string{
			{"Accomplishments", strconv.Itoa(run.Totals.Accomplishments)},
			{"Goals", strconv.Itoa(run.Totals.Goals)},
			{"Blockers", strconv.Itoa(run.Totals.Blockers)},
			{"Risks", strconv.Itoa(run.Totals.Risks)},
			{"**Total**", "**" + strconv.Itoa(run.Totals.Sum()) + "**"},
		},
	})
	md.PlainText("")

	if run.Totals.Sum() > 0 {
		w.writePieChart(md, run)
	}
}

// writePieChart writes a mermaid pie chart for item distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, run *model.IngestRun) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Item Distribution"),
		piechart.WithShowData(true),
	)

	if run.Totals.Accomplishments > 0 {
		chart.LabelAndIntValue("Accomplishments", uint64(run.Totals.Accomplishments))
	}
	if run.Totals.Goals > 0 {
		chart.LabelAndIntValue("Goals", uint64(run.Totals.Goals))
	}
	if run.Totals.Blockers > 0 {
		chart.LabelAndIntValue("Blockers", uint64(run.Totals.Blockers))
	}
	if run.Totals.Risks > 0 {
		chart.LabelAndIntValue("Risks", uint64(run.Totals.Risks))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeValidation writes the count-audit verdict as a GitHub alert.
func (w *MarkdownWriter) writeValidation(md *markdown.Markdown, run *model.IngestRun) {
	if run.Validation == nil {
		return
	}

	md.H2("Validation")
	md.PlainText("")

	if run.Validation.Passed {
		md.Note("All entity counts match the totals recorded during loading.")
	} else {
		md.Warning("Entity counts diverge from the recorded totals. The verdict is advisory; nothing was rolled back.")
		md.PlainText("")
		md.BulletList(run.Validation.Mismatches...)
	}
	md.PlainText("")
}

// WriteReport outputs a single parsed report in Markdown format.
func (w *MarkdownWriter) WriteReport(report *model.ParsedReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(report.Title)
	md.PlainText("")
	md.PlainTextf("Period end: %s", report.PeriodEndDate.Format("2006-01-02"))
	md.PlainText("")

	for i := range report.Teams {
		team := &report.Teams[i]

		heading := team.Name
		if team.Lead != "" {
			heading += " (lead: " + team.Lead + ")"
		}
		md.H2(heading)
		md.PlainText("")

		md.Table(markdown.TableSet{
			Header: []string{"Kind", "Count"},
			Rows: [][]string{
				{"Accomplishments", strconv.Itoa(len(team.Accomplishments))},
				{"Goals", strconv.Itoa(len(team.Goals))},
				{"Blockers", strconv.Itoa(len(team.Blockers))},
				{"Risks", strconv.Itoa(len(team.Risks))},
			},
		})
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}
