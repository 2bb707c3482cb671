package model

import "time"

// ParseOutcome records the result of parsing one source document.
// A failed parse carries an error message instead of a report; the batch
// never aborts on individual failures.
type ParseOutcome struct {
	// File is the document's file name within the source directory.
	File string `json:"file"`

	// Report is the parsed result. Nil when the parse failed.
	Report *ParsedReport `json:"report,omitempty"`

	// ErrorMessage describes why the parse failed. Empty on success.
	ErrorMessage string `json:"error,omitempty"`
}

// OK reports whether the document was parsed successfully.
func (o *ParseOutcome) OK() bool {
	return o.Report != nil && o.ErrorMessage == ""
}

// ItemTotals accumulates the number of child entities created during
// loading, broken down by kind. The validator compares these running
// totals against the store's counts.
type ItemTotals struct {
	Accomplishments int `json:"accomplishments"`
	Goals           int `json:"goals"`
	Blockers        int `json:"blockers"`
	Risks           int `json:"risks"`
}

// Add accumulates the item counts of one loaded team.
func (t *ItemTotals) Add(team *ParsedTeam) {
	t.Accomplishments += len(team.Accomplishments)
	t.Goals += len(team.Goals)
	t.Blockers += len(team.Blockers)
	t.Risks += len(team.Risks)
}

// Sum returns the total across all four kinds.
func (t *ItemTotals) Sum() int {
	return t.Accomplishments + t.Goals + t.Blockers + t.Risks
}

// EntityCounts holds per-kind entity counts as reported by the store.
type EntityCounts struct {
	Reports         int `json:"reports"`
	Teams           int `json:"teams"`
	TeamLeads       int `json:"teamLeads"`
	Accomplishments int `json:"accomplishments"`
	Goals           int `json:"goals"`
	Blockers        int `json:"blockers"`
	Risks           int `json:"risks"`
}

// ValidationResult is the post-load audit verdict. It is advisory: a
// failed validation never rolls anything back and never changes the
// process exit code.
type ValidationResult struct {
	// Passed is true when every compared count matched.
	Passed bool `json:"passed"`

	// Actual holds the counts re-queried from the store after loading.
	Actual EntityCounts `json:"actual"`

	// Mismatches describes each count that did not match, in a
	// human-readable form for the run summary.
	Mismatches []string `json:"mismatches,omitempty"`
}

// IngestRun is the accumulator that flows through the pipeline steps.
// The parse step fills Outcomes, the resolve step fills the identifier
// maps, the load step fills the load counters and totals, and the
// validate step fills Validation.
//
// The run is owned by a single pipeline execution and is never accessed
// concurrently outside the parse step's own synchronization.
type IngestRun struct {
	// SourceDir is the directory the documents were read from.
	SourceDir string `json:"sourceDir"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"startedAt"`

	// Outcomes holds one entry per document, ordered by file name.
	Outcomes []ParseOutcome `json:"outcomes"`

	// TeamIDs and LeadIDs map natural-key names to store identifiers.
	// A name missing from its map causes every team referencing it to be
	// skipped at load time.
	TeamIDs map[string]int64 `json:"-"`
	LeadIDs map[string]int64 `json:"-"`

	// Load-phase counters.
	ReportsLoaded int        `json:"reportsLoaded"`
	ReportsFailed int        `json:"reportsFailed"`
	TeamsSkipped  int        `json:"teamsSkipped"`
	Totals        ItemTotals `json:"totals"`

	// Validation is the post-load audit result, nil until the validate
	// step has run.
	Validation *ValidationResult `json:"validation,omitempty"`
}

// NewIngestRun creates a run for the given source directory.
func NewIngestRun(sourceDir string) *IngestRun {
	return &IngestRun{
		SourceDir: sourceDir,
		StartedAt: time.Now(),
		TeamIDs:   make(map[string]int64),
		LeadIDs:   make(map[string]int64),
	}
}

// Successful returns the outcomes whose documents parsed cleanly,
// preserving file-name order.
func (r *IngestRun) Successful() []ParseOutcome {
	out := make([]ParseOutcome, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Failed returns the outcomes whose documents could not be parsed.
func (r *IngestRun) Failed() []ParseOutcome {
	out := make([]ParseOutcome, 0)
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}
