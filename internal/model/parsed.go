package model

import "time"

// Section and severity defaults applied when the source material carries no
// explicit value. The deterministic deck parser never infers risk severity
// from text, so SeverityMedium is used for every risk it emits.
const (
	// DefaultSectionName groups accomplishments and goals that appear before
	// any sub-heading in their section box.
	DefaultSectionName = "General"

	// DefaultRiskSeverity is assigned to risks without an explicit severity.
	DefaultRiskSeverity = "medium"
)

// ParsedReport is the normalized form of one status report document.
// It exists only during the parse phase; the loader maps it onto the
// relational schema and discards it.
//
// A report is uniquely identified downstream by PeriodEndDate: the store
// enforces at most one persisted report per period-end date.
type ParsedReport struct {
	// PeriodEndDate is the reporting period's end date, extracted from the
	// document title. When the title carries no parsable date, the parser
	// falls back to the current date and logs a warning.
	PeriodEndDate time.Time `json:"periodEndDate"`

	// Title is the raw document title text.
	Title string `json:"title"`

	// Teams holds one entry per team slide, in document order.
	Teams []ParsedTeam `json:"teams"`
}

// ParsedTeam is one team's contribution to a report.
// Name is always non-empty: slides without a team name are dropped by the
// parser. Lead may be empty.
type ParsedTeam struct {
	Name string `json:"name"`
	Lead string `json:"lead"`

	// The four item collections, each in document order.
	Accomplishments []ParsedItem `json:"accomplishments"`
	Goals           []ParsedItem `json:"goals"`
	Blockers        []ParsedItem `json:"blockers"`
	Risks           []ParsedItem `json:"risks"`
}

// ItemCount returns the total number of items across all four collections.
func (t *ParsedTeam) ItemCount() int {
	return len(t.Accomplishments) + len(t.Goals) + len(t.Blockers) + len(t.Risks)
}

// ParsedItem is one normalized bullet item.
//
// The zero value of the optional fields means "absent": Section is empty
// when no sub-heading preceded the item (simple sections only; grouped
// sections always carry at least DefaultSectionName), TicketID/TicketURL
// are empty when no ticket reference was found.
//
// Severity, Workaround and Mitigation are only populated by the transcript
// ingestion path; the deck parser leaves them empty and the loader applies
// defaults where the schema requires a value.
type ParsedItem struct {
	Section     string `json:"section,omitempty"`
	Description string `json:"description"`
	TicketID    string `json:"ticketId,omitempty"`
	TicketURL   string `json:"ticketUrl,omitempty"`
	Severity    string `json:"severity,omitempty"`
	Workaround  string `json:"workaround,omitempty"`
	Mitigation  string `json:"mitigation,omitempty"`
}
