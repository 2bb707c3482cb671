package transcript

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/model"
)

// wireReport is the JSON shape requested from the model.
type wireReport struct {
	ReportDate string     `json:"reportDate"`
	Teams      []wireTeam `json:"teams"`
}

// wireTeam is one team's entry in the model response.
type wireTeam struct {
	TeamName        string     `json:"teamName"`
	TeamLead        string     `json:"teamLead"`
	Accomplishments []wireItem `json:"accomplishments"`
	Goals           []wireItem `json:"goals"`
	Blockers        []wireItem `json:"blockers"`
	Risks           []wireItem `json:"risks"`
}

// wireItem is one status item in the model response.
type wireItem struct {
	Description string   `json:"description"`
	TicketID    ticketID `json:"ticketId"`
	Workaround  string   `json:"workaround"`
	Severity    string   `json:"severity"`
	Mitigation  string   `json:"mitigation"`
}

// ticketID tolerates the model emitting a ticket identifier as either a
// JSON string or a number; null decodes to the empty string.
type ticketID string

// UnmarshalJSON implements json.Unmarshaler.
func (t *ticketID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*t = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*t = ticketID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("ticketId is neither string, number, nor null: %s", s)
	}
	*t = ticketID(n.String())
	return nil
}

// decodeResponse decodes the model's JSON payload, tolerating a markdown
// code fence around it. Models frequently wrap JSON in ```json fences
// despite instructions not to.
func decodeResponse(raw string) (*wireReport, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var wire wireReport
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return nil, fmt.Errorf("failed to decode transcript extraction: %w", err)
	}
	return &wire, nil
}

// normalize converts the wire shape into the pipeline's ParsedReport,
// applying the same hygiene the document parser guarantees: teams
// without a name are dropped, blank descriptions are dropped, and risk
// severities outside the known set fall back to the default.
func (p *OpenAIParser) normalize(wire *wireReport) *model.ParsedReport {
	report := &model.ParsedReport{
		Title: "Transcript Report",
	}

	if date, err := time.Parse("2006-01-02", wire.ReportDate); err == nil {
		report.PeriodEndDate = date
		report.Title = "Transcript Report " + wire.ReportDate
	} else {
		report.PeriodEndDate = p.now().UTC().Truncate(24 * time.Hour)
		p.logger.Warn("transcript has no usable report date, falling back to current date",
			"reportDate", wire.ReportDate,
		)
	}

	for _, team := range wire.Teams {
		name := strings.TrimSpace(team.TeamName)
		if name == "" {
			p.logger.Warn("dropping team without a name")
			continue
		}

		parsed := model.ParsedTeam{
			Name:            name,
			Lead:            strings.TrimSpace(team.TeamLead),
			Accomplishments: normalizeItems(team.Accomplishments, false),
			Goals:           normalizeItems(team.Goals, false),
			Blockers:        normalizeItems(team.Blockers, false),
			Risks:           normalizeItems(team.Risks, true),
		}
		report.Teams = append(report.Teams, parsed)
	}

	return report
}

// normalizeItems converts wire items, dropping blank descriptions.
func normalizeItems(items []wireItem, risk bool) []model.ParsedItem {
	out := make([]model.ParsedItem, 0, len(items))
	for _, item := range items {
		desc := strings.TrimSpace(item.Description)
		if desc == "" {
			continue
		}

		parsed := model.ParsedItem{
			Description: desc,
			TicketID:    string(item.TicketID),
			Workaround:  strings.TrimSpace(item.Workaround),
			Mitigation:  strings.TrimSpace(item.Mitigation),
		}
		if risk {
			parsed.Severity = normalizeSeverity(item.Severity)
		}
		out = append(out, parsed)
	}
	return out
}

// normalizeSeverity maps free-form severities onto the known set.
func normalizeSeverity(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return "low"
	case "high":
		return "high"
	case "medium":
		return model.DefaultRiskSeverity
	default:
		return model.DefaultRiskSeverity
	}
}
