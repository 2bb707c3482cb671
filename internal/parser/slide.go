package parser

import (
	"golang.org/x/net/html"

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/model"
)

// Slide container class names.
const (
	classSlide      = "slide"
	classTitleSlide = "title-slide"
	classTeamLead   = "team-lead"
)

// Section title fragments, one per item category. The separator is where
// the fragment is truncated before matching: accomplishment/goal titles
// drift after a "/" and blocker/risk titles after "and".
const (
	fragmentAccomplishments = "Accomplishments Last Period"
	fragmentGoals           = "Goals This Period"
	fragmentBlockers        = "Blockers and Work Arounds"
	fragmentRisks           = "Critical Risks and Mitigations"

	groupedSeparator = " /"
	simpleSeparator  = " and"
)

// parseSlide extracts one team's record from a slide container.
// It returns nil for cover slides and for slides without a team name;
// those are dropped from the report, not treated as errors.
func parseSlide(slide *html.Node) *model.ParsedTeam {
	if hasClass(slide, classTitleSlide) {
		return nil
	}

	nameNode := findFirst(slide, func(n *html.Node) bool { return isElement(n, "h2") })
	if nameNode == nil {
		return nil
	}
	name := nodeText(nameNode)
	if name == "" {
		return nil
	}

	lead := ""
	if leadNode := findFirst(slide, func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasClass(n, classTeamLead)
	}); leadNode != nil {
		lead = nodeText(leadNode)
	}

	return &model.ParsedTeam{
		Name:            name,
		Lead:            lead,
		Accomplishments: collectGrouped(slide, fragmentAccomplishments, groupedSeparator),
		Goals:           collectGrouped(slide, fragmentGoals, groupedSeparator),
		Blockers:        collectSimple(slide, fragmentBlockers, simpleSeparator),
		Risks:           collectSimple(slide, fragmentRisks, simpleSeparator),
	}
}
