package parser

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/model"
)

// Class names and placeholder texts used by the deck markup. The decks are
// exported by hand, so only the class names are reliable; titles and
// placeholder wording drift between weeks.
const (
	classSectionBox   = "section-box"
	classSectionTitle = "section-title"
)

// placeholderTexts mark a section that is deliberately empty, e.g. an
// italic "No blockers for this period" paragraph. Matching is a
// case-sensitive substring test; the lowercase "no blockers" variant
// appears in some decks.
var placeholderTexts = []string{
	"No blockers",
	"no blockers",
	"No critical risks",
	"N/A",
}

// matchesSectionTitle reports whether a section box title refers to the
// section identified by fragment. The fragment is truncated at the first
// occurrence of sep before matching, which absorbs minor title wording
// drift between decks ("Blockers and Work Arounds" vs "Blockers & Issues"
// both match on "Blockers").
func matchesSectionTitle(title, fragment, sep string) bool {
	if i := strings.Index(fragment, sep); i >= 0 {
		fragment = fragment[:i]
	}
	return strings.Contains(title, fragment)
}

// collectGrouped gathers items from every section box whose title matches
// fragment, grouping them under the nearest preceding sub-heading. Items
// that appear before any sub-heading fall back to the "General" label.
//
// The traversal is an explicit fold over the box's direct children: an h3
// updates the current section label, a ul emits one item per non-empty
// list entry. The label carries across multiple matching boxes, matching
// how authors split one logical section over several boxes.
func collectGrouped(slide *html.Node, fragment, sep string) []model.ParsedItem {
	items := make([]model.ParsedItem, 0)
	currentSection := ""

	for _, box := range sectionBoxes(slide, fragment, sep) {
		for child := box.FirstChild; child != nil; child = child.NextSibling {
			switch {
			case isElement(child, "h3"):
				currentSection = nodeText(child)
			case isElement(child, "ul"):
				for _, li := range findAll(child, func(n *html.Node) bool { return isElement(n, "li") }) {
					item, ok := listItem(li)
					if !ok {
						continue
					}
					item.Section = currentSection
					if item.Section == "" {
						item.Section = model.DefaultSectionName
					}
					items = append(items, item)
				}
			}
		}
	}

	return items
}

// collectSimple gathers items from section boxes that usually have no
// sub-structure (blockers, risks). Unlike collectGrouped it leaves the
// section label empty when no sub-heading precedes an item, recognizes
// placeholder paragraphs as a deliberate empty marker, and falls back to
// direct paragraph children when a box contains no lists at all.
func collectSimple(slide *html.Node, fragment, sep string) []model.ParsedItem {
	items := make([]model.ParsedItem, 0)
	currentSection := ""

	for _, box := range sectionBoxes(slide, fragment, sep) {
		if hasPlaceholder(box) {
			continue
		}

		for child := box.FirstChild; child != nil; child = child.NextSibling {
			switch {
			case isElement(child, "h3"):
				currentSection = nodeText(child)
			case isElement(child, "ul"):
				for _, li := range findAll(child, func(n *html.Node) bool { return isElement(n, "li") }) {
					item, ok := listItem(li)
					if !ok {
						continue
					}
					item.Section = currentSection
					items = append(items, item)
				}
			}
		}

		// Some decks write blockers as bare paragraphs instead of lists.
		if len(items) == 0 {
			for child := box.FirstChild; child != nil; child = child.NextSibling {
				if !isElement(child, "p") {
					continue
				}
				text := nodeText(child)
				if text == "" || isPlaceholderText(text) {
					continue
				}
				items = append(items, model.ParsedItem{Description: text})
			}
		}
	}

	return items
}

// sectionBoxes returns the slide's section boxes whose title matches the
// given fragment, in document order. A missing or unmatched box is not an
// error: the result is simply empty.
func sectionBoxes(slide *html.Node, fragment, sep string) []*html.Node {
	boxes := findAll(slide, func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasClass(n, classSectionBox)
	})

	matched := make([]*html.Node, 0, len(boxes))
	for _, box := range boxes {
		titleNode := findFirst(box, func(n *html.Node) bool {
			return n.Type == html.ElementNode && hasClass(n, classSectionTitle)
		})
		if titleNode == nil {
			continue
		}
		if matchesSectionTitle(nodeText(titleNode), fragment, sep) {
			matched = append(matched, box)
		}
	}
	return matched
}

// listItem converts one li node into a ParsedItem without its section
// label. It returns ok=false for empty or whitespace-only entries.
func listItem(li *html.Node) (model.ParsedItem, bool) {
	text := nodeText(li)
	if text == "" {
		return model.ParsedItem{}, false
	}

	ticketURL := ""
	if link := findFirst(li, func(n *html.Node) bool { return isElement(n, "a") }); link != nil {
		ticketURL = getAttr(link, "href")
	}
	ticketID := ExtractTicketID(ticketURL)

	return model.ParsedItem{
		Description: CleanDescription(text, ticketID),
		TicketID:    ticketID,
		TicketURL:   ticketURL,
	}, true
}

// hasPlaceholder reports whether a box contains an italic-styled paragraph
// whose text marks the section as deliberately empty.
func hasPlaceholder(box *html.Node) bool {
	for _, p := range findAll(box, func(n *html.Node) bool { return isElement(n, "p") }) {
		if !strings.Contains(getAttr(p, "style"), "italic") {
			continue
		}
		if isPlaceholderText(nodeText(p)) {
			return true
		}
	}
	return false
}

// isPlaceholderText reports whether text contains any known empty-section
// placeholder phrase.
func isPlaceholderText(text string) bool {
	for _, placeholder := range placeholderTexts {
		if strings.Contains(text, placeholder) {
			return true
		}
	}
	return false
}
