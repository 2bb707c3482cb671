package parser

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/net/html"

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/model"
)

// reportDatePattern matches the period-end date embedded in deck titles,
// always written as MM.DD.YYYY ("Scrum of Scrums 11.24.2025").
var reportDatePattern = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})`)

// DeckParser converts one status report deck into a ParsedReport.
//
// Parsing never fails for structural reasons: missing slides, sections or
// headings produce empty results. Only unreadable input is an error.
type DeckParser struct {
	// logger receives warnings about recoverable oddities, e.g. a title
	// without a parsable date.
	logger *slog.Logger

	// now supplies the fallback period-end date for decks whose title
	// carries no parsable date. Overridable in tests.
	now func() time.Time
}

// DeckParserOption configures a DeckParser.
type DeckParserOption func(*DeckParser)

// WithLogger sets a custom logger for the parser.
func WithLogger(logger *slog.Logger) DeckParserOption {
	return func(p *DeckParser) {
		p.logger = logger
	}
}

// NewDeckParser creates a DeckParser with the given options.
func NewDeckParser(opts ...DeckParserOption) *DeckParser {
	p := &DeckParser{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// ParseFile parses the deck at the given path. The file's base name is
// used as the document identifier in warnings.
func (p *DeckParser) ParseFile(path string) (*model.ParsedReport, error) {
	f, err := os.Open(path) //nolint:gosec // Paths come from the scanned source directory
	if err != nil {
		return nil, fmt.Errorf("failed to open report deck: %w", err)
	}
	defer f.Close()

	return p.Parse(f, filepath.Base(path))
}

// Parse parses a deck from the given reader. name identifies the document
// in warning logs.
func (p *DeckParser) Parse(r io.Reader, name string) (*model.ParsedReport, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report deck %s: %w", name, err)
	}

	title := ""
	if titleNode := findFirst(doc, func(n *html.Node) bool { return isElement(n, "title") }); titleNode != nil {
		title = nodeText(titleNode)
	}

	periodEnd, ok := parsePeriodEndDate(title)
	if !ok {
		// Silent misattribution is worse than a noisy default: the report
		// still loads, but the operator can see which file needs fixing.
		periodEnd = p.now()
		p.logger.Warn("deck title has no parsable MM.DD.YYYY date, using current date",
			"file", name,
			"title", title,
		)
	}

	report := &model.ParsedReport{
		PeriodEndDate: periodEnd,
		Title:         title,
		Teams:         make([]model.ParsedTeam, 0),
	}

	slides := findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasClass(n, classSlide)
	})
	for _, slide := range slides {
		if team := parseSlide(slide); team != nil {
			report.Teams = append(report.Teams, *team)
		}
	}

	return report, nil
}

// parsePeriodEndDate extracts the MM.DD.YYYY date from a deck title.
// The returned time is midnight UTC of that date.
func parsePeriodEndDate(title string) (time.Time, bool) {
	m := reportDatePattern.FindStringSubmatch(title)
	if m == nil {
		return time.Time{}, false
	}

	month, _ := strconv.Atoi(m[1]) //nolint:errcheck // \d{2} cannot fail
	day, _ := strconv.Atoi(m[2])   //nolint:errcheck // \d{2} cannot fail
	year, _ := strconv.Atoi(m[3])  //nolint:errcheck // \d{4} cannot fail

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}
