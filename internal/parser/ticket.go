package parser

import (
	"regexp"
	"strings"
)

// ticketIDPattern matches the numeric work-item identifier embedded in
// ticket reference URLs, e.g. "...?id=12&text=89536" yields "89536".
var ticketIDPattern = regexp.MustCompile(`text=(\d+)`)

// ExtractTicketID pulls the ticket identifier out of a reference URL.
// It returns the empty string when the URL is empty or carries no
// identifier; absence is not an error.
func ExtractTicketID(url string) string {
	if url == "" {
		return ""
	}
	m := ticketIDPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// CleanDescription strips ticket markers and list-prefix decoration from
// a raw item text. When ticketID is non-empty, trailing occurrences of it
// are removed in "- 12345", "(12345)", or bare "12345" form, applied only
// at the end of the string. A leading "- " continuation marker is always
// removed.
func CleanDescription(text, ticketID string) string {
	description := strings.TrimSpace(text)

	if ticketID != "" {
		quoted := regexp.QuoteMeta(ticketID)
		trailing := regexp.MustCompile(`\s*-?\s*\(?` + quoted + `\)?\s*$`)
		description = trailing.ReplaceAllString(description, "")
		bare := regexp.MustCompile(`\s*` + quoted + `\s*$`)
		description = bare.ReplaceAllString(description, "")
		description = strings.TrimSpace(description)
	}

	if rest, ok := strings.CutPrefix(description, "- "); ok {
		description = strings.TrimSpace(rest)
	}

	return description
}
