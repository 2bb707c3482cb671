// Package parser extracts normalized report records from status report
// decks written as semi-structured HTML. The markup is human-authored and
// inconsistently marked up, so the parser is deliberately tolerant:
// missing containers yield empty results rather than errors, and section
// boundaries are recovered by fuzzy title matching and in-order traversal
// of child nodes.
package parser
