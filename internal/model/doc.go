// Package model defines the data structures shared across the ingestion
// pipeline: the parse-phase records extracted from status report decks,
// the per-run accumulator that pipeline steps operate on, and the
// validation verdict produced after loading.
package model
