// Package database provides SQLite-based persistence for the report model:
// shared reference entities (teams, team leads), reports keyed by
// period-end date, and the per-report join rows with their ordered child
// collections.
package database
