package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/model"
)

// dateLayout is the storage format for report period-end dates. Storing
// the date portion only makes the UNIQUE constraint behave as "one report
// per day" regardless of the parse-time clock.
const dateLayout = "2006-01-02"

// ReportDB provides SQLite-based storage for the report model.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file rather than one per
// reporting period. Teams and team leads are shared reference entities
// referenced by many reports, so they must live alongside the reports
// that reference them.
type ReportDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ReportDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ReportDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ReportDB, error) {
	dbPath := filepath.Join(dbDir, "sosdash.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string. mode=rw prevents creating new
	// files when CreateIfNotExists is false; the foreign_keys pragma is
	// required so that deleting a report cascades through report_teams
	// into the four child tables.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc&_pragma=foreign_keys(1)"
	} else {
		dsn = dbPath + "?mode=rw&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; the load phase is serial anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ReportDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *ReportDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
//
// Ownership rules are encoded in the foreign keys: report_teams and the
// four child tables cascade when their report is deleted, while teams and
// team_leads are shared reference entities that survive any report
// deletion (RESTRICT would block reference-entity cleanup; the pipeline
// never deletes them).
func (rdb *ReportDB) createTables() error {
	schema := `
	-- Shared reference entities, upserted by natural-key name.
	CREATE TABLE IF NOT EXISTS teams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		slug TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS team_leads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);

	-- One report per reporting period.
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		period_end_date TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		published INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Join entity binding one team's contribution to one report.
	CREATE TABLE IF NOT EXISTS report_teams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id INTEGER NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
		team_id INTEGER NOT NULL REFERENCES teams(id),
		team_lead_id INTEGER NOT NULL REFERENCES team_leads(id),
		display_order INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_report_teams_report ON report_teams(report_id);
	CREATE INDEX IF NOT EXISTS idx_report_teams_team ON report_teams(team_id);

	CREATE TABLE IF NOT EXISTS accomplishments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_team_id INTEGER NOT NULL REFERENCES report_teams(id) ON DELETE CASCADE,
		section_name TEXT NOT NULL,
		description TEXT NOT NULL,
		ticket_id TEXT,
		ticket_url TEXT,
		display_order INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS goals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_team_id INTEGER NOT NULL REFERENCES report_teams(id) ON DELETE CASCADE,
		section_name TEXT NOT NULL,
		description TEXT NOT NULL,
		ticket_id TEXT,
		ticket_url TEXT,
		display_order INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS blockers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_team_id INTEGER NOT NULL REFERENCES report_teams(id) ON DELETE CASCADE,
		description TEXT NOT NULL,
		ticket_id TEXT,
		ticket_url TEXT,
		workaround TEXT,
		display_order INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS risks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_team_id INTEGER NOT NULL REFERENCES report_teams(id) ON DELETE CASCADE,
		description TEXT NOT NULL,
		severity TEXT NOT NULL,
		mitigation TEXT,
		display_order INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_accomplishments_rt ON accomplishments(report_team_id);
	CREATE INDEX IF NOT EXISTS idx_goals_rt ON goals(report_team_id);
	CREATE INDEX IF NOT EXISTS idx_blockers_rt ON blockers(report_team_id);
	CREATE INDEX IF NOT EXISTS idx_risks_rt ON risks(report_team_id);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// UpsertTeam inserts a team by natural-key name, or returns the existing
// team's id when the name is already present. The slug is only written on
// first insert; an existing team keeps its slug.
func (rdb *ReportDB) UpsertTeam(ctx context.Context, name, slug string) (int64, error) {
	query := `
	INSERT INTO teams (name, slug) VALUES (?, ?)
	ON CONFLICT(name) DO UPDATE SET name = excluded.name
	RETURNING id
	`

	var id int64
	if err := rdb.db.QueryRowContext(ctx, query, name, slug).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to upsert team %q: %w", name, err)
	}
	return id, nil
}

// UpsertTeamLead inserts a team lead by natural-key name, or returns the
// existing lead's id when the name is already present.
func (rdb *ReportDB) UpsertTeamLead(ctx context.Context, name string) (int64, error) {
	query := `
	INSERT INTO team_leads (name) VALUES (?)
	ON CONFLICT(name) DO UPDATE SET name = excluded.name
	RETURNING id
	`

	var id int64
	if err := rdb.db.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to upsert team lead %q: %w", name, err)
	}
	return id, nil
}

// CreateReport creates a report entity. A report already persisted for the
// same period-end date violates the UNIQUE constraint and returns an error;
// the caller decides whether that is fatal.
func (rdb *ReportDB) CreateReport(ctx context.Context, periodEnd time.Time, title string, published bool) (int64, error) {
	query := `INSERT INTO reports (period_end_date, title, published) VALUES (?, ?, ?)`

	pub := 0
	if published {
		pub = 1
	}

	result, err := rdb.db.ExecContext(ctx, query, periodEnd.Format(dateLayout), title, pub)
	if err != nil {
		return 0, fmt.Errorf("failed to create report for %s: %w", periodEnd.Format(dateLayout), err)
	}
	return result.LastInsertId()
}

// GetReportID returns the id of the report persisted for the given
// period-end date, or found=false when none exists.
func (rdb *ReportDB) GetReportID(ctx context.Context, periodEnd time.Time) (id int64, found bool, err error) {
	query := `SELECT id FROM reports WHERE period_end_date = ?`

	err = rdb.db.QueryRowContext(ctx, query, periodEnd.Format(dateLayout)).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up report: %w", err)
	}
	return id, true, nil
}

// DeleteReport removes a report and, via cascade, its report_teams and all
// four child collections. Teams and team leads are untouched.
func (rdb *ReportDB) DeleteReport(ctx context.Context, id int64) error {
	if _, err := rdb.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete report %d: %w", id, err)
	}
	return nil
}

// ReportTeamRecord is the input for CreateReportTeam: the join row plus
// the four ordered child collections belonging to it.
type ReportTeamRecord struct {
	ReportID     int64
	TeamID       int64
	TeamLeadID   int64
	DisplayOrder int

	Accomplishments []model.ParsedItem
	Goals           []model.ParsedItem
	Blockers        []model.ParsedItem
	Risks           []model.ParsedItem
}

// CreateReportTeam creates the join row and all four child collections in
// a single transaction. Child rows carry display_order equal to their
// position within their own list.
//
// Design decision: the whole record is created atomically so a mid-team
// failure never leaves a join row with a partial set of children.
func (rdb *ReportDB) CreateReportTeam(ctx context.Context, rec *ReportTeamRecord) (int64, error) {
	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	result, err := tx.ExecContext(ctx,
		`INSERT INTO report_teams (report_id, team_id, team_lead_id, display_order) VALUES (?, ?, ?, ?)`,
		rec.ReportID, rec.TeamID, rec.TeamLeadID, rec.DisplayOrder,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create report team: %w", err)
	}

	reportTeamID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read report team id: %w", err)
	}

	for i, item := range rec.Accomplishments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO accomplishments (report_team_id, section_name, description, ticket_id, ticket_url, display_order)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			reportTeamID, item.Section, item.Description, nullable(item.TicketID), nullable(item.TicketURL), i,
		); err != nil {
			return 0, fmt.Errorf("failed to create accomplishment: %w", err)
		}
	}

	for i, item := range rec.Goals {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO goals (report_team_id, section_name, description, ticket_id, ticket_url, display_order)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			reportTeamID, item.Section, item.Description, nullable(item.TicketID), nullable(item.TicketURL), i,
		); err != nil {
			return 0, fmt.Errorf("failed to create goal: %w", err)
		}
	}

	for i, item := range rec.Blockers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO blockers (report_team_id, description, ticket_id, ticket_url, workaround, display_order)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			reportTeamID, item.Description, nullable(item.TicketID), nullable(item.TicketURL), nullable(item.Workaround), i,
		); err != nil {
			return 0, fmt.Errorf("failed to create blocker: %w", err)
		}
	}

	for i, item := range rec.Risks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO risks (report_team_id, description, severity, mitigation, display_order)
			 VALUES (?, ?, ?, ?, ?)`,
			reportTeamID, item.Description, item.Severity, nullable(item.Mitigation), i,
		); err != nil {
			return 0, fmt.Errorf("failed to create risk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit report team: %w", err)
	}
	return reportTeamID, nil
}

// Counts re-queries total entity counts per kind. Used by the post-load
// validation audit.
func (rdb *ReportDB) Counts(ctx context.Context) (model.EntityCounts, error) {
	var counts model.EntityCounts

	tables := []struct {
		name string
		dst  *int
	}{
		{"reports", &counts.Reports},
		{"teams", &counts.Teams},
		{"team_leads", &counts.TeamLeads},
		{"accomplishments", &counts.Accomplishments},
		{"goals", &counts.Goals},
		{"blockers", &counts.Blockers},
		{"risks", &counts.Risks},
	}

	for _, table := range tables {
		if err := rdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table.name).Scan(table.dst); err != nil {
			return model.EntityCounts{}, fmt.Errorf("failed to count %s: %w", table.name, err)
		}
	}

	return counts, nil
}

// nullable maps the empty string to SQL NULL so optional columns stay
// NULL rather than storing empty strings.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
