package loader

import (
	"context"
	"log/slog"

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/database"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/model"
)

// Loader creates the persisted report entities for each successfully
// parsed report, in batch order, with nested child collections carrying
// their document positions as display_order.
//
// Failure handling follows the partial-failure taxonomy: a report the
// store rejects (typically a duplicate period-end date) is logged and
// skipped, a team with an unresolved name is logged and skipped, and in
// both cases the rest of the batch continues.
type Loader struct {
	db     *database.ReportDB
	logger *slog.Logger

	// replace deletes a pre-existing report for the same period-end date
	// before creating the new one. The cascade removes all four child
	// collections of the prior version, so there is never a partial merge.
	replace bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLoaderLogger sets a custom logger for the loader.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithReplace enables delete-then-recreate for reports whose period-end
// date already exists in the store. Without it a duplicate date fails
// that report's load.
func WithReplace(replace bool) LoaderOption {
	return func(l *Loader) {
		l.replace = replace
	}
}

// NewLoader creates a Loader backed by the given store.
func NewLoader(db *database.ReportDB, opts ...LoaderOption) *Loader {
	l := &Loader{db: db}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Load persists every successfully parsed report in run, updating the
// run's load counters and item totals. Store writes are strictly serial:
// a team must already be resolved to an id before any join row
// referencing it is created, and display_order reflects batch order.
func (l *Loader) Load(ctx context.Context, run *model.IngestRun) error {
	for _, outcome := range run.Successful() {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.loadReport(ctx, run, &outcome)
	}
	return nil
}

// loadReport persists one report and its teams.
func (l *Loader) loadReport(ctx context.Context, run *model.IngestRun, outcome *model.ParseOutcome) {
	report := outcome.Report

	if l.replace {
		if existingID, found, err := l.db.GetReportID(ctx, report.PeriodEndDate); err != nil {
			l.logger.Error("failed to check for existing report",
				"file", outcome.File,
				"error", err,
			)
			run.ReportsFailed++
			return
		} else if found {
			l.logger.Info("replacing existing report",
				"file", outcome.File,
				"periodEnd", report.PeriodEndDate.Format("2006-01-02"),
			)
			if err := l.db.DeleteReport(ctx, existingID); err != nil {
				l.logger.Error("failed to delete existing report",
					"file", outcome.File,
					"error", err,
				)
				run.ReportsFailed++
				return
			}
		}
	}

	reportID, err := l.db.CreateReport(ctx, report.PeriodEndDate, report.Title, true)
	if err != nil {
		l.logger.Error("failed to create report, skipping",
			"file", outcome.File,
			"periodEnd", report.PeriodEndDate.Format("2006-01-02"),
			"error", err,
		)
		run.ReportsFailed++
		return
	}

	for i := range report.Teams {
		team := &report.Teams[i]

		teamID, teamOK := run.TeamIDs[team.Name]
		leadID, leadOK := run.LeadIDs[team.Lead]
		if !teamOK || !leadOK {
			l.logger.Warn("skipping team with unresolved references",
				"file", outcome.File,
				"team", team.Name,
				"teamResolved", teamOK,
				"leadResolved", leadOK,
			)
			run.TeamsSkipped++
			continue
		}

		rec := &database.ReportTeamRecord{
			ReportID:        reportID,
			TeamID:          teamID,
			TeamLeadID:      leadID,
			DisplayOrder:    i,
			Accomplishments: withSectionDefault(team.Accomplishments),
			Goals:           withSectionDefault(team.Goals),
			Blockers:        team.Blockers,
			Risks:           withSeverityDefault(team.Risks),
		}

		if _, err := l.db.CreateReportTeam(ctx, rec); err != nil {
			l.logger.Warn("failed to load team, skipping",
				"file", outcome.File,
				"team", team.Name,
				"error", err,
			)
			run.TeamsSkipped++
			continue
		}

		run.Totals.Add(team)
		l.logger.Debug("team loaded",
			"team", team.Name,
			"items", team.ItemCount(),
		)
	}

	run.ReportsLoaded++
	l.logger.Info("report loaded",
		"file", outcome.File,
		"periodEnd", report.PeriodEndDate.Format("2006-01-02"),
		"teams", len(report.Teams),
	)
}

// withSectionDefault returns a copy of items with empty section labels
// replaced by the default. The deck parser already applies the default
// for grouped sections; the transcript path may not.
func withSectionDefault(items []model.ParsedItem) []model.ParsedItem {
	out := make([]model.ParsedItem, len(items))
	for i, item := range items {
		if item.Section == "" {
			item.Section = model.DefaultSectionName
		}
		out[i] = item
	}
	return out
}

// withSeverityDefault returns a copy of items with empty severities
// replaced by the default. The deterministic parser never infers severity
// from text.
func withSeverityDefault(items []model.ParsedItem) []model.ParsedItem {
	out := make([]model.ParsedItem, len(items))
	for i, item := range items {
		if item.Severity == "" {
			item.Severity = model.DefaultRiskSeverity
		}
		out[i] = item
	}
	return out
}
