package loader

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/database"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/model"
)

// discardLogger returns a logger that swallows all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *database.ReportDB {
	t.Helper()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// testRun builds an IngestRun with one successful outcome containing the
// given teams.
func testRun(date time.Time, teams ...model.ParsedTeam) *model.IngestRun {
	run := model.NewIngestRun("weeks")
	run.Outcomes = []model.ParseOutcome{
		{
			File: "week.html",
			Report: &model.ParsedReport{
				PeriodEndDate: date,
				Title:         "Scrum of Scrums",
				Teams:         teams,
			},
		},
	}
	return run
}

// TestSlugify tests slug derivation from team names.
func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple name", "Platform", "platform"},
		{"slash separated", "Ops/Infra", "ops-infra"},
		{"punctuation runs collapse", "Data  &  Analytics!", "data-analytics"},
		{"leading and trailing separators trimmed", "--QA Team--", "qa-team"},
		{"digits preserved", "Team 42", "team-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestUniqueSlug tests collision handling with numeric suffixes.
func TestUniqueSlug(t *testing.T) {
	t.Parallel()

	used := map[string]bool{"ops-infra": true, "ops-infra-1": true}

	if got := uniqueSlug("ops-infra", used); got != "ops-infra-2" {
		t.Errorf("expected ops-infra-2, got %q", got)
	}
	if got := uniqueSlug("platform", used); got != "platform" {
		t.Errorf("expected platform, got %q", got)
	}
}

// TestResolverResolve tests batch-wide reference resolution.
func TestResolverResolve(t *testing.T) {
	t.Parallel()

	t.Run("deduplicates names across reports", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		run := model.NewIngestRun("weeks")
		run.Outcomes = []model.ParseOutcome{
			{
				File: "week1.html",
				Report: &model.ParsedReport{
					PeriodEndDate: time.Date(2025, time.November, 17, 0, 0, 0, 0, time.UTC),
					Teams: []model.ParsedTeam{
						{Name: "Platform", Lead: "Jordan Diaz"},
						{Name: "Ops/Infra", Lead: ""},
					},
				},
			},
			{
				File: "week2.html",
				Report: &model.ParsedReport{
					PeriodEndDate: time.Date(2025, time.November, 24, 0, 0, 0, 0, time.UTC),
					Teams: []model.ParsedTeam{
						{Name: "Platform", Lead: "Jordan Diaz"},
					},
				},
			},
			{File: "bad.html", ErrorMessage: "unreadable"},
		}

		r := NewResolver(db, WithResolverLogger(discardLogger()))
		if err := r.Resolve(ctx, run); err != nil {
			t.Fatalf("resolve failed: %v", err)
		}

		if len(run.TeamIDs) != 2 {
			t.Errorf("expected 2 resolved teams, got %d", len(run.TeamIDs))
		}
		if len(run.LeadIDs) != 2 {
			t.Errorf("expected 2 resolved leads (including empty), got %d", len(run.LeadIDs))
		}
		if _, ok := run.LeadIDs[""]; !ok {
			t.Error("empty lead name must be resolved")
		}

		counts, err := db.Counts(ctx)
		if err != nil {
			t.Fatalf("counts failed: %v", err)
		}
		if counts.Teams != 2 || counts.TeamLeads != 2 {
			t.Errorf("expected each name upserted exactly once, got %+v", counts)
		}
	})

	t.Run("resolving twice reuses existing entities", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		date := time.Date(2025, time.November, 24, 0, 0, 0, 0, time.UTC)

		run1 := testRun(date, model.ParsedTeam{Name: "Platform", Lead: "Jordan Diaz"})
		run2 := testRun(date, model.ParsedTeam{Name: "Platform", Lead: "Jordan Diaz"})

		r := NewResolver(db, WithResolverLogger(discardLogger()))
		if err := r.Resolve(ctx, run1); err != nil {
			t.Fatalf("first resolve failed: %v", err)
		}
		if err := r.Resolve(ctx, run2); err != nil {
			t.Fatalf("second resolve failed: %v", err)
		}

		if run1.TeamIDs["Platform"] != run2.TeamIDs["Platform"] {
			t.Error("expected the same team id across runs")
		}

		counts, err := db.Counts(ctx)
		if err != nil {
			t.Fatalf("counts failed: %v", err)
		}
		if counts.Teams != 1 {
			t.Errorf("expected 1 team after repeated resolve, got %d", counts.Teams)
		}
	})
}
