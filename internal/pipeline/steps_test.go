package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/database"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/loader"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/model"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/parser"
)

// deckHTML returns a small one-team deck with the given title.
func deckHTML(title, team string) string {
	return `<!DOCTYPE html>
<html>
<head><title>` + title + `</title></head>
<body>
<div class="slide title-slide"><h2>Scrum of Scrums</h2></div>
<div class="slide">
	<h2>` + team + `</h2>
	<div class="team-lead">Jordan Diaz</div>
	<div class="section-box">
		<div class="section-title">Goals This Period</div>
		<ul><li>Finish the billing migration</li></ul>
	</div>
</div>
</body>
</html>`
}

// writeDeck writes a deck document into dir.
func writeDeck(t *testing.T, dir, name, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

// TestParseStepDo tests directory scanning and concurrent parsing.
func TestParseStepDo(t *testing.T) {
	t.Parallel()

	t.Run("parses matching documents in file-name order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeDeck(t, dir, "week-2.html", deckHTML("Scrum of Scrums 11.24.2025", "Platform"))
		writeDeck(t, dir, "week-1.html", deckHTML("Scrum of Scrums 11.17.2025", "Platform"))
		writeDeck(t, dir, "notes.txt", "not a deck")

		step := NewParseStep(
			parser.NewDeckParser(parser.WithLogger(discardLogger())),
			WithParseLogger(discardLogger()),
		)

		run := model.NewIngestRun(dir)
		if err := step.Do(context.Background(), run); err != nil {
			t.Fatalf("parse step failed: %v", err)
		}

		if len(run.Outcomes) != 2 {
			t.Fatalf("expected 2 outcomes, got %d", len(run.Outcomes))
		}
		if run.Outcomes[0].File != "week-1.html" || run.Outcomes[1].File != "week-2.html" {
			t.Errorf("outcomes out of order: %q, %q", run.Outcomes[0].File, run.Outcomes[1].File)
		}
		for _, o := range run.Outcomes {
			if !o.OK() {
				t.Errorf("expected %s to parse, got error %q", o.File, o.ErrorMessage)
			}
		}
	})

	t.Run("records unreadable document as failed outcome", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeDeck(t, dir, "good.html", deckHTML("Scrum of Scrums 11.24.2025", "Platform"))
		if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "bad.html")); err != nil {
			t.Skipf("cannot create symlink: %v", err)
		}

		step := NewParseStep(
			parser.NewDeckParser(parser.WithLogger(discardLogger())),
			WithParseLogger(discardLogger()),
		)

		run := model.NewIngestRun(dir)
		if err := step.Do(context.Background(), run); err != nil {
			t.Fatalf("parse step failed: %v", err)
		}

		if len(run.Successful()) != 1 {
			t.Errorf("expected 1 successful outcome, got %d", len(run.Successful()))
		}
		failed := run.Failed()
		if len(failed) != 1 || failed[0].File != "bad.html" {
			t.Fatalf("expected bad.html to fail, got %+v", failed)
		}
		if failed[0].ErrorMessage == "" {
			t.Error("expected an error message on the failed outcome")
		}
	})

	t.Run("fails when source directory does not exist", func(t *testing.T) {
		t.Parallel()

		step := NewParseStep(
			parser.NewDeckParser(parser.WithLogger(discardLogger())),
			WithParseLogger(discardLogger()),
		)

		run := model.NewIngestRun(filepath.Join(t.TempDir(), "nope"))
		if err := step.Do(context.Background(), run); err == nil {
			t.Error("expected an error for a missing directory")
		}
	})

	t.Run("empty directory yields empty batch", func(t *testing.T) {
		t.Parallel()

		step := NewParseStep(
			parser.NewDeckParser(parser.WithLogger(discardLogger())),
			WithParseLogger(discardLogger()),
		)

		run := model.NewIngestRun(t.TempDir())
		if err := step.Do(context.Background(), run); err != nil {
			t.Fatalf("parse step failed: %v", err)
		}
		if len(run.Outcomes) != 0 {
			t.Errorf("expected no outcomes, got %d", len(run.Outcomes))
		}
	})
}

// TestIngestPipeline runs the full parse-resolve-load-validate sequence
// against a temporary database.
func TestIngestPipeline(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDeck(t, dir, "week-1.html", deckHTML("Scrum of Scrums 11.17.2025", "Platform"))
	writeDeck(t, dir, "week-2.html", deckHTML("Scrum of Scrums 11.24.2025", "Platform"))

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	logger := discardLogger()
	p := New(WithLogger(logger))
	p.AddSteps(
		NewParseStep(parser.NewDeckParser(parser.WithLogger(logger)), WithParseLogger(logger)),
		NewResolveStep(db, loader.WithResolverLogger(logger)),
		NewLoadStep(db, loader.WithLoaderLogger(logger)),
		NewValidateStep(db, WithValidateLogger(logger)),
	)

	run := model.NewIngestRun(dir)
	if err := p.Execute(context.Background(), run); err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	if run.ReportsLoaded != 2 {
		t.Errorf("expected 2 reports loaded, got %d", run.ReportsLoaded)
	}
	if run.Totals.Goals != 2 {
		t.Errorf("expected 2 goals loaded, got %d", run.Totals.Goals)
	}
	if run.Validation == nil {
		t.Fatal("expected a validation result")
	}
	if !run.Validation.Passed {
		t.Errorf("expected validation to pass, mismatches: %v", run.Validation.Mismatches)
	}
}
