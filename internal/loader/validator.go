package loader

import (
	"context"
	"fmt"

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/database"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/model"
)

// Validate re-queries entity counts from the store and compares them
// against the counts accumulated during this run: the report count
// against the number of successful parses, and each child-entity count
// against the totals recorded while loading.
//
// The verdict is a post-hoc audit, not a transactional guarantee: a
// mismatch is reported but nothing is rolled back or repaired, and the
// process exit code is unaffected. Pre-existing rows in a reused database
// will legitimately fail the audit.
func Validate(ctx context.Context, db *database.ReportDB, run *model.IngestRun) (*model.ValidationResult, error) {
	counts, err := db.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to re-query entity counts: %w", err)
	}

	result := &model.ValidationResult{
		Actual: counts,
	}

	checks := []struct {
		kind     string
		expected int
		actual   int
	}{
		{"reports", len(run.Successful()), counts.Reports},
		{"accomplishments", run.Totals.Accomplishments, counts.Accomplishments},
		{"goals", run.Totals.Goals, counts.Goals},
		{"blockers", run.Totals.Blockers, counts.Blockers},
		{"risks", run.Totals.Risks, counts.Risks},
	}

	for _, check := range checks {
		if check.expected != check.actual {
			result.Mismatches = append(result.Mismatches,
				fmt.Sprintf("%s: expected %d, store has %d", check.kind, check.expected, check.actual))
		}
	}

	result.Passed = len(result.Mismatches) == 0
	return result, nil
}
