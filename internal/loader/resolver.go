package loader

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/database"
	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/model"
)

// Resolver deduplicates team and lead names across a batch of parsed
// reports and upserts each into the store exactly once, building the
// name-to-identifier maps the Loader consumes.
//
// Design decision: the maps are built once per batch run and passed
// explicitly through the IngestRun rather than being held as ambient
// cache state. A name missing from its map (because its upsert failed)
// causes every team referencing it to be skipped at load time with a
// warning; a single bad name never fails the batch.
type Resolver struct {
	db     *database.ReportDB
	logger *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets a custom logger for the resolver.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver backed by the given store.
func NewResolver(db *database.ReportDB, opts ...ResolverOption) *Resolver {
	r := &Resolver{db: db}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Resolve collects the distinct team and lead names from every
// successfully parsed report, upserts them by natural key, and fills
// run.TeamIDs and run.LeadIDs. Teams get a slug derived from their name,
// with numeric suffixes on collision.
//
// The empty lead name is resolved like any other: teams without a lead
// still load, referencing a lead entity with an empty name.
func (r *Resolver) Resolve(ctx context.Context, run *model.IngestRun) error {
	teamNames := make([]string, 0)
	leadNames := make([]string, 0)
	seenTeams := make(map[string]bool)
	seenLeads := make(map[string]bool)

	for _, outcome := range run.Successful() {
		for _, team := range outcome.Report.Teams {
			if !seenTeams[team.Name] {
				seenTeams[team.Name] = true
				teamNames = append(teamNames, team.Name)
			}
			if !seenLeads[team.Lead] {
				seenLeads[team.Lead] = true
				leadNames = append(leadNames, team.Lead)
			}
		}
	}

	r.logger.Info("resolving reference entities",
		"teams", len(teamNames),
		"leads", len(leadNames),
	)

	usedSlugs := make(map[string]bool)
	for _, name := range teamNames {
		if err := ctx.Err(); err != nil {
			return err
		}

		slug := uniqueSlug(Slugify(name), usedSlugs)
		usedSlugs[slug] = true

		id, err := r.db.UpsertTeam(ctx, name, slug)
		if err != nil {
			r.logger.Warn("team upsert failed, teams referencing it will be skipped",
				"team", name,
				"error", err,
			)
			continue
		}
		run.TeamIDs[name] = id
	}

	for _, name := range leadNames {
		if err := ctx.Err(); err != nil {
			return err
		}

		id, err := r.db.UpsertTeamLead(ctx, name)
		if err != nil {
			r.logger.Warn("team lead upsert failed, teams referencing it will be skipped",
				"lead", name,
				"error", err,
			)
			continue
		}
		run.LeadIDs[name] = id
	}

	return nil
}

// slugSeparatorPattern matches runs of characters that are not lowercase
// letters or digits; each run collapses to a single hyphen.
var slugSeparatorPattern = regexp.MustCompile(`[^a-z0-9]+`)

var slugLower = cases.Lower(language.Und)

// Slugify derives a URL-safe slug from a team name: case-folded,
// non-alphanumeric runs collapsed to single hyphens, leading and trailing
// hyphens trimmed. "Ops/Infra" becomes "ops-infra".
func Slugify(name string) string {
	slug := slugLower.String(name)
	slug = slugSeparatorPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// uniqueSlug appends a numeric suffix to base until it does not collide
// with an already-used slug. Distinct team names can fold to the same
// slug ("Ops/Infra" and "Ops Infra"); the suffix keeps the UNIQUE
// constraint satisfiable.
func uniqueSlug(base string, used map[string]bool) string {
	slug := base
	for counter := 1; used[slug]; counter++ {
		slug = base + "-" + strconv.Itoa(counter)
	}
	return slug
}
