// Package loader maps parsed reports onto the relational schema. The
// Resolver deduplicates teams and leads across a batch and upserts each
// exactly once, the Loader creates report entities with ordered nested
// collections, and the Validator audits the store's counts against the
// totals accumulated during loading.
package loader
