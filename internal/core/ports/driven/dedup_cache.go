package driven

import "context"

// DedupCache tracks which (scope, file hash) pairs have already been
// ingested. It backs the §4.K / §9 warn-and-continue deduplication:
// callers check Seen before ingesting and call Mark after a successful
// ingest. scope is the documents collection name for the per-collection
// default, or a fixed global key when global dedup is enabled (§9).
type DedupCache interface {
	// Seen reports whether hash has already been recorded for scope.
	Seen(ctx context.Context, scope, hash string) (bool, error)

	// Mark records hash as ingested for scope.
	Mark(ctx context.Context, scope, hash string) error
}
