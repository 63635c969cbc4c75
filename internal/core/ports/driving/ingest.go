package driving

import (
	"context"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
)

// IngestOptions configures an ingestion run.
type IngestOptions struct {
	// Rebuild clears the existing index before re-ingesting.
	// Incremental mode (the default) appends and replaces per document.
	Rebuild bool
}

// IngestReport summarises an ingestion run.
type IngestReport struct {
	// Documents is the number of documents indexed.
	Documents int

	// Chunks is the number of chunks written to the index.
	Chunks int

	// Skipped lists paths that could not be ingested, with the reason.
	Skipped map[string]error
}

// IngestService converts source files into indexed, embedded chunks.
type IngestService interface {
	// IngestPaths ingests the given files or directories.
	// Returns a report of indexed counts and per-path failures.
	IngestPaths(ctx context.Context, paths []string, opts IngestOptions) (*IngestReport, error)

	// IngestRaw ingests a single in-memory document (e.g. an upload).
	// Returns the number of chunks indexed.
	IngestRaw(ctx context.Context, raw *domain.RawDocument) (int, error)

	// Remove deletes a document (and its chunks and vectors) by URI.
	Remove(ctx context.Context, uri string) error

	// Watch ingests changes from the connector until ctx is cancelled.
	Watch(ctx context.Context, conn WatchSource) error
}

// WatchSource is the subset of the connector interface Watch consumes.
type WatchSource interface {
	Watch(ctx context.Context) (<-chan domain.RawDocumentChange, <-chan error)
}
