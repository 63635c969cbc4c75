package driven

import (
	"context"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
)

// Connector fetches raw documents from a document source.
// The filesystem connector is the only implementation: it walks a
// directory tree and can watch it for changes.
type Connector interface {
	// FullScan fetches all documents from the source.
	// Documents stream on the first channel; errors on the second.
	// Both channels close when the scan completes.
	FullScan(ctx context.Context) (<-chan domain.RawDocument, <-chan error)

	// Watch emits change events until the context is cancelled.
	// The changes channel closes when watching stops.
	Watch(ctx context.Context) (<-chan domain.RawDocumentChange, <-chan error)

	// Close releases resources.
	Close() error
}
