package driven

import (
	"context"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite so the corpus survives process restarts.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks for a document, replacing any previous
	// chunks with the same IDs.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentByURI retrieves a document by its source URI.
	GetDocumentByURI(ctx context.Context, uri string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document, ordered by position.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// AllChunks returns every stored chunk. Used to rebuild the vector
	// index from persisted embeddings at startup.
	AllChunks(ctx context.Context) ([]domain.Chunk, error)

	// ListDocuments returns all documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// DeleteAll clears the store. Used for rebuild-mode ingestion.
	DeleteAll(ctx context.Context) error

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)
}
