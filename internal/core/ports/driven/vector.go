package driven

import "context"

// VectorIndex provides similarity search over chunk embeddings.
// The similarity metric (cosine) and dimension are fixed at index
// creation; vectors of any other dimension are rejected with
// domain.ErrDimensionMismatch.
type VectorIndex interface {
	// Upsert inserts or replaces the vector for the given chunk ID.
	Upsert(ctx context.Context, chunkID string, embedding []float32) error

	// Delete removes a vector from the index. Unknown IDs are a no-op.
	Delete(ctx context.Context, chunkID string) error

	// DeleteAll clears the index. Used for rebuild-mode ingestion.
	DeleteAll(ctx context.Context) error

	// Search finds the k nearest neighbours to the query vector,
	// descending by similarity. Requesting more results than the index
	// holds returns everything, not an error.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Count returns the number of vectors in the index.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
