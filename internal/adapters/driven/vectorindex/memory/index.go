// Package memory provides a brute-force in-memory vector index.
// The corpus is small enough that exact cosine search beats the
// operational cost of an approximate index; vectors are rebuilt from
// the document store's persisted embeddings at startup.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
	"github.com/calyx-labs/duet-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an exact cosine-similarity vector index.
// The dimension is fixed at creation; vectors of any other size are
// rejected with domain.ErrDimensionMismatch.
type Index struct {
	dimensions int

	mu      sync.RWMutex
	vectors map[string][]float32
}

// New creates an index for vectors of the given dimension.
func New(dimensions int) *Index {
	return &Index{
		dimensions: dimensions,
		vectors:    make(map[string][]float32),
	}
}

// Dimensions returns the fixed vector size.
func (idx *Index) Dimensions() int {
	return idx.dimensions
}

// Upsert inserts or replaces the vector for the given chunk ID.
func (idx *Index) Upsert(_ context.Context, chunkID string, embedding []float32) error {
	if len(embedding) != idx.dimensions {
		return fmt.Errorf("got %d dimensions, index holds %d: %w",
			len(embedding), idx.dimensions, domain.ErrDimensionMismatch)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	stored := make([]float32, len(embedding))
	copy(stored, embedding)
	idx.vectors[chunkID] = stored
	return nil
}

// Delete removes a vector from the index. Unknown IDs are a no-op.
func (idx *Index) Delete(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.vectors, chunkID)
	return nil
}

// DeleteAll clears the index.
func (idx *Index) DeleteAll(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.vectors = make(map[string][]float32)
	return nil
}

// Search finds the k nearest neighbours to the query vector by
// brute-force cosine similarity, descending. Requesting more results
// than the index holds returns everything.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("query has %d dimensions, index holds %d: %w",
			len(query), idx.dimensions, domain.ErrDimensionMismatch)
	}
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	hits := make([]driven.VectorHit, 0, len(idx.vectors))
	for chunkID, vector := range idx.vectors {
		hits = append(hits, driven.VectorHit{
			ChunkID:    chunkID,
			Similarity: cosineSimilarity(query, vector),
		})
	}
	idx.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the number of vectors in the index.
func (idx *Index) Count(_ context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors), nil
}

// Close is a no-op for the in-memory index.
func (idx *Index) Close() error {
	return nil
}

// cosineSimilarity computes the cosine of the angle between two
// equal-length vectors. Zero vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
