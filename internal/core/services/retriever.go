package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
	"github.com/calyx-labs/duet-cli/internal/core/ports/driven"
	"github.com/calyx-labs/duet-cli/internal/logger"
)

// DefaultTopK is the number of passages retrieved per query.
const DefaultTopK = 4

// Retriever finds the passages most similar to a query.
type Retriever struct {
	embedder    driven.EmbeddingService
	vectorIndex driven.VectorIndex
	docStore    driven.DocumentStore
	topK        int
}

// NewRetriever creates a retriever. A topK of zero or less falls back
// to DefaultTopK.
func NewRetriever(
	embedder driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	docStore driven.DocumentStore,
	topK int,
) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		embedder:    embedder,
		vectorIndex: vectorIndex,
		docStore:    docStore,
		topK:        topK,
	}
}

// Retrieve embeds the query and returns the k most similar passages,
// descending by similarity. A k of zero or less uses the retriever's
// configured default.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) (domain.RetrievalResult, error) {
	result := domain.RetrievalResult{Query: query}

	if strings.TrimSpace(query) == "" {
		return result, domain.ErrInvalidInput
	}
	if k <= 0 {
		k = r.topK
	}

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return result, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.vectorIndex.Search(ctx, embedding, k)
	if err != nil {
		return result, fmt.Errorf("search: %w", err)
	}

	for _, hit := range hits {
		passage, err := r.hydrate(ctx, hit)
		if err != nil {
			// The index can briefly hold vectors for chunks deleted
			// from the store. Skip them rather than failing the query.
			if errors.Is(err, domain.ErrNotFound) {
				logger.Debug("Stale vector for chunk %s", hit.ChunkID)
				continue
			}
			return result, err
		}
		result.Passages = append(result.Passages, passage)
	}

	logger.Debug("Retrieved %d passages for %q", len(result.Passages), query)
	return result, nil
}

// hydrate turns a vector hit into a passage with document context.
func (r *Retriever) hydrate(ctx context.Context, hit driven.VectorHit) (domain.Passage, error) {
	chunk, err := r.docStore.GetChunk(ctx, hit.ChunkID)
	if err != nil {
		return domain.Passage{}, fmt.Errorf("get chunk %s: %w", hit.ChunkID, err)
	}

	passage := domain.Passage{
		Chunk: *chunk,
		Score: hit.Similarity,
	}

	doc, err := r.docStore.GetDocument(ctx, chunk.DocumentID)
	if err == nil {
		passage.DocumentTitle = doc.Title
		passage.DocumentURI = doc.URI
	}

	return passage, nil
}
