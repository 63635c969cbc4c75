package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
)

func TestIndex_UpsertAndSearch(t *testing.T) {
	idx := New(3)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "east", []float32{1, 0, 0}))
	require.NoError(t, idx.Upsert(ctx, "north", []float32{0, 1, 0}))
	require.NoError(t, idx.Upsert(ctx, "northeast", []float32{1, 1, 0}))

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "east", hits[0].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
	assert.Equal(t, "northeast", hits[1].ChunkID)
	assert.Equal(t, "north", hits[2].ChunkID)

	// Descending similarity.
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Similarity, hits[i].Similarity)
	}
}

func TestIndex_Search_KLargerThanPopulation(t *testing.T) {
	idx := New(2)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "only", []float32{1, 1}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestIndex_Search_TruncatesToK(t *testing.T) {
	idx := New(2)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		id := string(rune('a' + i))
		require.NoError(t, idx.Upsert(ctx, id, []float32{float32(i + 1), 1}))
	}

	hits, err := idx.Search(ctx, []float32{1, 0}, 4)
	require.NoError(t, err)
	assert.Len(t, hits, 4)
}

func TestIndex_Search_EmptyIndex(t *testing.T) {
	idx := New(2)

	hits, err := idx.Search(context.Background(), []float32{1, 0}, 4)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_DimensionMismatch(t *testing.T) {
	idx := New(768)
	ctx := context.Background()

	err := idx.Upsert(ctx, "c1", make([]float32, 384))
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = idx.Search(ctx, make([]float32, 384), 4)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestIndex_UpsertReplaces(t *testing.T) {
	idx := New(2)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "c1", []float32{1, 0}))
	require.NoError(t, idx.Upsert(ctx, "c1", []float32{0, 1}))

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hits, err := idx.Search(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
}

func TestIndex_Delete(t *testing.T) {
	idx := New(2)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "c1", []float32{1, 0}))
	require.NoError(t, idx.Delete(ctx, "c1"))
	require.NoError(t, idx.Delete(ctx, "never-existed"))

	count, _ := idx.Count(ctx)
	assert.Zero(t, count)
}

func TestIndex_DeleteAll(t *testing.T) {
	idx := New(2)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "c1", []float32{1, 0}))
	require.NoError(t, idx.Upsert(ctx, "c2", []float32{0, 1}))
	require.NoError(t, idx.DeleteAll(ctx))

	count, _ := idx.Count(ctx)
	assert.Zero(t, count)
}

func TestIndex_UpsertCopiesVector(t *testing.T) {
	idx := New(2)
	ctx := context.Background()

	vec := []float32{1, 0}
	require.NoError(t, idx.Upsert(ctx, "c1", vec))
	vec[0] = 99

	hits, err := idx.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, cosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}
