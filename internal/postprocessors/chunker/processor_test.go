package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
)

func TestNew_Defaults(t *testing.T) {
	p := New()
	assert.Equal(t, DefaultChunkSize, p.chunkSize)
	assert.Equal(t, DefaultChunkOverlap, p.overlap)
}

func TestNew_Options(t *testing.T) {
	p := New(WithChunkSize(500), WithOverlap(50))
	assert.Equal(t, 500, p.chunkSize)
	assert.Equal(t, 50, p.overlap)
}

func TestNew_OverlapClamped(t *testing.T) {
	// Overlap >= chunk size would prevent the window from advancing
	p := New(WithChunkSize(100), WithOverlap(100))
	assert.Equal(t, 25, p.overlap)
}

func TestProcess_EmptyContent(t *testing.T) {
	p := New()
	doc := &domain.Document{ID: "d1", Content: ""}

	chunks, err := p.Process(context.Background(), doc, nil)
	require.NoError(t, err)
	assert.Nil(t, chunks)
}

func TestProcess_ContentFitsOneChunk(t *testing.T) {
	p := New()
	doc := &domain.Document{ID: "d1", Content: "The sky is blue."}

	chunks, err := p.Process(context.Background(), doc, nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "The sky is blue.", chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Position)
	assert.Equal(t, "d1", chunks[0].DocumentID)
	assert.NotEmpty(t, chunks[0].ID)
}

func TestProcess_PositionsOrdered(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))
	doc := &domain.Document{ID: "d1", Content: strings.Repeat("lorem ipsum dolor sit amet. ", 40)}

	chunks, err := p.Process(context.Background(), doc, nil)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Position)
		assert.LessOrEqual(t, len(chunk.Content), 100)
	}
}

func TestProcess_BreaksAtSentenceBoundary(t *testing.T) {
	// First sentence ends past the midpoint of the 60-char window, so the
	// chunk should end there rather than mid-sentence.
	content := "This sentence runs for a while and stops. Another sentence follows it and keeps going for some time."
	p := New(WithChunkSize(60), WithOverlap(0))
	doc := &domain.Document{ID: "d1", Content: content}

	chunks, err := p.Process(context.Background(), doc, nil)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "This sentence runs for a while and stops.", chunks[0].Content)
}

func TestProcess_CoversAllContent(t *testing.T) {
	content := strings.Repeat("abcdefghij", 50) // no sentence boundaries at all
	p := New(WithChunkSize(120), WithOverlap(30))
	doc := &domain.Document{ID: "d1", Content: content}

	chunks, err := p.Process(context.Background(), doc, nil)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	// The last chunk must reach the end of the content.
	last := chunks[len(chunks)-1].Content
	assert.True(t, strings.HasSuffix(content, last))
}

func TestName(t *testing.T) {
	assert.Equal(t, "chunker", New().Name())
}
