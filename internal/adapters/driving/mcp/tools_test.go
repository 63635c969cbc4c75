package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
)

func newTestMCPServer(t *testing.T, pipeline *mockPipeline) *Server {
	t.Helper()

	server, err := NewServer(&Ports{Pipeline: pipeline})
	require.NoError(t, err)
	return server
}

func TestHandleAsk(t *testing.T) {
	pipeline := &mockPipeline{
		exchange: &domain.Exchange{
			Answer:    "the answer",
			Reasoning: "the notes",
			Retrieved: domain.RetrievalResult{
				Passages: []domain.Passage{
					{
						Chunk:         domain.Chunk{Content: "passage"},
						DocumentTitle: "Doc",
						DocumentURI:   "/docs/doc.txt",
						Score:         0.7,
					},
				},
			},
		},
	}
	server := newTestMCPServer(t, pipeline)

	_, output, err := server.handleAsk(context.Background(), nil, AskInput{
		Question: "what?",
	})

	require.NoError(t, err)
	assert.Equal(t, "the answer", output.Answer)
	assert.Equal(t, "the notes", output.Reasoning)
	require.Len(t, output.Passages, 1)
	assert.Equal(t, "Doc", output.Passages[0].DocumentTitle)

	// Default session when none given.
	assert.Equal(t, "mcp", pipeline.lastSession)
	assert.Equal(t, "what?", pipeline.lastAsked)
}

func TestHandleAsk_CustomSession(t *testing.T) {
	pipeline := &mockPipeline{}
	server := newTestMCPServer(t, pipeline)

	_, _, err := server.handleAsk(context.Background(), nil, AskInput{
		Question: "q",
		Session:  "assistant-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "assistant-1", pipeline.lastSession)
}

func TestHandleAsk_PipelineError(t *testing.T) {
	pipeline := &mockPipeline{askErr: domain.ErrModelUnavailable}
	server := newTestMCPServer(t, pipeline)

	_, _, err := server.handleAsk(context.Background(), nil, AskInput{Question: "q"})

	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestHandleRetrieve(t *testing.T) {
	pipeline := &mockPipeline{
		result: domain.RetrievalResult{
			Passages: []domain.Passage{
				{Chunk: domain.Chunk{Content: "first"}, Score: 0.9},
				{Chunk: domain.Chunk{Content: "second"}, Score: 0.5},
			},
		},
	}
	server := newTestMCPServer(t, pipeline)

	_, output, err := server.handleRetrieve(context.Background(), nil, RetrieveInput{
		Question: "find",
		TopK:     2,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, output.Count)
	assert.Equal(t, "first", output.Passages[0].Content)
	assert.Equal(t, 2, pipeline.lastK)
}

func TestHandleRetrieve_Error(t *testing.T) {
	pipeline := &mockPipeline{retrieveErr: domain.ErrEmbeddingUnavailable}
	server := newTestMCPServer(t, pipeline)

	_, _, err := server.handleRetrieve(context.Background(), nil, RetrieveInput{Question: "q"})

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}
