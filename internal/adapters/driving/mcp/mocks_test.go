package mcp

import (
	"context"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
)

// mockPipeline implements driving.PipelineService for tests.
type mockPipeline struct {
	exchange    *domain.Exchange
	askErr      error
	lastSession string
	lastAsked   string
	result      domain.RetrievalResult
	retrieveErr error
	lastK       int
}

func (m *mockPipeline) Ask(_ context.Context, sessionID, question string) (*domain.Exchange, error) {
	m.lastSession = sessionID
	m.lastAsked = question
	if m.askErr != nil {
		return nil, m.askErr
	}
	if m.exchange != nil {
		return m.exchange, nil
	}
	return &domain.Exchange{
		SessionID: sessionID,
		Question:  question,
		Answer:    "mock answer",
	}, nil
}

func (m *mockPipeline) Retrieve(_ context.Context, question string, k int) (domain.RetrievalResult, error) {
	m.lastK = k
	if m.retrieveErr != nil {
		return domain.RetrievalResult{}, m.retrieveErr
	}
	result := m.result
	result.Query = question
	return result, nil
}

func (m *mockPipeline) History(_ context.Context, sessionID string) (domain.Conversation, error) {
	return domain.Conversation{SessionID: sessionID}, nil
}

func (m *mockPipeline) ClearHistory(context.Context, string) error {
	return nil
}

func (m *mockPipeline) Stage(string) domain.PipelineStage {
	return domain.StageIdle
}

// mockDocStore implements the subset of driven.DocumentStore the
// resources use.
type mockDocStore struct {
	docs    []domain.Document
	listErr error
	getErr  error
}

func (m *mockDocStore) SaveDocument(context.Context, *domain.Document) error { return nil }
func (m *mockDocStore) SaveChunks(context.Context, []domain.Chunk) error     { return nil }

func (m *mockDocStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for i := range m.docs {
		if m.docs[i].ID == id {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocStore) GetDocumentByURI(context.Context, string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *mockDocStore) GetChunks(context.Context, string) ([]domain.Chunk, error) {
	return nil, nil
}

func (m *mockDocStore) GetChunk(context.Context, string) (*domain.Chunk, error) {
	return nil, domain.ErrNotFound
}

func (m *mockDocStore) AllChunks(context.Context) ([]domain.Chunk, error) { return nil, nil }

func (m *mockDocStore) ListDocuments(context.Context) ([]domain.Document, error) {
	return m.docs, m.listErr
}

func (m *mockDocStore) DeleteDocument(context.Context, string) error { return nil }
func (m *mockDocStore) DeleteAll(context.Context) error              { return nil }
func (m *mockDocStore) CountChunks(context.Context) (int, error)     { return len(m.docs), nil }
