package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
	"github.com/calyx-labs/duet-cli/internal/core/ports/driving"
)

// executeCommand runs the root command with the given args and returns
// combined output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCommandWithInput(t, "", args...)
}

// executeCommandWithInput additionally feeds the command's stdin.
func executeCommandWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetServices clears package-level wiring after a test.
func resetServices(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		SetServices(&Services{})
	})
}

// cliMockPipeline implements driving.PipelineService.
// ctxKey marks test values planted on the command context.
type ctxKey struct{}

type cliMockPipeline struct {
	exchange  *domain.Exchange
	askErr    error
	asked     []string
	lastAsked string
	session   string
	ctxValue  any
}

func (m *cliMockPipeline) Ask(ctx context.Context, sessionID, question string) (*domain.Exchange, error) {
	m.ctxValue = ctx.Value(ctxKey{})
	m.session = sessionID
	m.lastAsked = question
	m.asked = append(m.asked, question)
	if m.askErr != nil {
		return nil, m.askErr
	}
	if m.exchange != nil {
		return m.exchange, nil
	}
	return &domain.Exchange{
		SessionID: sessionID,
		Question:  question,
		Answer:    "forty-two",
		Reasoning: "- key fact",
	}, nil
}

func (m *cliMockPipeline) Retrieve(context.Context, string, int) (domain.RetrievalResult, error) {
	return domain.RetrievalResult{}, nil
}

func (m *cliMockPipeline) History(_ context.Context, sessionID string) (domain.Conversation, error) {
	return domain.Conversation{SessionID: sessionID}, nil
}

func (m *cliMockPipeline) ClearHistory(context.Context, string) error { return nil }

func (m *cliMockPipeline) Stage(string) domain.PipelineStage { return domain.StageIdle }

// cliMockIngest implements driving.IngestService.
type cliMockIngest struct {
	report    *driving.IngestReport
	pathsErr  error
	lastPaths []string
	lastOpts  driving.IngestOptions
	removed   []string
	removeErr error
}

func (m *cliMockIngest) IngestPaths(_ context.Context, paths []string, opts driving.IngestOptions) (*driving.IngestReport, error) {
	m.lastPaths = paths
	m.lastOpts = opts
	if m.pathsErr != nil {
		return nil, m.pathsErr
	}
	if m.report != nil {
		return m.report, nil
	}
	return &driving.IngestReport{Documents: 1, Chunks: 2}, nil
}

func (m *cliMockIngest) IngestRaw(context.Context, *domain.RawDocument) (int, error) {
	return 0, nil
}

func (m *cliMockIngest) Remove(_ context.Context, uri string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = append(m.removed, uri)
	return nil
}

func (m *cliMockIngest) Watch(context.Context, driving.WatchSource) error { return nil }

// cliMockDocStore implements the driven.DocumentStore methods the
// commands touch.
type cliMockDocStore struct {
	docs []domain.Document
}

func (m *cliMockDocStore) SaveDocument(context.Context, *domain.Document) error { return nil }
func (m *cliMockDocStore) SaveChunks(context.Context, []domain.Chunk) error     { return nil }

func (m *cliMockDocStore) GetDocument(context.Context, string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *cliMockDocStore) GetDocumentByURI(context.Context, string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *cliMockDocStore) GetChunks(context.Context, string) ([]domain.Chunk, error) {
	return nil, nil
}

func (m *cliMockDocStore) GetChunk(context.Context, string) (*domain.Chunk, error) {
	return nil, domain.ErrNotFound
}

func (m *cliMockDocStore) AllChunks(context.Context) ([]domain.Chunk, error) { return nil, nil }

func (m *cliMockDocStore) ListDocuments(context.Context) ([]domain.Document, error) {
	return m.docs, nil
}

func (m *cliMockDocStore) DeleteDocument(context.Context, string) error { return nil }
func (m *cliMockDocStore) DeleteAll(context.Context) error              { return nil }

func (m *cliMockDocStore) CountChunks(context.Context) (int, error) {
	count := 0
	for range m.docs {
		count++
	}
	return count, nil
}
