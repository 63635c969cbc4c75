package driving

import (
	"context"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
)

// PipelineService runs queries through the retrieve -> reason -> respond
// pipeline and owns conversation history.
type PipelineService interface {
	// Ask processes one question to completion. Queries within a session
	// are strictly sequential; a failed stage surfaces its error and
	// leaves the session's history unmodified for that turn.
	Ask(ctx context.Context, sessionID, question string) (*domain.Exchange, error)

	// Retrieve runs only the retrieval stage. Read-only.
	Retrieve(ctx context.Context, question string, k int) (domain.RetrievalResult, error)

	// History returns the conversation for a session.
	History(ctx context.Context, sessionID string) (domain.Conversation, error)

	// ClearHistory removes a session's conversation.
	ClearHistory(ctx context.Context, sessionID string) error

	// Stage reports where a session's current query is in the pipeline.
	Stage(sessionID string) domain.PipelineStage
}
