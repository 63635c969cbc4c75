package driven

import (
	"context"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
)

// ConversationStore holds per-session conversation history.
// History is session-scoped: it lives for the session's duration and is
// cleared only by explicit user action, so the default implementation
// is in-memory.
type ConversationStore interface {
	// Get returns the conversation for a session. A session with no
	// history yet returns an empty conversation, not an error.
	Get(ctx context.Context, sessionID string) (domain.Conversation, error)

	// Put replaces the stored conversation for a session.
	Put(ctx context.Context, conv domain.Conversation) error

	// Clear removes a session's conversation.
	Clear(ctx context.Context, sessionID string) error
}
