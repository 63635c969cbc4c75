package memory

import (
	"context"
	"sync"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
	"github.com/calyx-labs/duet-cli/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore is an in-memory implementation of
// driven.ConversationStore. History lives for the process lifetime and
// is cleared by explicit user action.
type ConversationStore struct {
	mu    sync.RWMutex
	convs map[string]domain.Conversation
}

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		convs: make(map[string]domain.Conversation),
	}
}

// Get returns the conversation for a session. A session with no
// history yet returns an empty conversation.
func (s *ConversationStore) Get(_ context.Context, sessionID string) (domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if conv, ok := s.convs[sessionID]; ok {
		return conv, nil
	}
	return domain.Conversation{SessionID: sessionID}, nil
}

// Put replaces the stored conversation for a session.
func (s *ConversationStore) Put(_ context.Context, conv domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs[conv.SessionID] = conv
	return nil
}

// Clear removes a session's conversation. Unknown sessions are a no-op.
func (s *ConversationStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.convs, sessionID)
	return nil
}
