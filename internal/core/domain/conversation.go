package domain

import "time"

// MessageRole identifies the author of a conversation message.
type MessageRole string

// Recognised message roles.
const (
	// RoleUser is a question typed by the user.
	RoleUser MessageRole = "user"

	// RoleAssistant is a final answer produced by the responder agent.
	RoleAssistant MessageRole = "assistant"

	// RoleReasoner is intermediate analysis from the reasoner agent.
	// Reasoner output is kept on the Exchange for display, not appended
	// to conversation history.
	RoleReasoner MessageRole = "reasoner"
)

// IsValid returns true if the role is recognised.
func (r MessageRole) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleReasoner:
		return true
	default:
		return false
	}
}

// AgentMessage is a single message in a conversation.
// Messages are immutable once created.
type AgentMessage struct {
	// ID is the unique identifier for the message.
	ID string

	// Role identifies the author.
	Role MessageRole

	// Content is the message text.
	Content string

	// CreatedAt is when the message was recorded.
	CreatedAt time.Time
}

// Conversation is the append-only message history for one session.
// It is owned by the pipeline orchestrator and cleared only by
// explicit user action or session end.
type Conversation struct {
	// SessionID scopes the conversation to a session.
	SessionID string

	// Messages is the chronological message sequence.
	Messages []AgentMessage

	// StartedAt is when the first message was recorded.
	StartedAt time.Time
}

// Append returns a copy of the conversation with the message added.
// The receiver is not modified; history entries are never rewritten.
func (c Conversation) Append(msg AgentMessage) Conversation {
	out := c
	if len(c.Messages) == 0 {
		out.StartedAt = msg.CreatedAt
	}
	out.Messages = make([]AgentMessage, 0, len(c.Messages)+1)
	out.Messages = append(out.Messages, c.Messages...)
	out.Messages = append(out.Messages, msg)
	return out
}

// Recent returns the last n messages, oldest first.
func (c Conversation) Recent(n int) []AgentMessage {
	if n <= 0 || len(c.Messages) == 0 {
		return nil
	}
	if n > len(c.Messages) {
		n = len(c.Messages)
	}
	return c.Messages[len(c.Messages)-n:]
}

// Exchange is the full result of one pipeline turn.
type Exchange struct {
	// SessionID is the session the exchange belongs to.
	SessionID string

	// Question is the user's query text.
	Question string

	// Retrieved holds the passages fed to the agents.
	Retrieved RetrievalResult

	// Reasoning is the reasoner agent's output, treated as opaque text.
	Reasoning string

	// Answer is the responder agent's final user-visible answer.
	Answer string

	// CompletedAt is when the responder finished.
	CompletedAt time.Time
}
