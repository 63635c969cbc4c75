package driven

import "context"

// LLMService provides chat completions against a local inference server.
// Both agents (reasoner and responder) drive the same interface with
// different models and prompt templates.
type LLMService interface {
	// Chat conducts a chat completion over the given messages using the
	// named model. The model is a parameter rather than fixed at
	// construction because the two agents share one backend.
	Chat(ctx context.Context, model string, messages []ChatMessage, opts ChatOptions) (string, error)

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup to verify connectivity.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a chat completion request.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
