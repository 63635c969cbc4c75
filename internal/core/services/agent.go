package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
	"github.com/calyx-labs/duet-cli/internal/core/ports/driven"
	"github.com/calyx-labs/duet-cli/internal/logger"
)

// Default agent models served by Ollama.
const (
	DefaultReasonerModel  = "mistral"
	DefaultResponderModel = "llama2"
)

// defaultMaxTokens caps generation length for both agents.
const defaultMaxTokens = 512

// Agent wraps an LLM with a named role, a model, and a prompt template.
// The reasoner and the responder are the same machinery configured
// differently.
type Agent struct {
	name      string
	model     string
	prompt    string
	llm       driven.LLMService
	prompts   driven.PromptStore
	maxTokens int
}

// NewReasoner creates the agent that distils retrieved passages into
// reasoning notes. An empty model falls back to DefaultReasonerModel.
func NewReasoner(llm driven.LLMService, prompts driven.PromptStore, model string) *Agent {
	if model == "" {
		model = DefaultReasonerModel
	}
	return &Agent{
		name:      "reasoner",
		model:     model,
		prompt:    driven.PromptReasoner,
		llm:       llm,
		prompts:   prompts,
		maxTokens: defaultMaxTokens,
	}
}

// NewResponder creates the agent that turns reasoning notes into the
// final answer. An empty model falls back to DefaultResponderModel.
func NewResponder(llm driven.LLMService, prompts driven.PromptStore, model string) *Agent {
	if model == "" {
		model = DefaultResponderModel
	}
	return &Agent{
		name:      "responder",
		model:     model,
		prompt:    driven.PromptResponder,
		llm:       llm,
		prompts:   prompts,
		maxTokens: defaultMaxTokens,
	}
}

// Model returns the model this agent runs on.
func (a *Agent) Model() string {
	return a.model
}

// Reason produces reasoning notes for a question from retrieved
// passages, with recent history for context. Only meaningful on the
// reasoner agent.
func (a *Agent) Reason(ctx context.Context, question string, retrieved domain.RetrievalResult, history []domain.AgentMessage) (string, error) {
	return a.complete(ctx, question, formatPassages(retrieved.Passages), history)
}

// Respond produces the final answer from reasoning notes, with recent
// history for context. Only meaningful on the responder agent.
func (a *Agent) Respond(ctx context.Context, question, reasoning string, history []domain.AgentMessage) (string, error) {
	return a.complete(ctx, question, reasoning, history)
}

// complete renders the agent's prompt template and runs one chat turn.
// History precedes the templated prompt as ordinary chat messages, so
// the model sees earlier turns the way it saw them originally.
func (a *Agent) complete(ctx context.Context, question, material string, history []domain.AgentMessage) (string, error) {
	template, err := a.prompts.Load(a.prompt)
	if err != nil {
		return "", fmt.Errorf("load %s prompt: %w", a.name, err)
	}

	logger.Debug("Agent %s calling model %s (%d history messages)", a.name, a.model, len(history))

	messages := make([]driven.ChatMessage, 0, len(history)+1)
	for _, msg := range history {
		messages = append(messages, driven.ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	messages = append(messages, driven.ChatMessage{
		Role:    "user",
		Content: fmt.Sprintf(template, question, material),
	})

	answer, err := a.llm.Chat(ctx, a.model, messages, driven.ChatOptions{
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", a.name, err)
	}

	return strings.TrimSpace(answer), nil
}

// formatPassages renders passages as numbered blocks for the reasoner
// prompt, each headed by its source document for provenance.
func formatPassages(passages []domain.Passage) string {
	if len(passages) == 0 {
		return "(no passages retrieved)"
	}

	var b strings.Builder
	for i, p := range passages {
		if i > 0 {
			b.WriteString("\n")
		}
		source := p.DocumentTitle
		if source == "" {
			source = p.DocumentURI
		}
		if source != "" {
			fmt.Fprintf(&b, "[Passage %d: %s]\n%s\n", i+1, source, p.Chunk.Content)
		} else {
			fmt.Fprintf(&b, "[Passage %d]\n%s\n", i+1, p.Chunk.Content)
		}
	}
	return b.String()
}
