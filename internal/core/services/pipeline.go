package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
	"github.com/calyx-labs/duet-cli/internal/core/ports/driven"
	"github.com/calyx-labs/duet-cli/internal/core/ports/driving"
	"github.com/calyx-labs/duet-cli/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.PipelineService = (*Pipeline)(nil)

// historyWindow is how many recent messages each agent sees alongside
// the current question.
const historyWindow = 6

// Pipeline orchestrates the retrieve -> reason -> respond flow and
// owns conversation history. Queries within a session run strictly
// one at a time; distinct sessions run concurrently.
type Pipeline struct {
	retriever     *Retriever
	reasoner      *Agent
	responder     *Agent
	conversations driven.ConversationStore

	mu       sync.RWMutex
	sessions map[string]*session
}

// session tracks per-session pipeline state. The turn mutex
// serialises queries; stage is the externally visible position.
type session struct {
	turn  sync.Mutex
	stage domain.PipelineStage
}

// NewPipeline creates a pipeline orchestrator.
func NewPipeline(
	retriever *Retriever,
	reasoner *Agent,
	responder *Agent,
	conversations driven.ConversationStore,
) *Pipeline {
	return &Pipeline{
		retriever:     retriever,
		reasoner:      reasoner,
		responder:     responder,
		conversations: conversations,
		sessions:      make(map[string]*session),
	}
}

// Ask processes one question to completion. A failed stage surfaces
// its error and leaves the session's history unmodified for that turn.
func (p *Pipeline) Ask(ctx context.Context, sessionID, question string) (*domain.Exchange, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.ErrInvalidInput
	}

	sess := p.session(sessionID)
	sess.turn.Lock()
	defer sess.turn.Unlock()
	defer p.setStage(sessionID, sess, domain.StageIdle)

	logger.Debug("Session %s: %q", sessionID, question)

	conv, err := p.conversations.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	history := conv.Recent(historyWindow)

	p.setStage(sessionID, sess, domain.StageRetrieving)
	retrieved, err := p.retriever.Retrieve(ctx, question, 0)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	p.setStage(sessionID, sess, domain.StageReasoning)
	reasoning, err := p.reasoner.Reason(ctx, question, retrieved, history)
	if err != nil {
		return nil, fmt.Errorf("reason: %w", err)
	}

	p.setStage(sessionID, sess, domain.StageResponding)
	answer, err := p.responder.Respond(ctx, question, reasoning, history)
	if err != nil {
		return nil, fmt.Errorf("respond: %w", err)
	}

	// The turn succeeded end to end; only now does it enter history.
	if err := p.record(ctx, sessionID, question, answer); err != nil {
		return nil, err
	}

	return &domain.Exchange{
		SessionID:   sessionID,
		Question:    question,
		Retrieved:   retrieved,
		Reasoning:   reasoning,
		Answer:      answer,
		CompletedAt: time.Now(),
	}, nil
}

// Retrieve runs only the retrieval stage. Read-only: no history, no
// stage transitions.
func (p *Pipeline) Retrieve(ctx context.Context, question string, k int) (domain.RetrievalResult, error) {
	return p.retriever.Retrieve(ctx, question, k)
}

// History returns the conversation for a session.
func (p *Pipeline) History(ctx context.Context, sessionID string) (domain.Conversation, error) {
	return p.conversations.Get(ctx, sessionID)
}

// ClearHistory removes a session's conversation.
func (p *Pipeline) ClearHistory(ctx context.Context, sessionID string) error {
	return p.conversations.Clear(ctx, sessionID)
}

// Stage reports where a session's current query is in the pipeline.
// Unknown sessions are idle.
func (p *Pipeline) Stage(sessionID string) domain.PipelineStage {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if sess, ok := p.sessions[sessionID]; ok {
		return sess.stage
	}
	return domain.StageIdle
}

// record appends the user question and assistant answer to history.
func (p *Pipeline) record(ctx context.Context, sessionID, question, answer string) error {
	conv, err := p.conversations.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	conv.SessionID = sessionID

	now := time.Now()
	conv = conv.Append(domain.AgentMessage{
		ID:        uuid.New().String(),
		Role:      domain.RoleUser,
		Content:   question,
		CreatedAt: now,
	})
	conv = conv.Append(domain.AgentMessage{
		ID:        uuid.New().String(),
		Role:      domain.RoleAssistant,
		Content:   answer,
		CreatedAt: now,
	})

	if err := p.conversations.Put(ctx, conv); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// session returns the state for a session, creating it on first use.
func (p *Pipeline) session(sessionID string) *session {
	p.mu.Lock()
	defer p.mu.Unlock()

	sess, ok := p.sessions[sessionID]
	if !ok {
		sess = &session{stage: domain.StageIdle}
		p.sessions[sessionID] = sess
	}
	return sess
}

func (p *Pipeline) setStage(sessionID string, sess *session, stage domain.PipelineStage) {
	p.mu.Lock()
	sess.stage = stage
	p.mu.Unlock()
	logger.Stage(sessionID, stage.String())
}
