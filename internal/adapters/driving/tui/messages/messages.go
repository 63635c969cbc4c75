// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/calyx-labs/duet-cli/internal/core/domain"
)

// QuestionSubmitted is sent when the user submits a question.
type QuestionSubmitted struct {
	Question string
}

// AnswerReceived carries the completed exchange back to the model.
type AnswerReceived struct {
	Exchange *domain.Exchange
	Err      error
}

// StageTicked carries the current pipeline stage while a question is
// in flight. The model polls so the status bar tracks progress.
type StageTicked struct {
	Stage domain.PipelineStage
}

// HistoryLoaded carries the session's conversation from the service.
type HistoryLoaded struct {
	Conversation domain.Conversation
	Err          error
}

// HistoryCleared signals the session's history was cleared.
type HistoryCleared struct {
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
