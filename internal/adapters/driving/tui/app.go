package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/calyx-labs/duet-cli/internal/adapters/driving/tui/keymap"
	"github.com/calyx-labs/duet-cli/internal/adapters/driving/tui/messages"
	"github.com/calyx-labs/duet-cli/internal/adapters/driving/tui/styles"
	"github.com/calyx-labs/duet-cli/internal/core/domain"
)

// stagePollInterval is how often the status bar refreshes while a
// question is in flight.
const stagePollInterval = 200 * time.Millisecond

// entry is one rendered item in the transcript.
type entry struct {
	role      domain.MessageRole
	content   string
	reasoning string
	err       error
}

// App is the chat TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// sessionID scopes the conversation.
	sessionID string

	styles *styles.Styles
	keys   *keymap.KeyMap

	input      textinput.Model
	transcript viewport.Model
	spinner    spinner.Model

	// entries is the rendered conversation, including in-flight and
	// failed turns that never reach stored history.
	entries []entry

	// busy is true while a question is in the pipeline.
	busy bool

	// stage is the pipeline stage of the in-flight question.
	stage domain.PipelineStage

	// showReasoning toggles display of the reasoner's notes.
	showReasoning bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates the first WindowSizeMsg has arrived.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat TUI with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	input := textinput.New()
	input.Placeholder = "Ask a question..."
	input.Focus()
	input.CharLimit = 1000

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		ports:     ports,
		ctx:       context.Background(),
		sessionID: "tui",
		styles:    styles.DefaultStyles(),
		keys:      keymap.DefaultKeyMap(),
		input:     input,
		spinner:   sp,
		stage:     domain.StageIdle,
	}, nil
}

// WithContext sets the context used for pipeline calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithSession sets the conversation session ID.
func (a *App) WithSession(sessionID string) *App {
	a.sessionID = sessionID
	return a
}

// SessionID returns the conversation session ID.
func (a *App) SessionID() string {
	return a.sessionID
}

// Entries returns the rendered transcript entries.
func (a *App) Entries() []entry {
	return a.entries
}

// Busy reports whether a question is in flight.
func (a *App) Busy() bool {
	return a.busy
}

// Init loads existing history for the session.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.loadHistoryCmd())
}

// Update handles incoming messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleResize(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.HistoryLoaded:
		if msg.Err == nil {
			a.entries = entriesFromConversation(msg.Conversation)
			a.refreshTranscript()
		}
		return a, nil

	case messages.AnswerReceived:
		return a.handleAnswer(msg)

	case messages.StageTicked:
		a.stage = msg.Stage
		if a.busy {
			return a, a.pollStageCmd()
		}
		return a, nil

	case messages.HistoryCleared:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.entries = nil
		a.err = nil
		a.refreshTranscript()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height

	// Transcript fills everything above the input and status bar.
	transcriptHeight := msg.Height - 5
	if transcriptHeight < 1 {
		transcriptHeight = 1
	}

	if !a.ready {
		a.transcript = viewport.New(msg.Width, transcriptHeight)
		a.ready = true
	} else {
		a.transcript.Width = msg.Width
		a.transcript.Height = transcriptHeight
	}
	a.input.Width = msg.Width - 6
	a.refreshTranscript()

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, a.keys.Quit):
		return a, tea.Quit

	case keymap.Matches(keyStr, a.keys.Clear):
		if a.busy {
			return a, nil
		}
		return a, a.clearHistoryCmd()

	case keymap.Matches(keyStr, a.keys.ToggleReasoning):
		a.showReasoning = !a.showReasoning
		a.refreshTranscript()
		return a, nil

	case keymap.Matches(keyStr, a.keys.ScrollUp):
		a.transcript.HalfViewUp()
		return a, nil

	case keymap.Matches(keyStr, a.keys.ScrollDown):
		a.transcript.HalfViewDown()
		return a, nil

	case keymap.Matches(keyStr, a.keys.Submit):
		return a.submit()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) submit() (tea.Model, tea.Cmd) {
	if a.busy {
		// One question at a time per session.
		return a, nil
	}

	question := strings.TrimSpace(a.input.Value())
	if question == "" {
		return a, nil
	}

	a.busy = true
	a.err = nil
	a.stage = domain.StageRetrieving
	a.input.SetValue("")
	a.entries = append(a.entries, entry{role: domain.RoleUser, content: question})
	a.refreshTranscript()

	return a, tea.Batch(a.askCmd(question), a.spinner.Tick, a.pollStageCmd())
}

func (a *App) handleAnswer(msg messages.AnswerReceived) (tea.Model, tea.Cmd) {
	a.busy = false
	a.stage = domain.StageIdle

	if msg.Err != nil {
		a.err = msg.Err
		a.entries = append(a.entries, entry{role: domain.RoleAssistant, err: msg.Err})
		a.refreshTranscript()
		return a, nil
	}

	a.entries = append(a.entries, entry{
		role:      domain.RoleAssistant,
		content:   msg.Exchange.Answer,
		reasoning: msg.Exchange.Reasoning,
	})
	a.refreshTranscript()
	return a, nil
}

// View renders the full screen.
func (a *App) View() string {
	if !a.ready {
		return "Starting duet..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("duet"))
	b.WriteString("\n")
	b.WriteString(a.transcript.View())
	b.WriteString("\n")
	b.WriteString(a.styles.InputField.Render(a.input.View()))
	b.WriteString("\n")
	b.WriteString(a.statusBar())
	return b.String()
}

func (a *App) statusBar() string {
	if a.busy {
		return a.styles.StatusBar.Render(
			fmt.Sprintf("%s %s...", a.spinner.View(), a.stage))
	}
	if a.err != nil {
		return a.styles.StatusBar.Render(a.styles.Error.Render(a.err.Error()))
	}

	var parts []string
	for _, binding := range a.keys.ShortHelp() {
		parts = append(parts, fmt.Sprintf("%s %s",
			binding.Help().Key, binding.Help().Desc))
	}
	return a.styles.StatusBar.Render(strings.Join(parts, "  "))
}

// refreshTranscript re-renders the conversation into the viewport and
// scrolls to the bottom.
func (a *App) refreshTranscript() {
	if !a.ready {
		return
	}

	var b strings.Builder
	for _, e := range a.entries {
		switch {
		case e.err != nil:
			b.WriteString(a.styles.Error.Render("error: " + e.err.Error()))
		case e.role == domain.RoleUser:
			b.WriteString(a.styles.UserLabel.Render("you") + "  " + e.content)
		default:
			if a.showReasoning && e.reasoning != "" {
				b.WriteString(a.styles.Reasoning.Render(e.reasoning))
				b.WriteString("\n")
			}
			b.WriteString(a.styles.AssistantLabel.Render("duet") + " " + e.content)
		}
		b.WriteString("\n\n")
	}

	a.transcript.SetContent(b.String())
	a.transcript.GotoBottom()
}

// ==================== Commands ====================

func (a *App) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		exchange, err := a.ports.Pipeline.Ask(a.ctx, a.sessionID, question)
		return messages.AnswerReceived{Exchange: exchange, Err: err}
	}
}

func (a *App) pollStageCmd() tea.Cmd {
	return tea.Tick(stagePollInterval, func(time.Time) tea.Msg {
		return messages.StageTicked{Stage: a.ports.Pipeline.Stage(a.sessionID)}
	})
}

func (a *App) loadHistoryCmd() tea.Cmd {
	return func() tea.Msg {
		conv, err := a.ports.Pipeline.History(a.ctx, a.sessionID)
		return messages.HistoryLoaded{Conversation: conv, Err: err}
	}
}

func (a *App) clearHistoryCmd() tea.Cmd {
	return func() tea.Msg {
		err := a.ports.Pipeline.ClearHistory(a.ctx, a.sessionID)
		return messages.HistoryCleared{Err: err}
	}
}

// entriesFromConversation converts stored history to transcript entries.
func entriesFromConversation(conv domain.Conversation) []entry {
	if len(conv.Messages) == 0 {
		return nil
	}
	entries := make([]entry, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		entries = append(entries, entry{role: msg.Role, content: msg.Content})
	}
	return entries
}
