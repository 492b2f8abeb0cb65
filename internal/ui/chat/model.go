// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	chatsession "github.com/iasistem/assistant/internal/chat"
	"github.com/iasistem/assistant/internal/locale"
	"github.com/iasistem/assistant/internal/render"
	"github.com/iasistem/assistant/internal/ui/components"
	"github.com/iasistem/assistant/internal/ui/styles"
)

// maxQueryRunes caps what the input line accepts.
const maxQueryRunes = 2000

// focusArea is the pane receiving keys.
type focusArea int

const (
	focusInput focusArea = iota
	focusHistory
)

// submitDoneMsg reports that a Submit call returned.
type submitDoneMsg struct {
	sent bool
}

// Options configures New.
type Options struct {
	Session *chatsession.Session
	Bridge  *Bridge
	Theme   *styles.Theme
	Locale  *locale.Locale

	// Subtitle is shown next to the title, e.g. the signed-in user.
	Subtitle string

	Logger zerolog.Logger
}

// Model is the Bubble Tea model of the full-screen chat. It draws what the
// session sends through the Bridge and turns keys into session calls.
type Model struct {
	session  *chatsession.Session
	bridge   *Bridge
	theme    *styles.Theme
	renderer *render.TerminalRenderer
	locale   *locale.Locale
	keys     KeyMap
	log      zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// Components
	header    *components.Header
	statusBar *components.StatusBar
	confirm   *components.ConfirmDialog
	viewport  viewport.Model
	input     textinput.Model
	spinner   spinner.Model

	// State mirrored from the session
	messages     []render.MessageView
	history      []render.HistoryItem
	loading      bool
	loadingText  string
	inputEnabled bool

	focus  focusArea
	cursor int

	width  int
	height int
}

// New creates the chat model. The session must have been created with
// opts.Bridge as its View.
func New(opts Options) Model {
	l := opts.Locale
	if l == nil {
		l = opts.Session.Store().Locale()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}

	input := textinput.New()
	input.Placeholder = l.InputPlaceholder
	input.Prompt = ""
	input.CharLimit = maxQueryRunes
	input.Focus()

	sp := spinner.New(
		spinner.WithSpinner(styles.LoadingSpinner),
		spinner.WithStyle(theme.Spinner),
	)

	keys := DefaultKeyMap(l)
	header := components.NewHeader(theme, l.AssistantName)
	header.Subtitle = opts.Subtitle

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		session:      opts.Session,
		bridge:       opts.Bridge,
		theme:        theme,
		renderer:     render.NewTerminalRenderer(theme),
		locale:       l,
		keys:         keys,
		log:          opts.Logger.With().Str("component", "tui").Logger(),
		ctx:          ctx,
		cancel:       cancel,
		header:       header,
		statusBar:    components.NewStatusBar(theme, keys.Shortcuts()...),
		confirm:      components.NewConfirmDialog(theme, l.ConfirmClear, l.ConfirmHint),
		viewport:     viewport.New(0, 0),
		input:        input,
		spinner:      sp,
		inputEnabled: true,
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts listening for view events and shows the active conversation.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.bridge.Wait(),
		run(m.session.Initialize),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case viewEvent:
		cmd := msg.apply(&m)
		return m, tea.Batch(cmd, m.bridge.Wait())

	case submitDoneMsg:
		if !msg.sent {
			m.log.Debug().Msg("submission ignored")
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	default:
		var cmds []tea.Cmd
		if m.focus == focusInput && m.inputEnabled {
			var inputCmd tea.Cmd
			m.input, inputCmd = m.input.Update(msg)
			cmds = append(cmds, inputCmd)
		}
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, vpCmd)
		return m, tea.Batch(cmds...)
	}
}

// View renders the chat view.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

// Fixed rows around the message area: header, input (top border + line),
// status bar.
const (
	headerHeight    = 1
	inputAreaHeight = 2
	statusBarHeight = 1
)

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(m.width, m.height)

	bodyHeight := m.bodyHeight()
	m.viewport.Width = m.width - m.theme.SidebarWidth()
	if m.viewport.Width < 1 {
		m.viewport.Width = 1
	}
	m.viewport.Height = bodyHeight

	// InputContainer padding plus the "> " prompt
	inputWidth := m.width - m.theme.InputContainer.GetHorizontalFrameSize() - 2
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	m.header.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
	m.confirm.SetSize(m.width, m.height)

	m.refreshViewport()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.cancel()
		return m, tea.Quit
	}

	if m.confirm.Visible() {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.confirm.Hide()
			m.focus = focusInput
			return m, run(func() {
				m.session.ClearAllHistoryWith(chatsession.ConfirmFunc(func(string) bool { return true }))
			})
		case key.Matches(msg, m.keys.Decline):
			m.confirm.Hide()
		}
		return m, nil
	}

	busy := m.session.State() == chatsession.StateSending

	switch {
	case key.Matches(msg, m.keys.NewConversation):
		if busy {
			return m, nil
		}
		m.focus = focusInput
		return m, run(m.session.StartNewConversation)

	case key.Matches(msg, m.keys.Clear):
		if busy {
			return m, nil
		}
		m.confirm.Show()
		return m, nil

	case key.Matches(msg, m.keys.ToggleFocus):
		return m.toggleFocus()
	}

	if m.focus == focusHistory {
		return m.handleHistoryKey(msg, busy)
	}
	return m.handleInputKey(msg)
}

func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusHistory {
		m.focus = focusInput
		if m.inputEnabled {
			return m, m.input.Focus()
		}
		return m, nil
	}

	m.focus = focusHistory
	m.input.Blur()
	m.cursor = 0
	for i, item := range m.history {
		if item.Active {
			m.cursor = i
			break
		}
	}
	return m, nil
}

func (m Model) handleHistoryKey(msg tea.KeyMsg, busy bool) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.history)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if busy || len(m.history) == 0 {
			return m, nil
		}
		id := m.history[m.cursor].ID
		session, bridge := m.session, m.bridge
		return m, run(func() {
			session.LoadConversation(id)
			bridge.FocusInput()
		})
	case key.Matches(msg, m.keys.Back):
		m.focus = focusInput
		if m.inputEnabled {
			return m, m.input.Focus()
		}
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if !m.inputEnabled {
			return m, nil
		}
		text := m.input.Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		m.input.Reset()
		return m, m.submit(text)

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	if !m.inputEnabled {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs the query off the update loop; its view changes arrive as
// events.
func (m Model) submit(text string) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		return submitDoneMsg{sent: session.Submit(ctx, text)}
	}
}

// run wraps a session call as a command that yields no message.
func run(f func()) tea.Cmd {
	return func() tea.Msg {
		f()
		return nil
	}
}

// =============================================================================
// LAYOUT HELPERS
// =============================================================================

func (m *Model) bodyHeight() int {
	h := m.height - headerHeight - inputAreaHeight - statusBarHeight
	if h < 3 {
		h = 3
	}
	return h
}

// refreshViewport re-renders every message, keeping the view pinned to the
// bottom when it already was.
func (m *Model) refreshViewport() {
	if m.viewport.Width <= 0 {
		return
	}
	follow := m.viewport.AtBottom() || m.viewport.TotalLineCount() == 0

	width := m.viewport.Width - 1
	parts := make([]string, len(m.messages))
	for i, v := range m.messages {
		parts[i] = m.renderer.Message(v, width)
	}
	m.viewport.SetContent(strings.Join(parts, "\n\n"))

	if follow {
		m.viewport.GotoBottom()
	}
}
