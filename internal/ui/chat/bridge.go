// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iasistem/assistant/internal/render"
)

// eventBuffer bounds how many view updates can be pending before a Session
// call blocks.
const eventBuffer = 256

// Bridge implements the session View by queueing view events for the Bubble
// Tea program. Session methods may run on any goroutine; the events are
// applied in order inside Update.
type Bridge struct {
	events chan tea.Msg
}

// NewBridge creates an empty Bridge.
func NewBridge() *Bridge {
	return &Bridge{events: make(chan tea.Msg, eventBuffer)}
}

// Wait returns a command that delivers the next queued event.
func (b *Bridge) Wait() tea.Cmd {
	return func() tea.Msg {
		return <-b.events
	}
}

func (b *Bridge) send(msg tea.Msg) { b.events <- msg }

func (b *Bridge) ShowMessages(msgs []render.MessageView) {
	b.send(showMessagesMsg{msgs: msgs})
}

func (b *Bridge) AppendMessage(msg render.MessageView) {
	b.send(appendMessageMsg{msg: msg})
}

func (b *Bridge) ShowLoading(text string) { b.send(loadingMsg{on: true, text: text}) }
func (b *Bridge) HideLoading()            { b.send(loadingMsg{}) }

func (b *Bridge) SetInputEnabled(enabled bool) {
	b.send(inputEnabledMsg{enabled: enabled})
}

func (b *Bridge) ShowHistory(items []render.HistoryItem) {
	b.send(showHistoryMsg{items: items})
}

func (b *Bridge) ScrollToBottom() { b.send(scrollBottomMsg{}) }
func (b *Bridge) FocusInput()     { b.send(focusInputMsg{}) }

// =============================================================================
// VIEW EVENTS
// =============================================================================

// viewEvent is a queued View call.
type viewEvent interface {
	apply(m *Model) tea.Cmd
}

type showMessagesMsg struct{ msgs []render.MessageView }

func (e showMessagesMsg) apply(m *Model) tea.Cmd {
	m.messages = append([]render.MessageView(nil), e.msgs...)
	m.refreshViewport()
	return nil
}

type appendMessageMsg struct{ msg render.MessageView }

func (e appendMessageMsg) apply(m *Model) tea.Cmd {
	m.messages = append(m.messages, e.msg)
	m.refreshViewport()
	return nil
}

type loadingMsg struct {
	on   bool
	text string
}

func (e loadingMsg) apply(m *Model) tea.Cmd {
	wasLoading := m.loading
	m.loading = e.on
	m.loadingText = e.text
	if e.on && !wasLoading {
		return m.spinner.Tick
	}
	return nil
}

type inputEnabledMsg struct{ enabled bool }

func (e inputEnabledMsg) apply(m *Model) tea.Cmd {
	m.inputEnabled = e.enabled
	if !e.enabled {
		m.input.Blur()
		return nil
	}
	if m.focus == focusInput {
		return m.input.Focus()
	}
	return nil
}

type showHistoryMsg struct{ items []render.HistoryItem }

func (e showHistoryMsg) apply(m *Model) tea.Cmd {
	m.history = e.items
	if m.cursor >= len(m.history) {
		m.cursor = len(m.history) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return nil
}

type scrollBottomMsg struct{}

func (scrollBottomMsg) apply(m *Model) tea.Cmd {
	m.viewport.GotoBottom()
	return nil
}

type focusInputMsg struct{}

func (focusInputMsg) apply(m *Model) tea.Cmd {
	m.focus = focusInput
	if m.inputEnabled {
		return m.input.Focus()
	}
	return nil
}
