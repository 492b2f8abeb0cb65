// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// RENDERING
// =============================================================================

// renderChat lays out header, body, input and status bar.
func (m Model) renderChat() string {
	if m.width == 0 || m.height == 0 {
		return m.locale.Loading
	}
	if m.confirm.Visible() {
		return m.confirm.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.renderBody(),
		m.renderInput(),
		m.renderStatusBar(),
	)
}

// renderBody draws the sidebar next to the messages. Without room for a
// sidebar the history replaces the messages while it has focus.
func (m Model) renderBody() string {
	height := m.bodyHeight()
	messages := lipgloss.NewStyle().
		Width(m.viewport.Width).
		Height(height).
		Render(m.viewport.View())

	sidebarWidth := m.theme.SidebarWidth()
	if sidebarWidth == 0 {
		if m.focus == focusHistory {
			return m.renderSidebar(m.width, height)
		}
		return messages
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(sidebarWidth, height), messages)
}

// renderSidebar draws the history list, scrolled so the cursor stays visible.
// Each row takes two lines.
func (m Model) renderSidebar(width, height int) string {
	style := m.theme.Sidebar
	if m.focus == focusHistory {
		style = m.theme.SidebarFocused
	}
	inner := width - style.GetHorizontalFrameSize()
	rows := (height - style.GetVerticalFrameSize() - 2) / 2
	if rows < 1 {
		rows = 1
	}

	items := m.history
	cursor := -1
	if m.focus == focusHistory {
		cursor = m.cursor
	}
	start := 0
	if cursor >= rows {
		start = cursor - rows + 1
	}
	end := start + rows
	if end > len(items) {
		end = len(items)
	}
	if start < end {
		items = items[start:end]
	}
	if cursor >= 0 {
		cursor -= start
	}

	title := m.theme.HeaderTitle.Render(m.locale.HistoryTitle)
	list := m.renderer.History(items, m.locale.HistoryEmpty, m.locale.HistoryEmptyHint, inner, cursor)

	return style.
		Width(width - style.GetHorizontalBorderSize()).
		Height(height - style.GetVerticalBorderSize()).
		Render(title + "\n\n" + list)
}

func (m Model) renderInput() string {
	line := m.theme.InputPrompt.Render("> ") + m.input.View()
	if m.loading {
		line = m.spinner.View() + " " + m.theme.ThinkingText.Render(m.loadingText)
	}
	return m.theme.InputContainer.Width(m.width).Render(line)
}

func (m Model) renderStatusBar() string {
	store := m.session.Store()
	m.statusBar.Status = fmt.Sprintf("%d/%d", store.Len(), store.MaxConversations())
	return m.statusBar.View()
}
