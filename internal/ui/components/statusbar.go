// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iasistem/assistant/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Shortcut is one key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar shows key hints on the left and a status text on the right.
type StatusBar struct {
	Width     int
	Shortcuts []Shortcut
	Status    string
	theme     *styles.Theme
}

// NewStatusBar creates a StatusBar.
func NewStatusBar(theme *styles.Theme, shortcuts ...Shortcut) *StatusBar {
	return &StatusBar{
		Width:     80,
		Shortcuts: shortcuts,
		theme:     theme,
	}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the bar. Trailing shortcuts are dropped until the line fits.
func (s *StatusBar) View() string {
	t := s.theme
	inner := s.Width - t.StatusBar.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}

	status := ""
	if s.Status != "" {
		status = t.ThinkingText.Render(s.Status)
	}

	hints := s.renderShortcuts(len(s.Shortcuts))
	for n := len(s.Shortcuts); n > 0 && lipgloss.Width(hints)+lipgloss.Width(status)+1 > inner; n-- {
		hints = s.renderShortcuts(n - 1)
	}

	gap := inner - lipgloss.Width(hints) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return t.StatusBar.Width(s.Width).Render(hints + strings.Repeat(" ", gap) + status)
}

// renderShortcuts renders the first n keyboard shortcut hints.
func (s *StatusBar) renderShortcuts(n int) string {
	t := s.theme
	parts := make([]string, 0, n)
	for _, sc := range s.Shortcuts[:n] {
		parts = append(parts, t.ShortcutKey.Render(sc.Key)+" "+t.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(parts, "  ")
}
