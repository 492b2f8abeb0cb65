// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/iasistem/assistant/internal/ui/styles"
	"github.com/iasistem/assistant/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the one-line title bar.
type Header struct {
	Title    string
	Subtitle string // e.g. the signed-in user or backend address
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a Header with the given title.
func NewHeader(theme *styles.Theme, title string) *Header {
	return &Header{
		Title: title,
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header. The subtitle is dropped first when space is short.
func (h *Header) View() string {
	t := h.theme
	width := h.Width
	if width < 20 {
		width = 20
	}
	inner := width - t.Header.GetHorizontalFrameSize()

	brand := t.HeaderTitle.Render(util.TruncateWidth(h.Title, inner))
	line := brand
	if h.Subtitle != "" {
		room := inner - lipgloss.Width(brand) - 2
		if room >= 8 {
			line = brand + "  " + t.HeaderSubtitle.Render(util.TruncateWidth(h.Subtitle, room))
		}
	}
	return t.Header.Width(width).Render(line)
}
