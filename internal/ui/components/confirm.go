// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/iasistem/assistant/internal/ui/styles"
)

// =============================================================================
// CONFIRMATION DIALOG
// =============================================================================

// ConfirmDialog is a centered yes/no question drawn over the screen.
type ConfirmDialog struct {
	Prompt string
	Hint   string

	visible bool
	width   int
	height  int
	theme   *styles.Theme
}

// NewConfirmDialog creates a hidden dialog.
func NewConfirmDialog(theme *styles.Theme, prompt, hint string) *ConfirmDialog {
	return &ConfirmDialog{
		Prompt: prompt,
		Hint:   hint,
		theme:  theme,
	}
}

// Show makes the dialog visible.
func (d *ConfirmDialog) Show() { d.visible = true }

// Hide hides the dialog.
func (d *ConfirmDialog) Hide() { d.visible = false }

// Visible reports whether the dialog is shown.
func (d *ConfirmDialog) Visible() bool { return d.visible }

// SetSize sets the area the dialog is centered in.
func (d *ConfirmDialog) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the dialog centered in its area, or "" when hidden.
func (d *ConfirmDialog) View() string {
	if !d.visible {
		return ""
	}
	t := d.theme

	boxWidth := d.width * 2 / 3
	if boxWidth > 64 {
		boxWidth = 64
	}
	if boxWidth < 24 {
		boxWidth = 24
	}
	inner := boxWidth - t.ConfirmBox.GetHorizontalFrameSize()

	body := lipgloss.JoinVertical(lipgloss.Left,
		t.ConfirmTitle.Width(inner).Render(d.Prompt),
		"",
		t.ConfirmHint.Render(d.Hint),
	)
	box := t.ConfirmBox.Width(boxWidth).Render(body)

	if d.width <= 0 || d.height <= 0 {
		return box
	}
	return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, box)
}
