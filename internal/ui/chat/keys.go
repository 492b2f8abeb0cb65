// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/iasistem/assistant/internal/locale"
	"github.com/iasistem/assistant/internal/ui/components"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
type KeyMap struct {
	Submit          key.Binding
	NewConversation key.Binding
	ToggleFocus     key.Binding
	Up              key.Binding
	Down            key.Binding
	Select          key.Binding
	Back            key.Binding
	PageUp          key.Binding
	PageDown        key.Binding
	Clear           key.Binding
	Confirm         key.Binding
	Decline         key.Binding
	Quit            key.Binding
}

// DefaultKeyMap returns the default key bindings with help text from l.
func DefaultKeyMap(l *locale.Locale) KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", l.ShortcutSend),
		),
		NewConversation: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("^N", l.ShortcutNew),
		),
		ToggleFocus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("Tab", l.ShortcutHistory),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("^X", l.ShortcutClear),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y", "s", "S"),
		),
		Decline: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("^C", l.ShortcutQuit),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar, in display order.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NewConversation, k.ToggleFocus, k.Clear, k.Quit}
}

// Shortcuts converts ShortHelp into status bar hints.
func (k KeyMap) Shortcuts() []components.Shortcut {
	bindings := k.ShortHelp()
	out := make([]components.Shortcut, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, components.Shortcut{Key: h.Key, Desc: h.Desc})
	}
	return out
}
