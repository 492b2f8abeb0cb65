// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the full-screen chat interface built on Bubble Tea.

The interface is a View for a chat.Session from the internal/chat package.
Session calls may happen on any goroutine, so the Bridge queues them as
messages and the Model applies them inside Update, in order.

# Layout

  - Header with the assistant name
  - History sidebar (hidden on narrow terminals until Tab is pressed)
  - Scrollable messages with preview blocks
  - Input line, replaced by a spinner while a query is pending
  - Status bar with shortcuts and the number of stored conversations

# Keys

  - Enter: send the question, or open the selected conversation
  - Ctrl+N: new conversation
  - Tab: switch between input and history; ↑/↓ move in the history
  - Ctrl+X: clear all history (asks y/n)
  - Ctrl+C: quit

# Usage

	bridge := chat.NewBridge()
	session := chatsession.NewSession(store, client, bridge)
	m := chat.New(chat.Options{Session: session, Bridge: bridge})
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
*/
package chat
