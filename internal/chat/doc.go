// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat drives one chat screen: it sends questions to the assistant,
// shows the exchange through a View and records it in the conversation
// store.
//
// # State Machine
//
//	Idle --Submit--> Sending --reply or error--> Idle
//
// Only one query is in flight at a time. A Submit that arrives while another
// is pending is dropped, not queued. Failed queries show a fixed apology that
// is never written to history, and are not retried.
//
// # Collaborators
//
//   - View: the screen (Bubble Tea TUI or the line REPL)
//   - Querier: the AI endpoint (assistant.Client)
//   - Confirmer: asks before clearing history
package chat
