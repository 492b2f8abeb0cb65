// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable pieces of the full-screen
// interface: the title bar, the shortcut status bar and the confirmation
// dialog. Components are plain structs with a View method; the chat model
// owns their state.
package components
