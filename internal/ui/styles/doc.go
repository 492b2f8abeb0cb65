// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the assistant TUI.
//
// All colors are Lip Gloss AdaptiveColor values so the same palette works on
// light and dark terminals. Theme groups the styles by screen region:
//
//   - Header: title bar with the logged-in user
//   - Sidebar: conversation history (preview, relative time, message count)
//   - Messages: user and assistant bubbles plus structured preview blocks
//   - Input: prompt line, loading indicator and status bar
//   - Confirm: the clear-history confirmation overlay
//
// Status helpers (RenderSuccess, RenderError, ...) pair every color with an
// ASCII indicator so meaning never depends on color alone.
package styles
