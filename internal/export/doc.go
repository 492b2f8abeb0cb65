// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes one conversation to a standalone file.
//
// # Formats
//
//   - HTML: a self-contained page with embedded CSS, messages and preview
//     blocks drawn by render.HTMLRenderer (all text escaped)
//   - Markdown: headings per message, previews as bullet lists
//   - JSON: the conversation in its persisted layout
//
// # Usage
//
//	path, err := export.ExportConversation(conv, "html", export.DefaultOptions())
//
// Files are named conversation_<preview>_<timestamp><ext> and written
// atomically into Options.OutputDir.
package export
