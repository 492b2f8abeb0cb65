// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns messages and conversations into display values.
//
// Building the view model is pure: Message maps a model.Message to a
// MessageView, Preview maps an attachment to a PreviewBlock, and History
// maps the stored conversations to sidebar rows. Two renderers draw those
// values:
//
//   - HTMLRenderer: HTML fragments for exported documents; every text value
//     is escaped, including attachment fields that come from the backend
//   - TerminalRenderer: Lip Gloss output for the TUI and the plain REPL
package render
