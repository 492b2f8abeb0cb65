// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the assistant command line.
//
// Running the binary with no command opens the full-screen chat. When stdout
// is not a terminal, or --plain is given, the line-based chat runs instead.
//
// # Commands
//
//   - chat: line-based chat with /new, /history, /load <n>, /clear, /quit
//   - ask <question>: one question, answer printed, nothing stored
//   - history list|show|search|clear: inspect stored conversations
//   - export <id|index>: write a conversation as HTML, Markdown or JSON
//   - login, logout, whoami: backend session
//   - config show|init|get|set|path: configuration file
//   - version: build information
//
// # Global Flags
//
//	-v, --verbose       log to stderr at debug level
//	    --config PATH   configuration file (default ~/.iasistem/config.toml)
//	    --plain         never open the full-screen interface
//	    --api-url URL   backend root URL
//	    --storage KIND  file, sqlite or memory
//	    --locale TAG    pt-BR or en
//
// Conversations given by reference accept either the conversation id or its
// 1-based position in `history list`.
package cli
