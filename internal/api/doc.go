// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the JSON client for the IA Sistem backend.
//
// Every request carries "Content-Type: application/json" and, when a
// TokenSource is configured, "Authorization: Bearer <token>". Non-2xx
// responses become *Error values whose Message is the text a user should
// see:
//
//   - JSON bodies: the "mensagem" field, else "erro", else the raw body
//   - HTML bodies: the server's error paragraph or heading, else a fixed
//     "the server returned HTML" message
//   - anything else: the raw body, else "Erro na API (<status>)"
//
// Requests are never retried.
package api
