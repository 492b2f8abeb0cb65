// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for assistant conversations.
//
// # Key Types
//
//   - Conversation: ordered, append-only thread of messages with a stable ID
//   - Message: one user or assistant message with an optional Attachment
//   - Attachment: sealed sum type of the structured results the backend can
//     attach to an answer (ServiceOrder, Customer, FinancialSummary,
//     InventorySummary)
//
// # Persisted Layout
//
// Conversations serialize to the layout shared with the web front end:
//
//	{"id": "...", "createdAt": "2026-10-19T14:05:00Z",
//	 "messages": [{"role": "assistant", "text": "...", "timestamp": "...",
//	               "attachedData": {"kind": "serviceOrder", "payload": {...}}}]}
//
// Attachment payloads keep the backend's own field names so a stored answer
// can be compared with the API response it came from.
package model
