// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage keeps the assistant's conversation history.
//
// History is a bounded, most-recent-first list of conversations stored as a
// single JSON document in a key/value Backend. The whole list is rewritten on
// every change; there is no partial update and no cross-process locking.
//
// # Key Types
//
//   - Backend: key/value persistence (FileBackend, SQLiteBackend, MemoryBackend)
//   - ConversationStore: the bounded history with one active conversation
//
// # Usage
//
//	backend, err := storage.OpenBackend(storage.BackendFile, dataDir)
//	store := storage.NewConversationStore(backend, storage.WithLogger(log))
//	conv := store.CreateConversation()
//	store.AppendMessage(model.NewUserMessage("status da OS005", time.Now()))
//
// # Storage Keys
//
//   - ai_conversations: JSON array of conversations
//   - ai_active_conversation: id of the active conversation
//
// FileBackend writes one <key>.json file per key under ~/.iasistem/.
package storage
