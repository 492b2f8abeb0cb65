// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is an ordered thread of messages. Messages are only ever
// appended.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  []Message `json:"messages"`
}

// NewConversation creates a conversation holding the single seed message
// greeting, authored by the assistant at now.
func NewConversation(greeting string, now time.Time) *Conversation {
	return &Conversation{
		ID:        generateConversationID(),
		CreatedAt: now,
		Messages:  []Message{NewAssistantMessage(greeting, nil, now)},
	}
}

// Append adds msg to the end of the conversation.
func (c *Conversation) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
}

// FirstUserMessage returns the first message written by the user.
func (c *Conversation) FirstUserMessage() (Message, bool) {
	for _, msg := range c.Messages {
		if msg.IsUser() {
			return msg, true
		}
	}
	return Message{}, false
}

// MessageCount returns the number of messages, seed included.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// ExchangeCount returns the number of messages added after the seed.
func (c *Conversation) ExchangeCount() int {
	if len(c.Messages) == 0 {
		return 0
	}
	return len(c.Messages) - 1
}

// Clone returns a copy that shares no slices with c. Attachments are
// immutable values and are shared.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Messages = make([]Message, len(c.Messages))
	copy(clone.Messages, c.Messages)
	return &clone
}

// generateConversationID returns a time-ordered UUID (v7) so IDs sort by
// creation time.
func generateConversationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
