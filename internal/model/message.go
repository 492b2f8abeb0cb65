// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry of a conversation.
type Message struct {
	Role      Role
	Text      string
	Timestamp time.Time

	// Attachment is set only on assistant messages that carried a structured
	// result. Nil otherwise.
	Attachment Attachment
}

// NewUserMessage creates a user message stamped with now.
func NewUserMessage(text string, now time.Time) Message {
	return Message{Role: RoleUser, Text: text, Timestamp: now}
}

// NewAssistantMessage creates an assistant message stamped with now.
func NewAssistantMessage(text string, attachment Attachment, now time.Time) Message {
	return Message{Role: RoleAssistant, Text: text, Timestamp: now, Attachment: attachment}
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

type messageJSON struct {
	Role       Role            `json:"role"`
	Text       string          `json:"text"`
	Timestamp  time.Time       `json:"timestamp"`
	Attachment json.RawMessage `json:"attachedData,omitempty"`
}

// MarshalJSON writes the message in the persisted layout.
func (m Message) MarshalJSON() ([]byte, error) {
	out := messageJSON{Role: m.Role, Text: m.Text, Timestamp: m.Timestamp}
	if m.Attachment != nil {
		data, err := MarshalAttachment(m.Attachment)
		if err != nil {
			return nil, err
		}
		out.Attachment = data
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the persisted layout. Attachments of an unknown kind are
// dropped rather than failing the whole message.
func (m *Message) UnmarshalJSON(data []byte) error {
	var in messageJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if !in.Role.Valid() {
		return fmt.Errorf("invalid message role %q", in.Role)
	}

	*m = Message{Role: in.Role, Text: in.Text, Timestamp: in.Timestamp}
	if len(in.Attachment) > 0 && string(in.Attachment) != "null" {
		attachment, err := UnmarshalAttachment(in.Attachment)
		if err != nil {
			return err
		}
		m.Attachment = attachment
	}
	return nil
}
