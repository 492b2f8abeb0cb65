// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.October, 19, 14, 5, 0, 0, time.UTC)

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestNewConversation_SeedMessage(t *testing.T) {
	conv := NewConversation("Olá!", testNow)

	require.Len(t, conv.Messages, 1)
	seed := conv.Messages[0]
	assert.Equal(t, RoleAssistant, seed.Role)
	assert.Equal(t, "Olá!", seed.Text)
	assert.Nil(t, seed.Attachment)
	assert.Equal(t, testNow, conv.CreatedAt)
	assert.NotEmpty(t, conv.ID)
}

func TestNewConversation_IDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewConversation("hi", testNow).ID
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestConversation_FirstUserMessage(t *testing.T) {
	conv := NewConversation("hi", testNow)
	_, ok := conv.FirstUserMessage()
	assert.False(t, ok)

	conv.Append(NewUserMessage("first", testNow))
	conv.Append(NewUserMessage("second", testNow))
	msg, ok := conv.FirstUserMessage()
	require.True(t, ok)
	assert.Equal(t, "first", msg.Text)
	assert.Equal(t, 2, conv.ExchangeCount())
}

func TestConversation_CloneIsIndependent(t *testing.T) {
	conv := NewConversation("hi", testNow)
	clone := conv.Clone()
	clone.Append(NewUserMessage("only in clone", testNow))

	assert.Equal(t, 1, conv.MessageCount())
	assert.Equal(t, 2, clone.MessageCount())
	assert.Nil(t, (*Conversation)(nil).Clone())
}

// =============================================================================
// SERIALIZATION TESTS
// =============================================================================

func TestMessage_JSONLayout(t *testing.T) {
	msg := NewAssistantMessage("achei", ServiceOrder{Number: "OS005", Status: StatusReady, BudgetValue: 150}, testNow)

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "assistant", raw["role"])
	assert.Equal(t, "achei", raw["text"])
	assert.Equal(t, "2026-10-19T14:05:00Z", raw["timestamp"])

	attached, ok := raw["attachedData"].(map[string]any)
	require.True(t, ok, "attachedData missing: %s", data)
	assert.Equal(t, "serviceOrder", attached["kind"])
	payload := attached["payload"].(map[string]any)
	assert.Equal(t, "OS005", payload["numeroOS"])
	assert.Equal(t, "pronto", payload["status"])
}

func TestMessage_OmitsAbsentAttachment(t *testing.T) {
	data, err := json.Marshal(NewUserMessage("oi", testNow))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "attachedData")
}

func TestConversation_RoundTripAllVariants(t *testing.T) {
	conv := NewConversation("hi", testNow)
	conv.Append(NewUserMessage("q", testNow))
	conv.Append(NewAssistantMessage("os", ServiceOrder{Number: "OS001", CustomerName: "Ana", Status: StatusWaiting, DeviceType: "Celular", DeviceModel: "X1", BudgetValue: 99.9}, testNow))
	conv.Append(NewAssistantMessage("cli", Customer{Name: "Ana", TaxID: "123", Phone: "555"}, testNow))
	conv.Append(NewAssistantMessage("fin", FinancialSummary{TotalRevenue: 10.5, DeliveredOrders: 1, TotalOrders: 2, TotalCustomers: 3}, testNow))
	conv.Append(NewAssistantMessage("inv", InventorySummary{TotalProducts: 4, LowStock: []LowStockItem{{Name: "Tela", Quantity: 1, MinimumStock: 3}}}, testNow))

	data, err := json.Marshal(conv)
	require.NoError(t, err)

	var decoded Conversation
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, conv.ID, decoded.ID)
	assert.True(t, conv.CreatedAt.Equal(decoded.CreatedAt))
	require.Len(t, decoded.Messages, len(conv.Messages))
	for i := range conv.Messages {
		assert.Equal(t, conv.Messages[i].Attachment, decoded.Messages[i].Attachment, "message %d", i)
		assert.Equal(t, conv.Messages[i].Text, decoded.Messages[i].Text)
	}
}

func TestUnmarshalAttachment_UnknownKind(t *testing.T) {
	a, err := UnmarshalAttachment([]byte(`{"kind":"weather","payload":{"temp":30}}`))
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestMessage_UnmarshalRejectsUnknownRole(t *testing.T) {
	var msg Message
	err := json.Unmarshal([]byte(`{"role":"system","text":"x","timestamp":"2026-10-19T14:05:00Z"}`), &msg)
	assert.Error(t, err)
}

func TestAttachmentKinds(t *testing.T) {
	kinds := map[AttachmentKind]Attachment{
		KindServiceOrder:     ServiceOrder{},
		KindCustomer:         Customer{},
		KindFinancialSummary: FinancialSummary{},
		KindInventorySummary: InventorySummary{},
	}
	for kind, a := range kinds {
		assert.Equal(t, kind, a.Kind())
	}
}
