// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iasistem/assistant/internal/locale"
	"github.com/iasistem/assistant/internal/model"
	"github.com/iasistem/assistant/internal/ui/styles"
)

var ts = time.Date(2026, time.October, 19, 14, 5, 0, 0, time.UTC)

// =============================================================================
// VIEW MODEL
// =============================================================================

func TestMessage_Authors(t *testing.T) {
	user := Message(locale.PTBR, model.NewUserMessage("oi", ts))
	assert.Equal(t, "Você", user.Author)
	assert.Nil(t, user.Preview)
	assert.Equal(t, locale.PTBR.Clock(ts.Local()), user.Time)

	ai := Message(locale.PTBR, model.NewAssistantMessage("olá", nil, ts))
	assert.Equal(t, "Assistente IA", ai.Author)
	assert.Nil(t, ai.Preview)
}

func TestPreview_ServiceOrder(t *testing.T) {
	p := Preview(locale.PTBR, model.ServiceOrder{
		Number: "OS005", CustomerName: "Maria", Status: model.StatusReady,
		DeviceType: "Celular", DeviceModel: "Moto G", BudgetValue: 150,
	})
	require.NotNil(t, p)
	assert.Equal(t, "Ordem de Serviço OS005", p.Title)
	assert.Equal(t, []Field{
		{"Cliente", "Maria"},
		{"Status", "Pronto"},
		{"Aparelho", "Celular Moto G"},
		{"Valor", "R$ 150.00"},
	}, p.Fields)
}

func TestPreview_UnknownStatusVerbatim(t *testing.T) {
	p := Preview(locale.PTBR, model.ServiceOrder{Status: "orcamento"})
	assert.Equal(t, "orcamento", p.Fields[1].Value)
}

func TestPreview_CustomerWithoutEmail(t *testing.T) {
	p := Preview(locale.PTBR, model.Customer{Name: "João", TaxID: "1", Phone: "2"})
	assert.Equal(t, "Cliente: João", p.Title)
	assert.Equal(t, Field{"Email", "Não informado"}, p.Fields[2])
}

func TestPreview_Financial(t *testing.T) {
	p := Preview(locale.PTBR, model.FinancialSummary{TotalRevenue: 1234.5, DeliveredOrders: 3, TotalOrders: 9, TotalCustomers: 4})
	assert.Equal(t, "Dados Financeiros", p.Title)
	assert.Equal(t, "R$ 1234.50", p.Fields[0].Value)
	assert.Equal(t, "9", p.Fields[2].Value)
}

func TestPreview_InventoryListsFirstFive(t *testing.T) {
	var items []model.LowStockItem
	for i := 1; i <= 7; i++ {
		items = append(items, model.LowStockItem{Name: fmt.Sprintf("P%d", i), Quantity: i, MinimumStock: 10})
	}
	p := Preview(locale.PTBR, model.InventorySummary{TotalProducts: 20, LowStock: items})

	assert.Equal(t, "5 produtos", p.Fields[1].Value)
	assert.Equal(t, "Produtos com estoque baixo:", p.ListTitle)
	require.Len(t, p.Items, 5)
	assert.Equal(t, "P1: 1/10 unidades", p.Items[0])
}

func TestPreview_InventoryWithoutLowStock(t *testing.T) {
	p := Preview(locale.PTBR, model.InventorySummary{TotalProducts: 3})
	assert.Equal(t, "0 produtos", p.Fields[1].Value)
	assert.Empty(t, p.ListTitle)
	assert.Empty(t, p.Items)
}

type fakeSource struct{}

func (fakeSource) Preview(c *model.Conversation) string      { return "preview-" + c.ID }
func (fakeSource) RelativeTime(c *model.Conversation) string { return "Ontem" }

func TestHistory(t *testing.T) {
	a := &model.Conversation{ID: "a", Messages: make([]model.Message, 3)}
	b := &model.Conversation{ID: "b", Messages: make([]model.Message, 1)}

	items := History(fakeSource{}, []*model.Conversation{a, b}, "b")

	assert.Equal(t, []HistoryItem{
		{ID: "a", Preview: "preview-a", Time: "Ontem", Count: 2},
		{ID: "b", Preview: "preview-b", Time: "Ontem", Count: 0, Active: true},
	}, items)
}

// =============================================================================
// HTML RENDERER
// =============================================================================

func TestHTML_EscapesMessageText(t *testing.T) {
	r := NewHTMLRenderer(locale.PTBR)
	out := r.Message(Message(locale.PTBR, model.NewUserMessage(`<script>alert("x")</script>`, ts)))

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "user-message")
}

func TestHTML_EscapesAttachmentFields(t *testing.T) {
	r := NewHTMLRenderer(locale.PTBR)
	msg := model.NewAssistantMessage("ok", model.Customer{Name: `<img src=x onerror=alert(1)>`, TaxID: "1", Phone: "2"}, ts)
	out := r.Message(Message(locale.PTBR, msg))

	assert.NotContains(t, out, "<img")
	assert.Contains(t, out, "&lt;img")
	assert.Contains(t, out, "customer-preview")
}

func TestHTML_History(t *testing.T) {
	r := NewHTMLRenderer(locale.PTBR)
	assert.Contains(t, r.History(nil), "Nenhuma conversa ainda")

	out := r.History([]HistoryItem{{ID: "a", Preview: "a<b", Time: "14:05", Count: 2, Active: true}})
	assert.Contains(t, out, `class="history-item active"`)
	assert.Contains(t, out, "a&lt;b")
	assert.Contains(t, out, `<span class="message-count">2</span>`)
}

// =============================================================================
// TERMINAL RENDERER
// =============================================================================

func newTerminalRenderer() *TerminalRenderer {
	return NewTerminalRenderer(styles.NewThemeWithProfile(termenv.Ascii, true))
}

func TestTerminal_MessageWithPreview(t *testing.T) {
	r := newTerminalRenderer()
	msg := model.NewAssistantMessage("Encontrei a OS005.", model.ServiceOrder{Number: "OS005", Status: model.StatusReady}, ts)

	out := r.Message(Message(locale.PTBR, msg), 60)

	assert.Contains(t, out, "Assistente IA")
	assert.Contains(t, out, "Encontrei a OS005.")
	assert.Contains(t, out, "Ordem de Serviço OS005")
	assert.Contains(t, out, "Pronto")
}

func TestTerminal_HistoryItemFitsWidth(t *testing.T) {
	r := newTerminalRenderer()
	item := HistoryItem{ID: "a", Preview: strings.Repeat("conversa longa ", 10), Time: "Ontem", Count: 4, Active: true}

	out := r.HistoryItem(item, 24, false)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Ontem · 4")
	assert.Contains(t, lines[0], "…")
}

func TestTerminal_HistoryEmpty(t *testing.T) {
	r := newTerminalRenderer()
	out := r.History(nil, locale.PTBR.HistoryEmpty, locale.PTBR.HistoryEmptyHint, 40, 0)
	assert.Contains(t, out, "Nenhuma conversa ainda")
}

// =============================================================================
// PLAIN TEXT
// =============================================================================

func TestPlainMessage_KeepsTextVerbatim(t *testing.T) {
	text := strings.Repeat("texto longo sem quebra ", 10) + "\nsegunda linha"
	msg := model.NewAssistantMessage(text, model.ServiceOrder{Number: "OS005", Status: model.StatusReady}, ts)

	out := PlainMessage(Message(locale.PTBR, msg))

	assert.True(t, strings.HasPrefix(out, "Assistente IA · "))
	assert.Contains(t, out, text)
	assert.Contains(t, out, "Ordem de Serviço OS005")
	assert.Contains(t, out, "  Status: Pronto")
	assert.NotContains(t, out, "\x1b[")
	assert.NotContains(t, out, "│")
}
