// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iasistem/assistant/internal/locale"
	"github.com/iasistem/assistant/internal/model"
)

// MaxLowStockItems is how many low stock products a preview lists.
const MaxLowStockItems = 5

// Field is one labelled value of a preview block.
type Field struct {
	Label string
	Value string
}

// PreviewBlock is the display form of an attachment.
type PreviewBlock struct {
	Kind      model.AttachmentKind
	Icon      string
	Title     string
	Fields    []Field
	ListTitle string
	Items     []string
}

// MessageView is the display form of a message.
type MessageView struct {
	Role    model.Role
	Author  string
	Text    string
	Time    string
	Preview *PreviewBlock
}

// HistoryItem is one row of the history sidebar.
type HistoryItem struct {
	ID      string
	Preview string
	Time    string

	// Count is the number of messages after the greeting.
	Count  int
	Active bool
}

// HistorySource labels conversations; *storage.ConversationStore implements
// it.
type HistorySource interface {
	Preview(c *model.Conversation) string
	RelativeTime(c *model.Conversation) string
}

// Message builds the view of msg.
func Message(l *locale.Locale, msg model.Message) MessageView {
	v := MessageView{
		Role: msg.Role,
		Text: msg.Text,
		Time: l.Clock(msg.Timestamp.Local()),
	}
	if msg.IsUser() {
		v.Author = l.UserName
	} else {
		v.Author = l.AssistantName
		v.Preview = Preview(l, msg.Attachment)
	}
	return v
}

// Messages builds the views of every message of c in order.
func Messages(l *locale.Locale, c *model.Conversation) []MessageView {
	if c == nil {
		return nil
	}
	views := make([]MessageView, len(c.Messages))
	for i, msg := range c.Messages {
		views[i] = Message(l, msg)
	}
	return views
}

// Preview builds the preview block of a, or nil when a is nil.
func Preview(l *locale.Locale, a model.Attachment) *PreviewBlock {
	switch v := a.(type) {
	case nil:
		return nil

	case model.ServiceOrder:
		return &PreviewBlock{
			Kind:  v.Kind(),
			Icon:  "📋",
			Title: l.OrderTitle + " " + v.Number,
			Fields: []Field{
				{l.LabelCustomer, v.CustomerName},
				{l.LabelStatus, l.StatusLabel(string(v.Status))},
				{l.LabelDevice, strings.TrimSpace(v.DeviceType + " " + v.DeviceModel)},
				{l.LabelValue, l.Currency(v.BudgetValue)},
			},
		}

	case model.Customer:
		email := v.Email
		if email == "" {
			email = l.NotInformed
		}
		return &PreviewBlock{
			Kind:  v.Kind(),
			Icon:  "👤",
			Title: l.CustomerTitle + " " + v.Name,
			Fields: []Field{
				{l.LabelTaxID, v.TaxID},
				{l.LabelPhone, v.Phone},
				{l.LabelEmail, email},
			},
		}

	case model.FinancialSummary:
		return &PreviewBlock{
			Kind:  v.Kind(),
			Icon:  "💰",
			Title: l.FinanceTitle,
			Fields: []Field{
				{l.LabelRevenue, l.Currency(v.TotalRevenue)},
				{l.LabelDelivered, strconv.Itoa(v.DeliveredOrders)},
				{l.LabelTotalOrders, strconv.Itoa(v.TotalOrders)},
				{l.LabelCustomers, strconv.Itoa(v.TotalCustomers)},
			},
		}

	case model.InventorySummary:
		shown := v.LowStock
		if len(shown) > MaxLowStockItems {
			shown = shown[:MaxLowStockItems]
		}
		block := &PreviewBlock{
			Kind:  v.Kind(),
			Icon:  "📦",
			Title: l.InventoryTitle,
			Fields: []Field{
				{l.LabelProducts, strconv.Itoa(v.TotalProducts)},
				{l.LabelLowStock, fmt.Sprintf("%d %s", len(shown), l.ProductsUnit)},
			},
		}
		if len(shown) > 0 {
			block.ListTitle = l.LowStockListTitle
			for _, item := range shown {
				block.Items = append(block.Items,
					fmt.Sprintf("%s: %d/%d %s", item.Name, item.Quantity, item.MinimumStock, l.UnitsUnit))
			}
		}
		return block

	default:
		return nil
	}
}

// History builds the sidebar rows for convs, marking activeID.
func History(src HistorySource, convs []*model.Conversation, activeID string) []HistoryItem {
	items := make([]HistoryItem, 0, len(convs))
	for _, c := range convs {
		items = append(items, HistoryItem{
			ID:      c.ID,
			Preview: src.Preview(c),
			Time:    src.RelativeTime(c),
			Count:   c.ExchangeCount(),
			Active:  c.ID == activeID,
		})
	}
	return items
}
