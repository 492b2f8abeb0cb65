// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"html"
	"strings"

	"github.com/iasistem/assistant/internal/locale"
	"github.com/iasistem/assistant/internal/model"
)

// HTMLRenderer writes HTML fragments. Every text value is escaped.
type HTMLRenderer struct {
	Locale *locale.Locale
}

// NewHTMLRenderer creates a renderer for l.
func NewHTMLRenderer(l *locale.Locale) *HTMLRenderer {
	return &HTMLRenderer{Locale: l}
}

var esc = html.EscapeString

// Message renders one message.
func (r *HTMLRenderer) Message(v MessageView) string {
	var b strings.Builder

	class := "ai-message"
	if v.Role == model.RoleUser {
		class = "user-message"
	}
	b.WriteString(`<div class="message ` + class + `">`)
	b.WriteString(`<div class="message-content">`)
	b.WriteString(`<div class="message-header">`)
	b.WriteString(`<span class="message-author">` + esc(v.Author) + `</span>`)
	b.WriteString(`<span class="message-time">` + esc(v.Time) + `</span>`)
	b.WriteString(`</div>`)
	b.WriteString(`<div class="message-text">` + textToHTML(v.Text))
	if v.Preview != nil {
		b.WriteString(r.Preview(v.Preview))
	}
	b.WriteString(`</div></div></div>`)
	return b.String()
}

// Preview renders a preview block.
func (r *HTMLRenderer) Preview(p *PreviewBlock) string {
	var b strings.Builder

	b.WriteString(`<div class="data-preview ` + esc(string(p.Kind)) + `-preview">`)
	b.WriteString(`<h4>` + esc(p.Icon+" "+p.Title) + `</h4>`)
	b.WriteString(`<div class="preview-details">`)
	for _, f := range p.Fields {
		b.WriteString(`<span><strong>` + esc(f.Label) + `:</strong> ` + esc(f.Value) + `</span>`)
	}
	b.WriteString(`</div>`)
	if len(p.Items) > 0 {
		b.WriteString(`<div class="produtos-lista"><small><strong>` + esc(p.ListTitle) + `</strong></small><ul>`)
		for _, item := range p.Items {
			b.WriteString(`<li>` + esc(item) + `</li>`)
		}
		b.WriteString(`</ul></div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// History renders the sidebar list, or the empty-state block.
func (r *HTMLRenderer) History(items []HistoryItem) string {
	if len(items) == 0 {
		return `<div class="history-empty"><p>` + esc(r.Locale.HistoryEmpty) +
			`</p><small>` + esc(r.Locale.HistoryEmptyHint) + `</small></div>`
	}

	var b strings.Builder
	for _, item := range items {
		class := "history-item"
		if item.Active {
			class += " active"
		}
		b.WriteString(`<div class="` + class + `" data-conversation-id="` + esc(item.ID) + `">`)
		b.WriteString(`<div class="history-content">`)
		b.WriteString(`<div class="history-preview">` + esc(item.Preview) + `</div>`)
		b.WriteString(`<div class="history-time">` + esc(item.Time) + `</div>`)
		b.WriteString(`</div>`)
		b.WriteString(`<div class="history-indicator"><span class="message-count">` +
			esc(itoa(item.Count)) + `</span></div>`)
		b.WriteString(`</div>`)
	}
	return b.String()
}

// textToHTML escapes s and keeps its line breaks.
func textToHTML(s string) string {
	return strings.ReplaceAll(esc(s), "\n", "<br>")
}
