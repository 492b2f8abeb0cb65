// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iasistem/assistant/internal/model"
	"github.com/iasistem/assistant/internal/ui/styles"
	"github.com/iasistem/assistant/internal/util"
)

// TerminalRenderer draws views with the theme's Lip Gloss styles.
type TerminalRenderer struct {
	Theme *styles.Theme
}

// NewTerminalRenderer creates a renderer for theme.
func NewTerminalRenderer(theme *styles.Theme) *TerminalRenderer {
	return &TerminalRenderer{Theme: theme}
}

// Message renders one message as a bubble at most width columns wide.
func (r *TerminalRenderer) Message(v MessageView, width int) string {
	t := r.Theme

	author := t.AssistantAuthor.Render(v.Author)
	bubble := t.AssistantBubble
	if v.Role == model.RoleUser {
		author = t.UserAuthor.Render(v.Author)
		bubble = t.UserBubble
	}
	header := author + "  " + t.MessageTime.Render(v.Time)

	inner := contentWidth(bubble, width)
	body := lipgloss.NewStyle().Width(inner).Render(v.Text)
	if v.Preview != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, body, r.Preview(v.Preview, inner))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, bubble.Render(body))
}

// Preview renders a preview block at most width columns wide.
func (r *TerminalRenderer) Preview(p *PreviewBlock, width int) string {
	t := r.Theme

	lines := []string{t.PreviewTitle.Render(p.Icon + " " + p.Title)}
	for _, f := range p.Fields {
		lines = append(lines, t.PreviewLabel.Render(f.Label+":")+" "+t.PreviewValue.Render(f.Value))
	}
	if len(p.Items) > 0 {
		lines = append(lines, t.PreviewLabel.Render(p.ListTitle))
		for _, item := range p.Items {
			lines = append(lines, t.PreviewListItem.Render("  - "+item))
		}
	}

	box := t.PreviewBox
	return box.Width(contentWidth(box, width)).Render(strings.Join(lines, "\n"))
}

// HistoryItem renders one sidebar row in two lines: the preview, then the
// relative time and message count. Wide runes are measured by display width.
func (r *TerminalRenderer) HistoryItem(item HistoryItem, width int, selected bool) string {
	t := r.Theme
	if width < 8 {
		width = 8
	}

	marker := "  "
	if item.Active {
		marker = t.SessionActive.Render("● ")
	}
	title := util.TruncateWidth(util.SingleLine(item.Preview), width-2)
	meta := item.Time + " · " + strconv.Itoa(item.Count)

	style := t.SessionItem
	if selected {
		style = t.SessionItemSelected
	}
	line := marker + style.Render(util.PadWidth(title, width-2))
	return line + "\n  " + t.SessionMeta.Render(util.TruncateWidth(meta, width-2))
}

// History renders every row, or the empty-state text.
func (r *TerminalRenderer) History(items []HistoryItem, emptyTitle, emptyHint string, width, cursor int) string {
	if len(items) == 0 {
		return r.Theme.HistoryEmpty.Render(emptyTitle) + "\n" +
			r.Theme.SessionMeta.Render(util.TruncateWidth(emptyHint, width))
	}
	rows := make([]string, len(items))
	for i, item := range items {
		rows[i] = r.HistoryItem(item, width, i == cursor)
	}
	return strings.Join(rows, "\n")
}

func contentWidth(style lipgloss.Style, width int) int {
	inner := width - style.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}
	return inner
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
