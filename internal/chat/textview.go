// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"io"
	"sync"

	"github.com/iasistem/assistant/internal/render"
)

// TextView writes the conversation to a stream, one message after another.
// It backs the line REPL, where history is printed only on request.
type TextView struct {
	mu       sync.Mutex
	out      io.Writer
	renderer *render.TerminalRenderer
	width    int
	history  []render.HistoryItem
}

// NewTextView creates a view writing to out with messages drawn as bubbles
// wrapped at width.
func NewTextView(out io.Writer, renderer *render.TerminalRenderer, width int) *TextView {
	if width <= 0 {
		width = 80
	}
	return &TextView{out: out, renderer: renderer, width: width}
}

// NewPlainTextView creates a view writing messages as unstyled, unwrapped
// text, for output that is not a terminal.
func NewPlainTextView(out io.Writer) *TextView {
	return &TextView{out: out}
}

func (v *TextView) ShowMessages(msgs []render.MessageView) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, msg := range msgs {
		v.write(msg)
	}
}

func (v *TextView) AppendMessage(msg render.MessageView) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.write(msg)
}

func (v *TextView) ShowLoading(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.renderer == nil {
		fmt.Fprintln(v.out, text)
		return
	}
	fmt.Fprintln(v.out, v.renderer.Theme.ThinkingText.Render(text))
}

func (v *TextView) HideLoading()         {}
func (v *TextView) SetInputEnabled(bool) {}
func (v *TextView) ScrollToBottom()      {}
func (v *TextView) FocusInput()          {}

// ShowHistory keeps items for History.
func (v *TextView) ShowHistory(items []render.HistoryItem) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.history = items
}

// History returns the rows last passed to ShowHistory.
func (v *TextView) History() []render.HistoryItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]render.HistoryItem(nil), v.history...)
}

func (v *TextView) write(msg render.MessageView) {
	if v.renderer == nil {
		fmt.Fprintln(v.out, render.PlainMessage(msg))
		fmt.Fprintln(v.out)
		return
	}
	fmt.Fprintln(v.out, v.renderer.Message(msg, v.width))
	fmt.Fprintln(v.out)
}

var _ View = (*TextView)(nil)
