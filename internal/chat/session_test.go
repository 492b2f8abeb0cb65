// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"bytes"
	"context"
	"errors"
	"html"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iasistem/assistant/internal/assistant"
	"github.com/iasistem/assistant/internal/locale"
	"github.com/iasistem/assistant/internal/model"
	"github.com/iasistem/assistant/internal/render"
	"github.com/iasistem/assistant/internal/storage"
	"github.com/iasistem/assistant/internal/ui/styles"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

// recordingView records what the session drew.
type recordingView struct {
	mu           sync.Mutex
	messages     []render.MessageView
	history      []render.HistoryItem
	loading      bool
	loadingText  string
	inputEnabled bool
	focused      int
	scrolled     int
}

func newRecordingView() *recordingView {
	return &recordingView{inputEnabled: true}
}

func (v *recordingView) ShowMessages(msgs []render.MessageView) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = append([]render.MessageView(nil), msgs...)
}

func (v *recordingView) AppendMessage(msg render.MessageView) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = append(v.messages, msg)
}

func (v *recordingView) ShowLoading(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading, v.loadingText = true, text
}

func (v *recordingView) HideLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
}

func (v *recordingView) SetInputEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputEnabled = enabled
}

func (v *recordingView) ShowHistory(items []render.HistoryItem) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.history = items
}

func (v *recordingView) ScrollToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrolled++
}

func (v *recordingView) FocusInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.focused++
}

func (v *recordingView) snapshot() ([]render.MessageView, bool, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]render.MessageView(nil), v.messages...), v.loading, v.inputEnabled
}

// stubQuerier returns a fixed reply or error and counts calls. When release
// is set, Query blocks until it is closed.
type stubQuerier struct {
	reply   *assistant.Reply
	err     error
	release chan struct{}
	started chan struct{}
	calls   atomic.Int32
}

func (q *stubQuerier) Query(ctx context.Context, text string) (*assistant.Reply, error) {
	q.calls.Add(1)
	if q.started != nil {
		q.started <- struct{}{}
	}
	if q.release != nil {
		<-q.release
	}
	return q.reply, q.err
}

var testNow = time.Date(2026, time.October, 19, 14, 5, 0, 0, time.UTC)

func newTestSession(t *testing.T, q Querier, opts ...Option) (*Session, *storage.ConversationStore, *recordingView, *storage.MemoryBackend) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	clock := func() time.Time { return testNow }
	store := storage.NewConversationStore(backend, storage.WithClock(clock))
	view := newRecordingView()
	opts = append([]Option{WithClock(clock)}, opts...)
	return NewSession(store, q, view, opts...), store, view, backend
}

// =============================================================================
// INITIALIZE / NEW / LOAD
// =============================================================================

func TestInitialize_CreatesConversationWhenNoneActive(t *testing.T) {
	session, store, view, _ := newTestSession(t, &stubQuerier{})

	session.Initialize()

	require.Equal(t, 1, store.Len())
	msgs, _, _ := view.snapshot()
	require.Len(t, msgs, 1)
	assert.Equal(t, locale.PTBR.Greeting, msgs[0].Text)
	assert.Len(t, view.history, 1)
	assert.True(t, view.history[0].Active)
	assert.Equal(t, 1, view.focused)
}

func TestInitialize_ReusesActiveConversation(t *testing.T) {
	session, store, view, _ := newTestSession(t, &stubQuerier{})
	conv := store.CreateConversation()
	store.AppendMessage(model.NewUserMessage("oi", testNow))

	session.Initialize()

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, conv.ID, store.ActiveID())
	msgs, _, _ := view.snapshot()
	assert.Len(t, msgs, 2)
}

func TestStartNewConversation(t *testing.T) {
	session, store, view, _ := newTestSession(t, &stubQuerier{})
	session.Initialize()

	session.StartNewConversation()

	assert.Equal(t, 2, store.Len())
	msgs, _, _ := view.snapshot()
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleAssistant, msgs[0].Role)
	assert.Len(t, view.history, 2)
}

func TestLoadConversation(t *testing.T) {
	session, store, view, _ := newTestSession(t, &stubQuerier{})
	first := store.CreateConversation()
	store.AppendMessage(model.NewUserMessage("primeira", testNow))
	store.CreateConversation()
	session.Initialize()

	require.True(t, session.LoadConversation(first.ID))
	msgs, _, _ := view.snapshot()
	require.Len(t, msgs, 2)
	assert.Equal(t, "primeira", msgs[1].Text)
	assert.True(t, view.history[1].Active)
}

func TestLoadConversation_NotFoundIsNoop(t *testing.T) {
	session, _, view, _ := newTestSession(t, &stubQuerier{})
	session.Initialize()
	before, _, _ := view.snapshot()

	assert.False(t, session.LoadConversation("missing"))

	after, _, _ := view.snapshot()
	assert.Equal(t, before, after)
}

// =============================================================================
// CLEAR
// =============================================================================

func TestClearAllHistory_Declined(t *testing.T) {
	var prompt string
	decline := ConfirmFunc(func(p string) bool { prompt = p; return false })
	session, store, _, backend := newTestSession(t, &stubQuerier{}, WithConfirmer(decline))
	session.Initialize()
	session.StartNewConversation()
	persisted, _, _ := backend.Get(storage.ConversationsKey)

	assert.False(t, session.ClearAllHistory())

	assert.Equal(t, locale.PTBR.ConfirmClear, prompt)
	assert.Equal(t, 2, store.Len())
	after, _, _ := backend.Get(storage.ConversationsKey)
	assert.Equal(t, persisted, after)
}

func TestClearAllHistory_Accepted(t *testing.T) {
	accept := ConfirmFunc(func(string) bool { return true })
	session, store, view, _ := newTestSession(t, &stubQuerier{}, WithConfirmer(accept))
	session.Initialize()
	session.StartNewConversation()

	assert.True(t, session.ClearAllHistory())

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, store.Active().MessageCount())
	assert.Len(t, view.history, 1)
}

func TestClearAllHistory_NoConfirmerDeclines(t *testing.T) {
	session, store, _, _ := newTestSession(t, &stubQuerier{})
	session.Initialize()
	assert.False(t, session.ClearAllHistory())
	assert.Equal(t, 1, store.Len())
}

// =============================================================================
// SUBMIT
// =============================================================================

func TestSubmit_ServiceOrderScenario(t *testing.T) {
	q := &stubQuerier{reply: &assistant.Reply{
		Text: `A OS005 é da cliente <Maria> & está pronta.`,
		Attachment: model.ServiceOrder{
			Number: "OS005", CustomerName: "Maria", Status: model.StatusReady,
			DeviceType: "Celular", DeviceModel: "Moto G", BudgetValue: 150,
		},
	}}
	session, store, view, _ := newTestSession(t, q)
	session.Initialize()

	require.True(t, session.Submit(context.Background(), "cliente da OS005"))

	assert.Equal(t, 3, store.Active().MessageCount())
	assert.Equal(t, StateIdle, session.State())

	msgs, loading, inputEnabled := view.snapshot()
	assert.False(t, loading)
	assert.True(t, inputEnabled)
	require.Len(t, msgs, 3)
	assert.Equal(t, "cliente da OS005", msgs[1].Text)

	out := render.NewHTMLRenderer(locale.PTBR).Message(msgs[2])
	assert.Contains(t, out, html.EscapeString(q.reply.Text))
	assert.NotContains(t, out, "<Maria>")
	assert.Contains(t, out, "Pronto")
	assert.Contains(t, out, "Ordem de Serviço OS005")

	require.Len(t, view.history, 1)
	assert.Equal(t, "cliente da OS005", view.history[0].Preview)
	assert.Equal(t, 2, view.history[0].Count)
}

func TestSubmit_FailureShowsApologyWithoutPersisting(t *testing.T) {
	q := &stubQuerier{err: errors.New("connection refused")}
	session, store, view, backend := newTestSession(t, q)
	session.Initialize()

	require.True(t, session.Submit(context.Background(), "receitas do mês"))

	msgs, loading, inputEnabled := view.snapshot()
	require.Len(t, msgs, 3)
	assert.Equal(t, locale.PTBR.Apology, msgs[2].Text)
	assert.Nil(t, msgs[2].Preview)
	assert.False(t, loading)
	assert.True(t, inputEnabled)

	// Greeting and question only.
	assert.Equal(t, 2, store.Active().MessageCount())
	reloaded := storage.NewConversationStore(backend)
	assert.Equal(t, 2, reloaded.Active().MessageCount())
	assert.Equal(t, StateIdle, session.State())
}

func TestSubmit_NilReplyShowsApology(t *testing.T) {
	session, store, view, _ := newTestSession(t, &stubQuerier{})
	session.Initialize()

	require.NotPanics(t, func() {
		assert.True(t, session.Submit(context.Background(), "status da OS005"))
	})

	msgs, loading, _ := view.snapshot()
	require.Len(t, msgs, 3)
	assert.Equal(t, locale.PTBR.Apology, msgs[2].Text)
	assert.False(t, loading)
	assert.Equal(t, 2, store.Active().MessageCount())
	assert.Equal(t, StateIdle, session.State())
}

func TestSubmit_BlankIsRejected(t *testing.T) {
	q := &stubQuerier{reply: &assistant.Reply{Text: "x"}}
	session, store, _, _ := newTestSession(t, q)
	session.Initialize()

	assert.False(t, session.Submit(context.Background(), "   \n"))
	assert.Zero(t, q.calls.Load())
	assert.Equal(t, 1, store.Active().MessageCount())
}

func TestSubmit_BusyGuard(t *testing.T) {
	q := &stubQuerier{
		reply:   &assistant.Reply{Text: "ok"},
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	session, store, view, _ := newTestSession(t, q)
	session.Initialize()

	done := make(chan bool)
	go func() { done <- session.Submit(context.Background(), "primeira") }()
	<-q.started

	assert.Equal(t, StateSending, session.State())
	_, loading, inputEnabled := view.snapshot()
	assert.True(t, loading)
	assert.False(t, inputEnabled)
	assert.Equal(t, locale.PTBR.Loading, view.loadingText)

	assert.False(t, session.Submit(context.Background(), "segunda"))

	close(q.release)
	assert.True(t, <-done)
	assert.Equal(t, int32(1), q.calls.Load())
	assert.Equal(t, 3, store.Active().MessageCount())
}

func TestSubmit_WithoutActiveConversationStillAnswers(t *testing.T) {
	q := &stubQuerier{reply: &assistant.Reply{Text: "ok"}}
	session, store, view, _ := newTestSession(t, q)
	session.Initialize()
	store.SelectConversation("gone")

	require.True(t, session.Submit(context.Background(), "oi"))

	msgs, _, _ := view.snapshot()
	assert.Len(t, msgs, 3)
	assert.Nil(t, store.Active())
}

// =============================================================================
// TEXT VIEW
// =============================================================================

func TestTextView(t *testing.T) {
	var buf bytes.Buffer
	renderer := render.NewTerminalRenderer(styles.NewThemeWithProfile(termenv.Ascii, true))
	view := NewTextView(&buf, renderer, 60)

	q := &stubQuerier{reply: &assistant.Reply{Text: "Tudo certo."}}
	store := storage.NewConversationStore(storage.NewMemoryBackend())
	session := NewSession(store, q, view)
	session.Initialize()
	session.Submit(context.Background(), "oi")

	out := buf.String()
	assert.Contains(t, out, "Assistente IA")
	assert.Contains(t, out, "Processando sua consulta...")
	assert.Contains(t, out, "Tudo certo.")
	assert.Less(t, strings.Index(out, "Processando"), strings.Index(out, "Tudo certo."))
	assert.Len(t, view.History(), 1)
}

func TestPlainTextView_PrintsTextVerbatim(t *testing.T) {
	var buf bytes.Buffer
	view := NewPlainTextView(&buf)

	q := &stubQuerier{reply: &assistant.Reply{Text: "Tudo certo."}}
	store := storage.NewConversationStore(storage.NewMemoryBackend())
	session := NewSession(store, q, view)
	session.Initialize()
	session.Submit(context.Background(), "oi")

	out := buf.String()
	assert.Contains(t, out, locale.PTBR.Greeting)
	assert.Contains(t, out, "Processando sua consulta...\n")
	assert.Contains(t, out, "Tudo certo.")
	assert.NotContains(t, out, "╭")
	assert.NotContains(t, out, "\x1b[")
}
