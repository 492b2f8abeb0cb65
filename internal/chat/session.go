// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/iasistem/assistant/internal/assistant"
	"github.com/iasistem/assistant/internal/locale"
	"github.com/iasistem/assistant/internal/model"
	"github.com/iasistem/assistant/internal/render"
	"github.com/iasistem/assistant/internal/storage"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// View is the screen a Session draws on.
type View interface {
	// ShowMessages replaces every displayed message.
	ShowMessages(msgs []render.MessageView)
	AppendMessage(msg render.MessageView)
	ShowLoading(text string)
	HideLoading()
	SetInputEnabled(enabled bool)
	ShowHistory(items []render.HistoryItem)
	ScrollToBottom()
	FocusInput()
}

// Querier answers a question.
type Querier interface {
	Query(ctx context.Context, text string) (*assistant.Reply, error)
}

// errEmptyReply is a Querier returning neither a reply nor an error.
var errEmptyReply = errors.New("querier returned no reply")

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// State is the query state of a Session.
type State int32

const (
	StateIdle State = iota
	StateSending
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	default:
		return "unknown"
	}
}

// =============================================================================
// SESSION
// =============================================================================

// Session coordinates the store, the querier and the view.
type Session struct {
	store   *storage.ConversationStore
	querier Querier
	view    View
	confirm Confirmer

	locale *locale.Locale
	log    zerolog.Logger
	now    func() time.Time

	sending atomic.Bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) {
		s.log = log.With().Str("component", "chat").Logger()
	}
}

// WithClock replaces time.Now for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithConfirmer sets the confirmer used by ClearAllHistory.
func WithConfirmer(c Confirmer) Option {
	return func(s *Session) {
		s.confirm = c
	}
}

// NewSession creates a session. Labels follow the store's locale. Without a
// confirmer ClearAllHistory always declines.
func NewSession(store *storage.ConversationStore, querier Querier, view View, opts ...Option) *Session {
	s := &Session{
		store:   store,
		querier: querier,
		view:    view,
		locale:  store.Locale(),
		log:     zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current query state.
func (s *Session) State() State {
	if s.sending.Load() {
		return StateSending
	}
	return StateIdle
}

// Store returns the conversation store.
func (s *Session) Store() *storage.ConversationStore {
	return s.store
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Initialize shows the active conversation, creating one when none is
// active or the active id no longer resolves.
func (s *Session) Initialize() {
	conv := s.store.Active()
	if conv == nil {
		conv = s.store.CreateConversation()
	}
	s.show(conv)
	s.refreshHistory()
	s.view.ScrollToBottom()
	s.view.FocusInput()
}

// StartNewConversation creates a conversation and shows it.
func (s *Session) StartNewConversation() {
	conv := s.store.CreateConversation()
	s.show(conv)
	s.refreshHistory()
	s.view.FocusInput()
}

// ClearAllHistory asks the session's confirmer before wiping history.
func (s *Session) ClearAllHistory() bool {
	return s.ClearAllHistoryWith(s.confirm)
}

// ClearAllHistoryWith asks c before wiping history and starting a fresh
// conversation. Declining changes nothing and returns false.
func (s *Session) ClearAllHistoryWith(c Confirmer) bool {
	if c == nil || !c.Confirm(s.locale.ConfirmClear) {
		return false
	}
	s.store.Clear()
	s.StartNewConversation()
	return true
}

// LoadConversation makes id active and shows it. An unknown id only records
// the selection and returns false.
func (s *Session) LoadConversation(id string) bool {
	conv := s.store.SelectConversation(id)
	if conv == nil {
		return false
	}
	s.show(conv)
	s.refreshHistory()
	s.view.ScrollToBottom()
	return true
}

// Submit sends text as a question and blocks until the reply or failure is
// shown. It returns false without doing anything when text is blank or a
// query is already pending.
func (s *Session) Submit(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if !s.sending.CompareAndSwap(false, true) {
		s.log.Debug().Msg("query already pending, submission dropped")
		return false
	}

	userMsg := model.NewUserMessage(text, s.now())
	s.store.AppendMessage(userMsg)
	s.view.AppendMessage(render.Message(s.locale, userMsg))

	s.view.SetInputEnabled(false)
	s.view.ShowLoading(s.locale.Loading)

	defer func() {
		s.sending.Store(false)
		s.view.HideLoading()
		s.view.SetInputEnabled(true)
		s.refreshHistory()
		s.view.ScrollToBottom()
	}()

	start := time.Now()
	reply, err := s.querier.Query(ctx, text)
	if err == nil && reply == nil {
		err = errEmptyReply
	}
	if err != nil {
		s.log.Error().Err(err).Dur("duration", time.Since(start)).Msg("query failed")
		apology := model.NewAssistantMessage(s.locale.Apology, nil, s.now())
		s.view.HideLoading()
		s.view.AppendMessage(render.Message(s.locale, apology))
		return true
	}

	aiMsg := model.NewAssistantMessage(reply.Text, reply.Attachment, s.now())
	s.view.HideLoading()
	s.view.AppendMessage(render.Message(s.locale, aiMsg))
	s.store.AppendMessage(aiMsg)

	event := s.log.Info().Dur("duration", time.Since(start))
	if reply.Attachment != nil {
		event = event.Str("attachment", string(reply.Attachment.Kind()))
	}
	event.Msg("query answered")
	return true
}

// History returns the sidebar rows for the current store state.
func (s *Session) History() []render.HistoryItem {
	return render.History(s.store, s.store.Conversations(), s.store.ActiveID())
}

func (s *Session) show(conv *model.Conversation) {
	s.view.ShowMessages(render.Messages(s.locale, conv))
}

func (s *Session) refreshHistory() {
	s.view.ShowHistory(s.History())
}
