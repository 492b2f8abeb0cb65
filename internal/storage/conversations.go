// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iasistem/assistant/internal/locale"
	"github.com/iasistem/assistant/internal/model"
	"github.com/iasistem/assistant/internal/util"
)

// Storage keys.
const (
	ConversationsKey = "ai_conversations"
	ActiveKey        = "ai_active_conversation"
)

// DefaultMaxConversations is how many conversations the history keeps.
const DefaultMaxConversations = 10

// PreviewMaxRunes is the preview length before "..." is appended.
const PreviewMaxRunes = 50

// ErrNotFound is returned by lookups that match no stored conversation.
var ErrNotFound = errors.New("conversation not found")

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// ConversationStore owns the bounded conversation history and the active
// conversation pointer. It is safe for concurrent use; every conversation it
// returns is a copy.
type ConversationStore struct {
	mu            sync.Mutex
	backend       Backend
	conversations []*model.Conversation
	activeID      string

	maxConversations int
	log              zerolog.Logger
	now              func() time.Time
	locale           *locale.Locale
}

// Option configures a ConversationStore.
type Option func(*ConversationStore)

// WithLogger sets the logger used for load and persist failures.
func WithLogger(log zerolog.Logger) Option {
	return func(s *ConversationStore) {
		s.log = log.With().Str("component", "storage").Logger()
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *ConversationStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxConversations changes the history bound. Values below 1 are ignored.
func WithMaxConversations(n int) Option {
	return func(s *ConversationStore) {
		if n > 0 {
			s.maxConversations = n
		}
	}
}

// WithLocale sets the greeting, placeholder and date formats.
func WithLocale(l *locale.Locale) Option {
	return func(s *ConversationStore) {
		if l != nil {
			s.locale = l
		}
	}
}

// NewConversationStore creates a store over backend and loads the persisted
// history once.
func NewConversationStore(backend Backend, opts ...Option) *ConversationStore {
	s := &ConversationStore{
		backend:          backend,
		maxConversations: DefaultMaxConversations,
		log:              zerolog.Nop(),
		now:              time.Now,
		locale:           locale.PTBR,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

// =============================================================================
// LOAD / PERSIST
// =============================================================================

// Load re-reads the history from the backend. Missing, unreadable or corrupt
// data leaves the store empty; the problem is logged, never returned.
func (s *ConversationStore) Load() []*model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = s.readConversations()
	s.activeID = s.readActiveID()
	return cloneAll(s.conversations)
}

func (s *ConversationStore) readConversations() []*model.Conversation {
	data, ok, err := s.backend.Get(ConversationsKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read conversation history")
		return nil
	}
	if !ok || len(data) == 0 {
		return nil
	}

	var decoded []*model.Conversation
	if err := json.Unmarshal(data, &decoded); err != nil {
		s.log.Warn().Err(err).Msg("discarding corrupt conversation history")
		return nil
	}

	convs := make([]*model.Conversation, 0, len(decoded))
	for _, c := range decoded {
		if c != nil && c.ID != "" {
			convs = append(convs, c)
		}
	}
	if len(convs) > s.maxConversations {
		convs = convs[:s.maxConversations]
	}
	return convs
}

func (s *ConversationStore) readActiveID() string {
	data, ok, err := s.backend.Get(ActiveKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read active conversation")
		return ""
	}
	if !ok {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// persist writes the whole history and the active id. Must hold s.mu.
func (s *ConversationStore) persist() {
	convs := s.conversations
	if convs == nil {
		convs = []*model.Conversation{}
	}
	data, err := json.Marshal(convs)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode conversation history")
		return
	}
	if err := s.backend.Set(ConversationsKey, data); err != nil {
		s.log.Error().Err(err).Msg("failed to save conversation history")
	}

	if s.activeID == "" {
		err = s.backend.Remove(ActiveKey)
	} else {
		err = s.backend.Set(ActiveKey, []byte(s.activeID))
	}
	if err != nil {
		s.log.Error().Err(err).Msg("failed to save active conversation")
	}
}

// =============================================================================
// MUTATIONS
// =============================================================================

// CreateConversation starts a conversation holding only the greeting, puts it
// first, drops the oldest beyond the bound and makes it active.
func (s *ConversationStore) CreateConversation() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := model.NewConversation(s.locale.Greeting, s.now())

	convs := make([]*model.Conversation, 0, len(s.conversations)+1)
	convs = append(convs, conv)
	convs = append(convs, s.conversations...)
	if len(convs) > s.maxConversations {
		convs = convs[:s.maxConversations]
	}
	s.conversations = convs
	s.activeID = conv.ID
	s.persist()

	s.log.Debug().Str("id", conv.ID).Int("total", len(convs)).Msg("conversation created")
	return conv.Clone()
}

// AppendMessage adds msg to the active conversation and saves. Without an
// active conversation nothing happens and false is returned.
func (s *ConversationStore) AppendMessage(msg model.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.find(s.activeID)
	if conv == nil {
		return false
	}
	conv.Append(msg)
	s.persist()
	return true
}

// SelectConversation makes id the active conversation and returns it, or nil
// when no stored conversation has that id. The id is recorded either way.
func (s *ConversationStore) SelectConversation(id string) *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeID = id
	s.persist()
	return s.find(id).Clone()
}

// Clear forgets every conversation and the active pointer.
func (s *ConversationStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = nil
	s.activeID = ""
	s.persist()
	s.log.Info().Msg("conversation history cleared")
}

// =============================================================================
// QUERIES
// =============================================================================

// Active returns the active conversation, or nil.
func (s *ConversationStore) Active() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(s.activeID).Clone()
}

// ActiveID returns the active id, which may not match any conversation.
func (s *ConversationStore) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Conversations returns the history, most recent first.
func (s *ConversationStore) Conversations() []*model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.conversations)
}

// Get returns the conversation with id.
func (s *ConversationStore) Get(id string) (*model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.find(id)
	if conv == nil {
		return nil, ErrNotFound
	}
	return conv.Clone(), nil
}

// Resolve looks a conversation up by id, or by its 1-based position in the
// history as printed by "history list".
func (s *ConversationStore) Resolve(ref string) (*model.Conversation, error) {
	ref = strings.TrimSpace(ref)

	s.mu.Lock()
	defer s.mu.Unlock()

	if conv := s.find(ref); conv != nil {
		return conv.Clone(), nil
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(s.conversations) {
		return s.conversations[n-1].Clone(), nil
	}
	return nil, ErrNotFound
}

// Search returns the conversations with a message containing query,
// case-insensitively, most recent first. The seed greeting is not searched.
func (s *ConversationStore) Search(query string) []*model.Conversation {
	needle := strings.ToLower(strings.TrimSpace(query))

	s.mu.Lock()
	defer s.mu.Unlock()

	if needle == "" {
		return cloneAll(s.conversations)
	}
	var matches []*model.Conversation
	for _, conv := range s.conversations {
		for i, msg := range conv.Messages {
			if i == 0 && msg.Role == model.RoleAssistant {
				continue
			}
			if strings.Contains(strings.ToLower(msg.Text), needle) {
				matches = append(matches, conv.Clone())
				break
			}
		}
	}
	return matches
}

// Len returns the number of stored conversations.
func (s *ConversationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

// MaxConversations returns the history bound.
func (s *ConversationStore) MaxConversations() int {
	return s.maxConversations
}

// Locale returns the locale used for the greeting and labels.
func (s *ConversationStore) Locale() *locale.Locale {
	return s.locale
}

// =============================================================================
// LABELS
// =============================================================================

// Preview returns the first user message of c, cut to PreviewMaxRunes runes
// plus "...", or the new-conversation placeholder.
func (s *ConversationStore) Preview(c *model.Conversation) string {
	return PreviewText(c, s.locale.NewConversation)
}

// PreviewText is Preview with an explicit placeholder, for callers without a
// store.
func PreviewText(c *model.Conversation, placeholder string) string {
	if c == nil {
		return placeholder
	}
	msg, ok := c.FirstUserMessage()
	if !ok {
		return placeholder
	}
	return util.TruncateRunes(msg.Text, PreviewMaxRunes, "...")
}

// RelativeTime labels the creation time of c: the clock time when created
// today, "Ontem" one day ago, the weekday within a week, else day/month.
// Days are whole 24h periods, not calendar days.
func (s *ConversationStore) RelativeTime(c *model.Conversation) string {
	if c == nil {
		return ""
	}
	now := s.now()
	created := c.CreatedAt.In(now.Location())
	days := int(math.Floor(now.Sub(created).Hours() / 24))

	switch {
	case days <= 0:
		return s.locale.Clock(created)
	case days == 1:
		return s.locale.Yesterday
	case days < 7:
		return s.locale.Weekday(created)
	default:
		return s.locale.DayMonth(created)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// find returns the stored conversation (not a copy). Must hold s.mu.
func (s *ConversationStore) find(id string) *model.Conversation {
	if id == "" {
		return nil
	}
	for _, conv := range s.conversations {
		if conv.ID == id {
			return conv
		}
	}
	return nil
}

func cloneAll(convs []*model.Conversation) []*model.Conversation {
	out := make([]*model.Conversation, len(convs))
	for i, c := range convs {
		out[i] = c.Clone()
	}
	return out
}
