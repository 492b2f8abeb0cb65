// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth keeps the backend session: the JWT issued at login and the
// profile of the logged-in user.
//
// The token is checked for expiry on every use by reading its "exp" claim
// without verifying the signature; the backend remains the authority.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/iasistem/assistant/internal/api"
	"github.com/iasistem/assistant/internal/storage"
)

// Storage keys.
const (
	TokenKey = "ia_sistem_token"
	UserKey  = "ia_sistem_usuario"
)

// LoginPath is the backend login endpoint.
const LoginPath = "/api/auth/login"

var (
	// ErrNotLoggedIn means no token is stored or configured.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrTokenExpired means the stored token is past its exp claim, has no
	// exp claim, or cannot be read as a JWT.
	ErrTokenExpired = errors.New("session expired, log in again")
)

// User is the profile returned at login.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"usuario"`
	Name     string `json:"nome"`
	Email    string `json:"email,omitempty"`
}

type loginRequest struct {
	Username string `json:"usuario"`
	Password string `json:"senha"`
}

type loginResponse struct {
	Token   string `json:"token"`
	User    *User  `json:"usuario"`
	Message string `json:"mensagem"`
}

// =============================================================================
// SESSION
// =============================================================================

// Session reads and writes credentials in a storage.Backend and implements
// api.TokenSource.
type Session struct {
	backend storage.Backend
	client  *api.Client
	static  string
	now     func() time.Time
	log     zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithStaticToken makes Token return token instead of the stored one, as set
// by ASSISTANT_TOKEN.
func WithStaticToken(token string) Option {
	return func(s *Session) {
		s.static = strings.TrimSpace(token)
	}
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) {
		s.log = log.With().Str("component", "auth").Logger()
	}
}

// NewSession creates a session over backend. client is used unauthenticated
// for Login and may be nil when Login is never called.
func NewSession(backend storage.Backend, client *api.Client, opts ...Option) *Session {
	s := &Session{
		backend: backend,
		client:  client,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token returns a usable bearer token.
func (s *Session) Token() (string, error) {
	token := s.static
	if token == "" {
		data, ok, err := s.backend.Get(TokenKey)
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		if !ok {
			return "", ErrNotLoggedIn
		}
		token = strings.TrimSpace(string(data))
	}
	if token == "" {
		return "", ErrNotLoggedIn
	}

	if err := s.checkExpiry(token); err != nil {
		return "", err
	}
	return token, nil
}

// LoggedIn reports whether Token would succeed.
func (s *Session) LoggedIn() bool {
	_, err := s.Token()
	return err == nil
}

// ExpiresAt returns the exp claim of the current token.
func (s *Session) ExpiresAt() (time.Time, error) {
	token, err := s.Token()
	if err != nil {
		return time.Time{}, err
	}
	exp, err := expiration(token)
	if err != nil {
		return time.Time{}, err
	}
	return exp, nil
}

func (s *Session) checkExpiry(token string) error {
	exp, err := expiration(token)
	if err != nil {
		s.log.Debug().Err(err).Msg("unreadable token")
		return ErrTokenExpired
	}
	if !exp.After(s.now()) {
		return ErrTokenExpired
	}
	return nil
}

func expiration(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, errors.New("token has no exp claim")
	}
	return exp.Time, nil
}

// =============================================================================
// LOGIN / LOGOUT
// =============================================================================

// Login exchanges username and password for a token and stores both the
// token and the returned profile.
func (s *Session) Login(ctx context.Context, username, password string) (*User, error) {
	if s.client == nil {
		return nil, errors.New("login requires an API client")
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	var resp loginResponse
	req := loginRequest{Username: strings.TrimSpace(username), Password: password}
	if err := s.client.Post(ctx, LoginPath, req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("login response did not include a token")
	}

	if err := s.backend.Set(TokenKey, []byte(resp.Token)); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}
	user := resp.User
	if user == nil {
		user = &User{Username: req.Username}
	}
	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.backend.Set(UserKey, data); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.log.Info().Str("user", user.Username).Msg("logged in")
	return user, nil
}

// Logout forgets the stored token and profile.
func (s *Session) Logout() error {
	var errs []error
	for _, key := range []string{TokenKey, UserKey} {
		if err := s.backend.Remove(key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	s.log.Info().Msg("logged out")
	return nil
}

// User returns the stored profile, or ErrNotLoggedIn.
func (s *Session) User() (*User, error) {
	data, ok, err := s.backend.Get(UserKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	if !ok {
		return nil, ErrNotLoggedIn
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		s.log.Warn().Err(err).Msg("discarding corrupt user profile")
		return nil, ErrNotLoggedIn
	}
	return &user, nil
}

var _ api.TokenSource = (*Session)(nil)
