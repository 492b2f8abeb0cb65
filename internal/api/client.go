// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL is the local Flask backend.
	DefaultBaseURL = "http://127.0.0.1:5000"

	// DefaultTimeout bounds one request, connection included.
	DefaultTimeout = 60 * time.Second

	// UserAgent identifies the client to the backend.
	UserAgent = "iasistem-assistant"
)

// TokenSource supplies the bearer token for authenticated requests.
type TokenSource interface {
	Token() (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() (string, error)

// Token calls f.
func (f TokenFunc) Token() (string, error) { return f() }

// =============================================================================
// CLIENT
// =============================================================================

// Client performs JSON requests against the backend.
type Client struct {
	http    *resty.Client
	baseURL string
	tokens  TokenSource
	limiter *rate.Limiter
	timeout time.Duration
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTokenSource makes every request authenticated.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithLogger sets the request logger. Tokens and bodies are never logged.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log.With().Str("component", "api").Logger()
	}
}

// WithRateLimit throttles the client to perMinute requests. Requests wait
// for a slot rather than fail. Zero or negative disables throttling.
func WithRateLimit(perMinute int) Option {
	return func(c *Client) {
		if perMinute <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
}

// WithHTTPClient replaces the underlying transport client, mainly for tests.
// The timeout is applied after all options, whatever their order.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc)
		configure(c.http, c.baseURL)
	}
}

// NewClient creates a client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	c := &Client{
		http:    resty.New(),
		baseURL: baseURL,
		timeout: DefaultTimeout,
		log:     zerolog.Nop(),
	}
	configure(c.http, baseURL)
	for _, opt := range opts {
		opt(c)
	}
	c.http.SetTimeout(c.timeout)

	c.http.SetLogger(restyLogger{log: c.log})
	c.http.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if c.limiter == nil {
			return nil
		}
		return c.limiter.Wait(r.Context())
	})
	return c
}

func configure(rc *resty.Client, baseURL string) {
	rc.SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", UserAgent)
}

// BaseURL returns the backend root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUESTS
// =============================================================================

// Get performs GET path and decodes the response into result.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.Do(ctx, http.MethodGet, path, nil, result)
}

// Post performs POST path with body encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPost, path, body, result)
}

// Do performs one request. A nil result discards the body; a 204 leaves
// result untouched. Non-2xx responses are returned as *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	req := c.http.R().SetContext(ctx)

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return err
		}
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Warn().Err(err).
			Str("method", method).
			Str("path", path).
			Dur("duration", time.Since(start)).
			Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	if !resp.IsSuccess() {
		apiErr := ParseError(resp.StatusCode(), resp.Header().Get("Content-Type"), resp.Body())
		c.log.Warn().Int("status", apiErr.Status).Bool("html", apiErr.HTML).Msg(apiErr.Message)
		return apiErr
	}

	if resp.StatusCode() == http.StatusNoContent || result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return fmt.Errorf("%s %s: invalid JSON response: %w", method, path, err)
	}
	return nil
}

// restyLogger routes resty's own diagnostics to zerolog so they never reach
// the terminal the UI is drawing on.
type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) { l.log.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.log.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.log.Debug().Msgf(format, v...) }
