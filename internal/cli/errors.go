// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Exit codes and user-facing error messages.
//
// Commands always return errors; Execute prints them once and maps them to
// an exit code.

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/iasistem/assistant/internal/api"
	"github.com/iasistem/assistant/internal/assistant"
	"github.com/iasistem/assistant/internal/auth"
	"github.com/iasistem/assistant/internal/export"
	"github.com/iasistem/assistant/internal/storage"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitUsageError    = 2
	ExitConfigError   = 3
	ExitAuthError     = 4
	ExitNetworkError  = 5
	ExitNotFoundError = 7
	ExitTimeoutError  = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ConfigError is a failure to load or validate the configuration.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("configuration %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("configuration: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// UsageError is invalid command usage.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return e.Reason
}

// =============================================================================
// MAPPING
// =============================================================================

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var cfgErr *ConfigError
	var usageErr *UsageError
	var apiErr *api.Error

	switch {
	case errors.As(err, &cfgErr):
		return ExitConfigError
	case errors.As(err, &usageErr), errors.Is(err, export.ErrUnsupportedFormat),
		errors.Is(err, assistant.ErrEmptyQuery):
		return ExitUsageError
	case errors.Is(err, auth.ErrNotLoggedIn), errors.Is(err, auth.ErrTokenExpired):
		return ExitAuthError
	case errors.Is(err, storage.ErrNotFound):
		return ExitNotFoundError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case errors.As(err, &apiErr):
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return ExitAuthError
		case http.StatusNotFound:
			return ExitNotFoundError
		case http.StatusGatewayTimeout, http.StatusRequestTimeout:
			return ExitTimeoutError
		}
		return ExitNetworkError
	}
	return ExitGeneralError
}

// Hint returns a follow-up suggestion for err, or "".
func Hint(err error) string {
	switch {
	case errors.Is(err, auth.ErrNotLoggedIn), errors.Is(err, auth.ErrTokenExpired),
		api.StatusCode(err) == http.StatusUnauthorized:
		return "run `assistant login` to sign in"
	case errors.Is(err, storage.ErrNotFound):
		return "run `assistant history list` to see stored conversations"
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return "run `assistant config show` to inspect the configuration"
	}
	return ""
}
