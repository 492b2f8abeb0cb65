// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Error is a non-2xx response from the backend.
type Error struct {
	Status  int
	Message string

	// Body is the raw response body.
	Body string

	// HTML is set when the server answered with an HTML page.
	HTML bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status of err if it is (or wraps) an *Error,
// else 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

var (
	htmlErrorParagraph = regexp.MustCompile(`(?i)<p class="errormsg">([^<]+)</p>`)
	htmlHeading        = regexp.MustCompile(`(?i)<h1>([^<]+)</h1>`)
)

// ParseError builds the *Error for a failed response.
func ParseError(status int, contentType string, body []byte) *Error {
	text := string(body)
	e := &Error{Status: status, Body: text}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		if strings.Contains(strings.ToLower(contentType), "text/html") {
			e.HTML = true
			e.Message = htmlErrorMessage(status, text)
			return e
		}
		decoded = nil
	}

	if decoded != nil {
		e.Message = text
		if fields, ok := decoded.(map[string]any); ok {
			if msg := stringField(fields, "mensagem"); msg != "" {
				e.Message = msg
			} else if msg := stringField(fields, "erro"); msg != "" {
				e.Message = msg
			}
		}
		return e
	}

	if text != "" {
		e.Message = text
	} else {
		e.Message = fmt.Sprintf("Erro na API (%d)", status)
	}
	return e
}

func htmlErrorMessage(status int, page string) string {
	for _, re := range []*regexp.Regexp{htmlErrorParagraph, htmlHeading} {
		if m := re.FindStringSubmatch(page); m != nil {
			if msg := strings.TrimSpace(m[1]); msg != "" {
				return msg
			}
		}
	}
	return fmt.Sprintf("Erro no servidor (%d). O servidor retornou HTML em vez de JSON.", status)
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
