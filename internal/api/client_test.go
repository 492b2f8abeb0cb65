// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostSendsJSONAndToken(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithTokenSource(TokenFunc(func() (string, error) {
		return "abc", nil
	})))

	var result struct{ OK bool }
	err := client.Post(context.Background(), "/api/echo", map[string]string{"consulta": "oi"}, &result)
	require.NoError(t, err)

	assert.True(t, result.OK)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Contains(t, gotContentType, "application/json")
	assert.Equal(t, "oi", gotBody["consulta"])
}

func TestClient_TokenErrorStopsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	noToken := errors.New("not logged in")
	client := NewClient(srv.URL, WithTokenSource(TokenFunc(func() (string, error) {
		return "", noToken
	})))

	err := client.Get(context.Background(), "/api/x", nil)
	assert.ErrorIs(t, err, noToken)
	assert.False(t, called)
}

func TestClient_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	result := map[string]any{"untouched": true}
	require.NoError(t, NewClient(srv.URL).Get(context.Background(), "/", &result))
	assert.Equal(t, true, result["untouched"])
}

func TestClient_ErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMessage string
		wantHTML    bool
	}{
		{"json mensagem", 400, "application/json", `{"mensagem":"Consulta vazia","erro":"x"}`, "Consulta vazia", false},
		{"json erro", 401, "application/json", `{"erro":"Token inválido"}`, "Token inválido", false},
		{"json without fields", 500, "application/json", `{"detail":"boom"}`, `{"detail":"boom"}`, false},
		{"html errormsg", 500, "text/html; charset=utf-8", `<html><p class="errormsg"> Falha interna </p></html>`, "Falha interna", true},
		{"html heading", 502, "text/html", `<h1>Bad Gateway</h1>`, "Bad Gateway", true},
		{"html unknown", 500, "text/html", `<html><body>oops</body></html>`, "Erro no servidor (500). O servidor retornou HTML em vez de JSON.", true},
		{"plain text", 503, "text/plain", "maintenance", "maintenance", false},
		{"empty", 404, "text/plain", "", "Erro na API (404)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewClient(srv.URL).Get(context.Background(), "/api/x", nil)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.wantHTML, apiErr.HTML)
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestClient_InvalidJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	var result map[string]any
	err := NewClient(srv.URL).Get(context.Background(), "/", &result)
	require.Error(t, err)
	assert.Zero(t, StatusCode(err))
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := NewClient(url, WithTimeout(2*time.Second)).Get(context.Background(), "/", nil)
	require.Error(t, err)
	assert.Zero(t, StatusCode(err))
}

func TestClient_RateLimitWaits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithRateLimit(1))
	require.NoError(t, client.Get(context.Background(), "/", nil))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, client.Get(ctx, "/", nil), "second request should wait past the deadline")
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("").BaseURL())
	assert.Equal(t, "http://host:5000", NewClient("http://host:5000/").BaseURL())
}

func TestNewClient_TimeoutSurvivesHTTPClientOption(t *testing.T) {
	for name, opts := range map[string][]Option{
		"timeout first": {WithTimeout(3 * time.Second), WithHTTPClient(&http.Client{})},
		"timeout last":  {WithHTTPClient(&http.Client{}), WithTimeout(3 * time.Second)},
	} {
		t.Run(name, func(t *testing.T) {
			client := NewClient("", opts...)
			assert.Equal(t, 3*time.Second, client.http.GetClient().Timeout)
		})
	}

	assert.Equal(t, DefaultTimeout, NewClient("", WithHTTPClient(&http.Client{})).http.GetClient().Timeout)
}
