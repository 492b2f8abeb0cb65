// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant sends questions to the backend AI endpoint and turns the
// answer into a reply with an optional structured attachment.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iasistem/assistant/internal/api"
	"github.com/iasistem/assistant/internal/model"
)

// QueryPath is the AI query endpoint.
const QueryPath = "/api/ai/consulta"

// ErrEmptyQuery is returned for blank questions.
var ErrEmptyQuery = errors.New("query is empty")

// Reply is the assistant's answer to one question.
type Reply struct {
	Text       string
	Attachment model.Attachment
}

// Poster is the subset of api.Client used by Client.
type Poster interface {
	Post(ctx context.Context, path string, body, result any) error
}

type queryRequest struct {
	Query string `json:"consulta"`
}

type queryResponse struct {
	Answer string          `json:"resposta"`
	Data   *structuredData `json:"dados"`
}

type structuredData struct {
	Type    string          `json:"tipo"`
	Payload json.RawMessage `json:"dados"`
}

// Wire type codes and the attachment kind each one carries.
var kindByType = map[string]model.AttachmentKind{
	"os":         model.KindServiceOrder,
	"cliente":    model.KindCustomer,
	"financeiro": model.KindFinancialSummary,
	"produtos":   model.KindInventorySummary,
}

// Client queries the AI endpoint.
type Client struct {
	api Poster
	log zerolog.Logger
}

// NewClient creates a client posting through p, normally an authenticated
// *api.Client.
func NewClient(p Poster, log zerolog.Logger) *Client {
	return &Client{api: p, log: log.With().Str("component", "assistant").Logger()}
}

// Query asks text and returns the reply. Structured data of an unknown type
// or with a malformed payload is dropped; the text answer is still returned.
func (c *Client) Query(ctx context.Context, text string) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuery
	}

	var resp queryResponse
	if err := c.api.Post(ctx, QueryPath, queryRequest{Query: text}, &resp); err != nil {
		return nil, err
	}

	return &Reply{Text: resp.Answer, Attachment: c.attachment(resp.Data)}, nil
}

func (c *Client) attachment(data *structuredData) model.Attachment {
	if data == nil || data.Type == "" {
		return nil
	}
	kind, ok := kindByType[data.Type]
	if !ok {
		c.log.Debug().Str("tipo", data.Type).Msg("no attachment for result type")
		return nil
	}
	if len(data.Payload) == 0 || string(data.Payload) == "null" {
		c.log.Warn().Str("tipo", data.Type).Msg("result without payload")
		return nil
	}

	attachment, err := model.DecodePayload(kind, data.Payload)
	if err != nil {
		c.log.Warn().Err(err).Str("tipo", data.Type).Msg("dropping malformed result")
		return nil
	}
	return attachment
}

var _ Poster = (*api.Client)(nil)
