// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One question, one answer, nothing stored.
//
// Command: ask <question>
//
// Examples:
//   assistant ask "qual o status da OS005?"
//   echo "resumo financeiro" | assistant ask -
//   assistant ask --json "estoque baixo"

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iasistem/assistant/internal/model"
	"github.com/iasistem/assistant/internal/render"
)

// maxStdinQuestion bounds a question read from stdin.
const maxStdinQuestion = 64 << 10

func newAskCommand(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question without storing it",
		Long: `Send one question to the assistant and print the answer. The exchange is
not added to the conversation history. Use "-" to read the question from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			if question == "-" {
				data, err := io.ReadAll(io.LimitReader(a.stdin, maxStdinQuestion))
				if err != nil {
					return fmt.Errorf("read question: %w", err)
				}
				question = string(data)
			}
			return a.ask(cmd.Context(), question, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the answer as JSON")
	return cmd
}

// askResult is the JSON form of an answer.
type askResult struct {
	Question   string          `json:"question"`
	Answer     string          `json:"answer"`
	Attachment json.RawMessage `json:"attachment,omitempty"`
}

func (a *app) ask(ctx context.Context, question string, asJSON bool) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return &UsageError{Reason: "the question is empty"}
	}

	client, _, err := a.querier()
	if err != nil {
		return err
	}

	qctx, stop := interruptible(ctx)
	defer stop()
	reply, err := client.Query(qctx, question)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if asJSON {
		res := askResult{Question: question, Answer: reply.Text}
		if reply.Attachment != nil {
			data, err := model.MarshalAttachment(reply.Attachment)
			if err != nil {
				return err
			}
			res.Attachment = data
		}
		return writeJSON(a.stdout, res)
	}

	msg := model.NewAssistantMessage(reply.Text, reply.Attachment, a.now())
	fmt.Fprintln(a.stdout, a.message(render.Message(a.locale, msg)))
	return nil
}
