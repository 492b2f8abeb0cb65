// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-based chat.
//
// Command: chat
// Short:   Chat line by line, without the full-screen interface
//
// Interactive Commands:
//   /help, /h        Show available commands
//   /new, /n         Start a new conversation
//   /history         List stored conversations
//   /load <n|id>     Switch to a stored conversation
//   /clear           Clear all history (asks first)
//   /quit, /q        Exit
//   Ctrl+C           Cancel the pending question, or exit at the prompt
//   Ctrl+D           Exit

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iasistem/assistant/internal/chat"
	"github.com/iasistem/assistant/internal/locale"
	"github.com/iasistem/assistant/internal/storage"
	"github.com/iasistem/assistant/internal/ui/styles"
)

// inputHistoryFile holds the REPL's line history inside the data directory.
const inputHistoryFile = "chat_history"

func newChatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat line by line, without the full-screen interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runREPL(cmd.Context())
		},
	}
}

// =============================================================================
// LINE INPUT
// =============================================================================

// lineReader reads one line of user input.
type lineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// linerInput provides line editing and persistent input history.
type linerInput struct {
	line        *liner.State
	historyFile string
	log         zerolog.Logger
}

func newLinerInput(historyFile string, log zerolog.Logger) *linerInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	in := &linerInput{line: line, historyFile: historyFile, log: log}
	if f, err := os.Open(historyFile); err == nil {
		if _, err := line.ReadHistory(f); err != nil {
			log.Debug().Err(err).Msg("input history not loaded")
		}
		f.Close()
	}
	return in
}

func (in *linerInput) ReadLine(prompt string) (string, error) {
	text, err := in.line.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", io.EOF
		}
		return "", err
	}
	if strings.TrimSpace(text) != "" {
		in.line.AppendHistory(text)
	}
	return text, nil
}

// Close saves the input history with owner-only permissions and restores the
// terminal.
func (in *linerInput) Close() error {
	if err := os.MkdirAll(filepath.Dir(in.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(in.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			if _, err := in.line.WriteHistory(f); err != nil {
				in.log.Debug().Err(err).Msg("input history not saved")
			}
			f.Close()
		}
	}
	return in.line.Close()
}

// bufferedInput reads lines from a non-terminal stream.
type bufferedInput struct {
	r *bufio.Reader
	w io.Writer
}

func (in *bufferedInput) ReadLine(prompt string) (string, error) {
	text, err := readLine(in.r, in.w, prompt)
	if errors.Is(err, ErrNoInput) {
		return "", io.EOF
	}
	return text, err
}

func (in *bufferedInput) Close() error { return nil }

// =============================================================================
// REPL
// =============================================================================

// repl drives a chat.Session from typed lines.
type repl struct {
	session *chat.Session
	view    *chat.TextView
	in      lineReader
	out     io.Writer
	locale  *locale.Locale
	log     zerolog.Logger
}

// runREPL starts the line-based chat on the app's streams.
func (a *app) runREPL(ctx context.Context) error {
	store, err := a.conversationStore()
	if err != nil {
		return err
	}
	client, sess, err := a.querier()
	if err != nil {
		return err
	}
	a.warnIfLoggedOut(sess)

	var in lineReader
	if isTerminalReader(a.stdin) && isTerminalWriter(a.stdout) {
		dir, err := a.cfg.DataDirPath()
		if err != nil {
			return err
		}
		in = newLinerInput(filepath.Join(dir, inputHistoryFile), a.log)
	} else {
		in = &bufferedInput{r: bufio.NewReader(a.stdin), w: a.stdout}
	}
	defer in.Close()

	view := a.textView()
	r := &repl{
		view:   view,
		in:     in,
		out:    a.stdout,
		locale: a.locale,
		log:    a.log.With().Str("component", "repl").Logger(),
	}
	r.session = chat.NewSession(store, client, view,
		chat.WithLogger(a.log),
		chat.WithClock(a.now),
		chat.WithConfirmer(chat.ConfirmFunc(r.confirm)),
	)
	return r.run(ctx)
}

func (r *repl) run(ctx context.Context) error {
	fmt.Fprintln(r.out, styles.RenderInfo("Type /help for commands, /quit to exit."))
	fmt.Fprintln(r.out)
	r.session.Initialize()

	for {
		input, err := r.in.ReadLine(styles.RenderInfo("> "))
		if err != nil {
			fmt.Fprintln(r.out)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "/") {
			if quit := r.command(input); quit {
				return nil
			}
			continue
		}

		qctx, stop := interruptible(ctx)
		r.session.Submit(qctx, input)
		stop()
	}
}

// command handles a slash command and reports whether to exit.
func (r *repl) command(input string) bool {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		r.printHelp()

	case "/new", "/n":
		r.session.StartNewConversation()

	case "/history":
		printHistory(r.out, r.view.History(), r.locale)

	case "/load":
		if arg == "" {
			fmt.Fprintln(r.out, styles.RenderWarning("usage: /load <n|id>"))
			return false
		}
		conv, err := r.session.Store().Resolve(arg)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				fmt.Fprintln(r.out, styles.RenderWarning("no conversation "+arg+"; see /history"))
				return false
			}
			fmt.Fprintln(r.out, styles.RenderError(err.Error()))
			return false
		}
		r.session.LoadConversation(conv.ID)

	case "/clear":
		if r.session.ClearAllHistory() {
			fmt.Fprintln(r.out, styles.RenderSuccess("history cleared"))
		}

	default:
		fmt.Fprintln(r.out, styles.RenderWarning("unknown command "+name+"; type /help"))
	}
	return false
}

// confirm asks a yes/no question on the input line.
func (r *repl) confirm(prompt string) bool {
	answer, err := r.in.ReadLine(prompt + " (" + r.locale.ConfirmHint + ") ")
	if err != nil {
		return false
	}
	return isYes(answer)
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.out, `Commands:
  /new, /n        start a new conversation
  /history        list stored conversations
  /load <n|id>    switch to a stored conversation
  /clear          clear all history
  /quit, /q       exit`)
}
