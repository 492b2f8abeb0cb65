// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iasistem/assistant/internal/api"
	"github.com/iasistem/assistant/internal/assistant"
	"github.com/iasistem/assistant/internal/auth"
	"github.com/iasistem/assistant/internal/chat"
	"github.com/iasistem/assistant/internal/config"
	"github.com/iasistem/assistant/internal/locale"
	"github.com/iasistem/assistant/internal/logging"
	"github.com/iasistem/assistant/internal/render"
	"github.com/iasistem/assistant/internal/storage"
	"github.com/iasistem/assistant/internal/ui/styles"
)

// BuildInfo is stamped into the binary by main.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
	plain      bool
	apiURL     string
	storage    string
	dataDir    string
	locale     string
}

// app carries what the commands share. setup fills it once per invocation;
// the backend is opened on first use so config commands never touch it.
type app struct {
	info  BuildInfo
	flags globalFlags

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg       *config.Config
	cfgPath   string
	log       zerolog.Logger
	logCloser io.Closer
	locale    *locale.Locale
	backend   storage.Backend

	// now replaces time.Now in tests.
	now func() time.Time
}

func newApp(info BuildInfo) *app {
	return &app{
		info: info,
		log:  zerolog.Nop(),
		now:  time.Now,
	}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// setup loads configuration, applies flag overrides and opens the logger.
func (a *app) setup(cmd *cobra.Command) error {
	a.stdin = cmd.InOrStdin()
	a.stdout = cmd.OutOrStdout()
	a.stderr = cmd.ErrOrStderr()

	path := a.flags.configPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return &ConfigError{Err: err}
		}
		path = p
	}
	a.cfgPath = path

	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	a.applyFlags(cmd, cfg)
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	a.cfg = cfg
	a.locale = locale.Match(cfg.UI.Locale)

	logFile, err := cfg.LogFilePath()
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	level := cfg.Log.Level
	if a.flags.verbose {
		level = "debug"
	}
	log, closer, err := logging.New(logging.Options{
		Level:   level,
		File:    logFile,
		Console: a.flags.verbose,
		Stderr:  a.stderr,
	})
	if err != nil {
		// Logging is diagnostic only; commands still run without it.
		fmt.Fprintln(a.stderr, styles.RenderWarning("logging disabled: "+err.Error()))
	}
	a.log = log
	a.logCloser = closer

	a.log.Debug().
		Str("command", cmd.CommandPath()).
		Str("config", path).
		Str("backend", cfg.Storage.Backend).
		Str("api", cfg.API.BaseURL).
		Msg("starting")
	return nil
}

func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.API.BaseURL = a.flags.apiURL
	}
	if flags.Changed("storage") {
		cfg.Storage.Backend = a.flags.storage
	}
	if flags.Changed("data-dir") {
		cfg.Storage.DataDir = a.flags.dataDir
	}
	if flags.Changed("locale") {
		cfg.UI.Locale = a.flags.locale
	}
	if a.flags.plain {
		cfg.UI.Plain = true
	}
}

// teardown closes what setup and the command opened. It is safe to call
// more than once.
func (a *app) teardown() error {
	var errs []error
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
		a.backend = nil
	}
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log: %w", err))
		}
		a.logCloser = nil
	}
	return errors.Join(errs...)
}

// =============================================================================
// COLLABORATORS
// =============================================================================

// storageBackend opens the configured backend on first use.
func (a *app) storageBackend() (storage.Backend, error) {
	if a.backend != nil {
		return a.backend, nil
	}
	dir, err := a.cfg.DataDirPath()
	if err != nil {
		return nil, err
	}
	b, err := storage.OpenBackend(a.cfg.Storage.Backend, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	a.log.Debug().Str("backend", a.cfg.Storage.Backend).Str("dir", dir).Msg("storage opened")
	a.backend = b
	return b, nil
}

// conversationStore loads the stored conversations.
func (a *app) conversationStore() (*storage.ConversationStore, error) {
	b, err := a.storageBackend()
	if err != nil {
		return nil, err
	}
	return storage.NewConversationStore(b,
		storage.WithLogger(a.log),
		storage.WithClock(a.now),
		storage.WithMaxConversations(a.cfg.Storage.MaxConversations),
		storage.WithLocale(a.locale),
	), nil
}

// apiClient builds a backend client. tokens may be nil for unauthenticated
// calls.
func (a *app) apiClient(tokens api.TokenSource) *api.Client {
	opts := []api.Option{
		api.WithTimeout(a.cfg.Timeout()),
		api.WithRateLimit(a.cfg.API.RequestsPerMinute),
		api.WithLogger(a.log),
	}
	if tokens != nil {
		opts = append(opts, api.WithTokenSource(tokens))
	}
	return api.NewClient(a.cfg.API.BaseURL, opts...)
}

// authSession returns the credential store. ASSISTANT_TOKEN, when set,
// takes precedence over the stored login.
func (a *app) authSession() (*auth.Session, error) {
	b, err := a.storageBackend()
	if err != nil {
		return nil, err
	}
	return auth.NewSession(b, a.apiClient(nil),
		auth.WithStaticToken(a.cfg.API.Token),
		auth.WithClock(a.now),
		auth.WithLogger(a.log),
	), nil
}

// querier builds the authenticated AI query client.
func (a *app) querier() (*assistant.Client, *auth.Session, error) {
	sess, err := a.authSession()
	if err != nil {
		return nil, nil, err
	}
	return assistant.NewClient(a.apiClient(sess), a.log), sess, nil
}

// renderer returns a terminal renderer that only colours real terminals.
func (a *app) renderer() *render.TerminalRenderer {
	if isTerminalWriter(a.stdout) && ColorsEnabled() {
		return render.NewTerminalRenderer(styles.NewTheme())
	}
	return render.NewTerminalRenderer(styles.NewThemeWithProfile(termenv.Ascii, true))
}

// width is the wrapping width for plain output.
func (a *app) width() int {
	if f, ok := a.stdout.(*os.File); ok {
		return TerminalWidth(f)
	}
	return DefaultTerminalWidth
}

// message renders one message: a bubble on a terminal, plain text for
// pipes and files.
func (a *app) message(v render.MessageView) string {
	if !isTerminalWriter(a.stdout) {
		return render.PlainMessage(v)
	}
	return a.renderer().Message(v, a.width())
}

// textView is the REPL view matching message.
func (a *app) textView() *chat.TextView {
	if !isTerminalWriter(a.stdout) {
		return chat.NewPlainTextView(a.stdout)
	}
	return chat.NewTextView(a.stdout, a.renderer(), a.width())
}

// displayName is the signed-in user's name, or "".
func displayName(sess *auth.Session) string {
	u, err := sess.User()
	if err != nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// warnIfLoggedOut prints a hint when queries are bound to fail.
func (a *app) warnIfLoggedOut(sess *auth.Session) {
	if _, err := sess.Token(); err != nil {
		a.log.Warn().Err(err).Msg("no usable token")
		fmt.Fprintln(a.stderr, styles.RenderWarning(err.Error()+": run `assistant login`"))
	}
}

// interruptible returns a context cancelled by Ctrl+C, independent of the
// parent's cancellation so one aborted query does not end the command.
func interruptible(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.WithoutCancel(parent), os.Interrupt)
}
