// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iasistem/assistant/internal/ui/styles"
)

// NewRootCommand builds the command tree. Running it without a subcommand
// opens the chat.
func NewRootCommand(info BuildInfo) *cobra.Command {
	return newRootCommand(newApp(info))
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "assistant",
		Short: "Terminal client for the IA Sistem query assistant",
		Long: `Ask the IA Sistem backend about service orders, customers, finances and
inventory in natural language. Conversations are kept locally.

Without a command the full-screen chat opens; use --plain (or pipe the
output) for the line-based chat.`,
		Version:       versionString(a.info),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.UI.Plain || !isTerminalWriter(a.stdout) || !isTerminalReader(a.stdin) {
				return a.runREPL(cmd.Context())
			}
			return a.runTUI(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log to stderr at debug level")
	pf.StringVar(&a.flags.configPath, "config", "", "configuration file (default ~/.iasistem/config.toml)")
	pf.BoolVar(&a.flags.plain, "plain", false, "use the line-based chat instead of the full-screen one")
	pf.StringVar(&a.flags.apiURL, "api-url", "", "backend root URL")
	pf.StringVar(&a.flags.storage, "storage", "", "storage backend: file, sqlite or memory")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "directory for conversations and credentials")
	pf.StringVar(&a.flags.locale, "locale", "", "interface language: pt-BR or en")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Reason: err.Error()}
	})

	root.AddCommand(
		newChatCommand(a),
		newAskCommand(a),
		newHistoryCommand(a),
		newExportCommand(a),
		newLoginCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newConfigCommand(a),
		newVersionCommand(a),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(info BuildInfo) int {
	a := newApp(info)
	root := newRootCommand(a)
	err := root.Execute()
	// PersistentPostRunE is skipped when the command fails.
	if terr := a.teardown(); err == nil {
		err = terr
	}
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintln(os.Stderr, styles.RenderError("Error: "+err.Error()))
	if hint := Hint(err); hint != "" {
		fmt.Fprintln(os.Stderr, styles.RenderInfo(hint))
	}
	return ExitCode(err)
}

func versionString(info BuildInfo) string {
	v := info.Version
	if v == "" {
		v = "dev"
	}
	return v
}
