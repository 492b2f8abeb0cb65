// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Configuration file commands.
//
// Command: config [subcommand]
//
// Subcommands:
//   show (default)      Print the effective configuration, token redacted
//   init [--force]      Write a configuration file with the defaults
//   get <key>           Print one value, e.g. storage.backend
//   set <key> <value>   Change one value in the configuration file
//   path                Print the configuration file path

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iasistem/assistant/internal/config"
	"github.com/iasistem/assistant/internal/ui/styles"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.configShow()
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.configShow()
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default values",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.configInit(force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			v, err := a.cfg.Get(args[0])
			if err != nil {
				return &UsageError{Reason: err.Error()}
			}
			if args[0] == "api.token" && v != "" {
				v = "[REDACTED]"
			}
			fmt.Fprintln(a.stdout, v)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one value in the configuration file",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.configSet(args[0], args[1])
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			fmt.Fprintln(a.stdout, a.cfgPath)
			return nil
		},
	}

	cmd.AddCommand(show, initCmd, get, set, path)
	return cmd
}

func (a *app) configShow() error {
	fmt.Fprintln(a.stdout, styles.RenderInfo("# "+a.cfgPath))
	fmt.Fprintln(a.stdout, a.cfg.String())
	return nil
}

func (a *app) configInit(force bool) error {
	if _, err := os.Stat(a.cfgPath); err == nil && !force {
		return &UsageError{Reason: a.cfgPath + " already exists (use --force to overwrite)"}
	}
	if err := config.SaveTOML(config.Default(), a.cfgPath); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, styles.RenderSuccess("wrote "+a.cfgPath))
	return nil
}

// configSet edits the file alone, so environment overrides and flags are
// not written back.
func (a *app) configSet(key, value string) error {
	if key == "api.token" {
		return &UsageError{Reason: "the token is not stored in the configuration file; use `assistant login` or " + config.EnvToken}
	}

	cfg := config.Default()
	if _, err := os.Stat(a.cfgPath); err == nil {
		if err := config.LoadTOML(cfg, a.cfgPath); err != nil {
			return &ConfigError{Path: a.cfgPath, Err: err}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return &ConfigError{Path: a.cfgPath, Err: err}
	}

	// Defaults fill what the file left empty; the new value is validated as given.
	cfg.SetDefaults()
	if err := cfg.Set(key, value); err != nil {
		return &UsageError{Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return &UsageError{Reason: err.Error()}
	}
	if err := config.SaveTOML(cfg, a.cfgPath); err != nil {
		return err
	}
	a.log.Info().Str("key", key).Msg("config updated")
	fmt.Fprintln(a.stdout, styles.RenderSuccess(key+" = "+value))
	return nil
}
