// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth.go - Backend session commands.
//
// Commands:
//   login [-u user] [--password-stdin]   Sign in and store the token
//   logout                               Forget the stored token
//   whoami                               Show the signed-in user

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iasistem/assistant/internal/auth"
	"github.com/iasistem/assistant/internal/config"
	"github.com/iasistem/assistant/internal/ui/styles"
)

func newLoginCommand(a *app) *cobra.Command {
	var username string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the backend",
		Long: `Sign in with your IA Sistem user and store the session token in the data
directory. The password is read without echo, or from stdin with
--password-stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.authSession()
			if err != nil {
				return err
			}

			in := bufio.NewReader(a.stdin)
			if username == "" {
				if username, err = readLine(in, a.stdout, "User: "); err != nil {
					return fmt.Errorf("read user: %w", err)
				}
			}

			var password string
			if passwordStdin {
				password, err = in.ReadString('\n')
				if err != nil && password == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(password, "\r\n")
			} else {
				if password, err = readPassword(a.stdin, in, a.stdout, "Password: "); err != nil {
					return err
				}
			}

			ctx, stop := interruptible(cmd.Context())
			defer stop()
			user, err := sess.Login(ctx, username, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			name := user.Name
			if name == "" {
				name = user.Username
			}
			fmt.Fprintln(a.stdout, styles.RenderSuccess("signed in as "+name))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "user name")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			sess, err := a.authSession()
			if err != nil {
				return err
			}
			if err := sess.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, styles.RenderSuccess("signed out"))
			return nil
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and when the session expires",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			sess, err := a.authSession()
			if err != nil {
				return err
			}
			if _, err := sess.Token(); err != nil {
				return err
			}

			user, err := sess.User()
			switch {
			case err == nil:
				fmt.Fprintf(a.stdout, "%s (%s)\n", user.Name, user.Username)
				if user.Email != "" {
					fmt.Fprintln(a.stdout, user.Email)
				}
			case errors.Is(err, auth.ErrNotLoggedIn):
				// A token from ASSISTANT_TOKEN comes without a stored profile.
				fmt.Fprintln(a.stdout, "using the token from "+config.EnvToken)
			default:
				return err
			}

			if exp, err := sess.ExpiresAt(); err == nil {
				fmt.Fprintf(a.stdout, "expires %s (in %s)\n",
					exp.Local().Format("2006-01-02 15:04"),
					exp.Sub(a.now()).Round(time.Minute))
			}
			return nil
		},
	}
}
