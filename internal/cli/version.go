// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(a.stdout, "assistant %s\n", versionString(a.info))
			if a.info.Commit != "" {
				fmt.Fprintf(a.stdout, "  commit: %s\n", a.info.Commit)
			}
			if a.info.Date != "" {
				fmt.Fprintf(a.stdout, "  built:  %s\n", a.info.Date)
			}
			fmt.Fprintf(a.stdout, "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
