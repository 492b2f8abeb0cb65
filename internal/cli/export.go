// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export.go - Write a stored conversation to a file.
//
// Command: export [n|id]
//
// Examples:
//   assistant export                      Active conversation as HTML
//   assistant export 2 --format markdown  Second conversation in the list
//   assistant export --format json -o ~/Documents

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iasistem/assistant/internal/export"
	"github.com/iasistem/assistant/internal/model"
	"github.com/iasistem/assistant/internal/storage"
	"github.com/iasistem/assistant/internal/ui/styles"
)

func newExportCommand(a *app) *cobra.Command {
	opts := export.DefaultOptions()
	format := "html"
	var stdout bool

	cmd := &cobra.Command{
		Use:   "export [n|id]",
		Short: "Export a conversation as HTML, Markdown or JSON",
		Long: `Export a stored conversation. Without an argument the active conversation
is exported. The argument is a conversation id or its position in
"history list".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			return a.export(ref, format, stdout, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", format, "html, markdown or json")
	f.StringVarP(&opts.OutputDir, "output", "o", opts.OutputDir, "output directory")
	f.BoolVar(&opts.OpenAfterExport, "open", false, "open the file after writing it")
	f.StringVar(&opts.Theme, "theme", opts.Theme, "HTML theme: light or dark")
	f.BoolVar(&opts.IncludeMetadata, "metadata", opts.IncludeMetadata, "include the creation date and message count")
	f.BoolVar(&opts.IncludeTimestamps, "timestamps", opts.IncludeTimestamps, "include message times")
	f.BoolVar(&stdout, "stdout", false, "write to stdout instead of a file")
	return cmd
}

func (a *app) export(ref, format string, toStdout bool, opts *export.Options) error {
	store, err := a.conversationStore()
	if err != nil {
		return err
	}

	var conv *model.Conversation
	if ref == "" {
		conv = store.Active()
		if conv == nil {
			return fmt.Errorf("no active conversation: %w", storage.ErrNotFound)
		}
	} else {
		conv, err = store.Resolve(ref)
		if err != nil {
			return fmt.Errorf("conversation %s: %w", ref, err)
		}
	}

	opts.Locale = a.locale
	opts.Now = a.now

	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		return err
	}

	if toStdout {
		data, err := exporter.Export(conv)
		if err != nil {
			return err
		}
		_, err = a.stdout.Write(data)
		return err
	}

	path, err := export.ExportToFile(conv, exporter, opts)
	if err != nil {
		return err
	}
	a.log.Info().Str("conversation", conv.ID).Str("format", format).Str("path", path).Msg("exported")
	fmt.Fprintln(a.stdout, styles.RenderSuccess("exported to "+path))
	return nil
}
