// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history.go - Inspect and clear stored conversations.
//
// Command: history [subcommand]
//
// Subcommands:
//   list (default)       List conversations, most recent first
//   show <n|id>          Print one conversation
//   search <text>        List conversations containing text
//   clear                Delete every conversation (asks first)

package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/iasistem/assistant/internal/locale"
	"github.com/iasistem/assistant/internal/render"
	"github.com/iasistem/assistant/internal/storage"
	"github.com/iasistem/assistant/internal/ui/styles"
	"github.com/iasistem/assistant/internal/util"
)

// historyPreviewWidth bounds the preview column of history tables.
const historyPreviewWidth = 50

func newHistoryCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, show, search or clear stored conversations",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.historyList(asJSON)
		},
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON")

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List conversations, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.historyList(asJSON)
		},
	}

	show := &cobra.Command{
		Use:   "show <n|id>",
		Short: "Print one conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.historyShow(args[0], asJSON)
		},
	}

	search := &cobra.Command{
		Use:   "search <text>",
		Short: "List conversations with a message containing text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.historySearch(strings.Join(args, " "), asJSON)
		},
	}

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored conversation",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.historyClear(yes)
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(list, show, search, clearCmd)
	return cmd
}

// historyEntry is the JSON form of a history row.
type historyEntry struct {
	Index    int    `json:"index"`
	ID       string `json:"id"`
	Preview  string `json:"preview"`
	Time     string `json:"time"`
	Messages int    `json:"messages"`
	Active   bool   `json:"active"`
}

func (a *app) historyList(asJSON bool) error {
	store, err := a.conversationStore()
	if err != nil {
		return err
	}
	items := render.History(store, store.Conversations(), store.ActiveID())
	if asJSON {
		return writeJSON(a.stdout, historyEntries(items))
	}
	printHistory(a.stdout, items, a.locale)
	return nil
}

func (a *app) historySearch(query string, asJSON bool) error {
	store, err := a.conversationStore()
	if err != nil {
		return err
	}
	matches := store.Search(query)
	items := render.History(store, matches, store.ActiveID())

	// Index keeps pointing at the position in the full list so it can be
	// passed to show, export and /load.
	positions := make(map[string]int, store.Len())
	for i, c := range store.Conversations() {
		positions[c.ID] = i + 1
	}
	entries := historyEntries(items)
	for i := range entries {
		entries[i].Index = positions[entries[i].ID]
	}

	if asJSON {
		return writeJSON(a.stdout, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.stdout, styles.RenderInfo(fmt.Sprintf("no conversation mentions %q", query)))
		return nil
	}
	printEntries(a.stdout, entries)
	return nil
}

func (a *app) historyShow(ref string, asJSON bool) error {
	store, err := a.conversationStore()
	if err != nil {
		return err
	}
	conv, err := store.Resolve(ref)
	if err != nil {
		return fmt.Errorf("conversation %s: %w", ref, err)
	}
	if asJSON {
		return writeJSON(a.stdout, conv)
	}

	fmt.Fprintln(a.stdout, styles.RenderInfo(fmt.Sprintf("%s · %s · %d",
		storage.PreviewText(conv, a.locale.NewConversation),
		store.RelativeTime(conv),
		conv.ExchangeCount(),
	)))
	fmt.Fprintln(a.stdout)
	for _, v := range render.Messages(a.locale, conv) {
		fmt.Fprintln(a.stdout, a.message(v))
		fmt.Fprintln(a.stdout)
	}
	return nil
}

func (a *app) historyClear(yes bool) error {
	store, err := a.conversationStore()
	if err != nil {
		return err
	}
	if store.Len() == 0 {
		fmt.Fprintln(a.stdout, a.locale.HistoryEmpty)
		return nil
	}
	if !yes {
		answer, err := readLine(bufio.NewReader(a.stdin), a.stdout,
			a.locale.ConfirmClear+" ("+a.locale.ConfirmHint+") ")
		if err != nil || !isYes(answer) {
			fmt.Fprintln(a.stdout, "cancelled")
			return nil
		}
	}
	n := store.Len()
	store.Clear()
	a.log.Info().Int("conversations", n).Msg("history cleared")
	fmt.Fprintln(a.stdout, styles.RenderSuccess(fmt.Sprintf("%d conversations removed", n)))
	return nil
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func historyEntries(items []render.HistoryItem) []historyEntry {
	entries := make([]historyEntry, len(items))
	for i, item := range items {
		entries[i] = historyEntry{
			Index:    i + 1,
			ID:       item.ID,
			Preview:  item.Preview,
			Time:     item.Time,
			Messages: item.Count,
			Active:   item.Active,
		}
	}
	return entries
}

// printHistory writes items as a numbered table, or the empty-state text.
func printHistory(w io.Writer, items []render.HistoryItem, l *locale.Locale) {
	if len(items) == 0 {
		fmt.Fprintln(w, l.HistoryEmpty)
		fmt.Fprintln(w, l.HistoryEmptyHint)
		return
	}
	printEntries(w, historyEntries(items))
}

// printEntries draws entries as a borderless table; the active
// conversation is marked with "*".
func printEntries(w io.Writer, entries []historyEntry) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		StyleFunc(func(_, _ int) lipgloss.Style {
			return lipgloss.NewStyle().PaddingRight(2)
		}).
		Headers("#", "CONVERSATION", "WHEN", "MSGS")

	for _, e := range entries {
		index := strconv.Itoa(e.Index)
		if e.Active {
			index = "*" + index
		}
		preview := util.TruncateWidth(util.SingleLine(e.Preview), historyPreviewWidth)
		t.Row(index, preview, e.Time, strconv.Itoa(e.Messages))
	}
	fmt.Fprintln(w, t.Render())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var _ render.HistorySource = (*storage.ConversationStore)(nil)
