// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iasistem/assistant/internal/chat"
	uichat "github.com/iasistem/assistant/internal/ui/chat"
	"github.com/iasistem/assistant/internal/ui/styles"
)

// runTUI opens the full-screen chat and blocks until the user quits.
func (a *app) runTUI(ctx context.Context) error {
	store, err := a.conversationStore()
	if err != nil {
		return err
	}
	client, sess, err := a.querier()
	if err != nil {
		return err
	}
	a.warnIfLoggedOut(sess)

	bridge := uichat.NewBridge()
	session := chat.NewSession(store, client, bridge,
		chat.WithLogger(a.log),
		chat.WithClock(a.now),
	)

	m := uichat.New(uichat.Options{
		Session:  session,
		Bridge:   bridge,
		Theme:    styles.NewTheme(),
		Locale:   a.locale,
		Subtitle: displayName(sess),
		Logger:   a.log,
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(a.stdin),
		tea.WithOutput(a.stdout),
	)
	a.log.Info().Int("conversations", store.Len()).Msg("tui started")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface: %w", err)
	}
	a.log.Info().Msg("tui closed")
	return nil
}
