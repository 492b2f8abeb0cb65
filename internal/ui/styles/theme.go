// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	renderer *lipgloss.Renderer

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	UserAuthor      lipgloss.Style
	AssistantAuthor lipgloss.Style
	MessageTime     lipgloss.Style

	// ==========================================================================
	// PREVIEW BLOCK STYLES
	// ==========================================================================

	PreviewBox      lipgloss.Style
	PreviewTitle    lipgloss.Style
	PreviewLabel    lipgloss.Style
	PreviewValue    lipgloss.Style
	PreviewListItem lipgloss.Style

	// ==========================================================================
	// HISTORY SIDEBAR STYLES
	// ==========================================================================

	Sidebar             lipgloss.Style
	SidebarFocused      lipgloss.Style
	SessionItem         lipgloss.Style
	SessionItemSelected lipgloss.Style
	SessionActive       lipgloss.Style
	SessionMeta         lipgloss.Style
	HistoryEmpty        lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	Spinner        lipgloss.Style
	ThinkingText   lipgloss.Style
	StatusBar      lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style

	// ==========================================================================
	// CONFIRMATION OVERLAY STYLES
	// ==========================================================================

	ConfirmBox   lipgloss.Style
	ConfirmTitle lipgloss.Style
	ConfirmHint  lipgloss.Style

	ErrorStyle lipgloss.Style
}

// NewTheme creates a theme for the current terminal.
func NewTheme() *Theme {
	return NewThemeWithProfile(termenv.ColorProfile(), termenv.HasDarkBackground())
}

// NewThemeWithProfile creates a theme for an explicit color profile, e.g.
// termenv.Ascii for plain output and tests.
func NewThemeWithProfile(profile termenv.Profile, isDark bool) *Theme {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)
	r.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: profile,
		renderer:     r,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles. Every style is bound to
// the theme's renderer so the color profile applies.
func (t *Theme) initStyles() {
	// Header
	t.Header = t.renderer.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = t.renderer.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = t.renderer.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Messages
	t.UserBubble = t.renderer.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1).
		MarginLeft(4)

	t.AssistantBubble = t.renderer.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1).
		MarginRight(4)

	t.UserAuthor = t.renderer.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.AssistantAuthor = t.renderer.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.MessageTime = t.renderer.NewStyle().
		Foreground(TextMuted)

	// Preview blocks
	t.PreviewBox = t.renderer.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(PreviewBorder).
		PaddingLeft(1).
		MarginTop(1)

	t.PreviewTitle = t.renderer.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.PreviewLabel = t.renderer.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.PreviewValue = t.renderer.NewStyle().
		Foreground(TextPrimary)

	t.PreviewListItem = t.renderer.NewStyle().
		Foreground(Amber)

	// History sidebar
	t.Sidebar = t.renderer.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SidebarFocused = t.Sidebar.
		BorderForeground(Cyan)

	t.SessionItem = t.renderer.NewStyle().
		Foreground(TextPrimary)

	t.SessionItemSelected = t.renderer.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Bold(true)

	t.SessionActive = t.renderer.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.SessionMeta = t.renderer.NewStyle().
		Foreground(TextMuted)

	t.HistoryEmpty = t.renderer.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Input and status
	t.InputContainer = t.renderer.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = t.renderer.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.Spinner = t.renderer.NewStyle().
		Foreground(Purple)

	t.ThinkingText = t.renderer.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.StatusBar = t.renderer.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = t.renderer.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = t.renderer.NewStyle().
		Foreground(TextMuted)

	// Confirmation overlay
	t.ConfirmBox = t.renderer.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Padding(1, 2)

	t.ConfirmTitle = t.renderer.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ConfirmHint = t.renderer.NewStyle().
		Foreground(TextMuted)

	t.ErrorStyle = t.renderer.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// SidebarWidth returns the history column width, or 0 when the terminal is
// too narrow to show it next to the messages.
func (t *Theme) SidebarWidth() int {
	switch t.GetLayoutMode() {
	case LayoutNarrow:
		return 0
	case LayoutMedium:
		return 28
	default:
		return 36
	}
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)

// =============================================================================
// SPINNER
// =============================================================================

// LoadingSpinner is the ASCII spinner shown while a query is pending.
var LoadingSpinner = spinner.Spinner{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    time.Second / 10,
}
