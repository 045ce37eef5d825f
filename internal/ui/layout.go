// Package ui holds layout helpers and messages shared by every screen.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ajorhq/ajor/internal/theme"
)

// AuthExpiredMsg is emitted by any screen whose backend call came back 401.
// The root model reacts by tearing the session down and showing the login
// screen; individual screens never handle it themselves.
type AuthExpiredMsg struct{}

// Layout manages the terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	TabBarHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		TabBarHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the active screen.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.TabBarHeight - l.StatusBarHeight
}

// RenderHeader renders the top bar with the app title and sync status.
func (l Layout) RenderHeader(title, syncStatus string) string {
	titleRendered := theme.HeaderStyle.Render(title)
	statusRendered := theme.HeaderStyle.Align(lipgloss.Right).Render(syncStatus)

	gap := l.Width - lipgloss.Width(titleRendered) - lipgloss.Width(statusRendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.HeaderStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.HeaderStyle.GetBackground()).
			Render(""),
	)

	return titleRendered + filler + statusRendered
}

// RenderTabs renders the navigation tab bar. The notifications tab carries
// the unread badge when the count is non-zero.
func (l Layout) RenderTabs(labels []string, active int, unread int, notifTab int) string {
	var b strings.Builder
	for i, label := range labels {
		if i == notifTab && unread > 0 {
			label = fmt.Sprintf("%s %s", label, theme.BadgeStyle.Render(fmt.Sprintf("%d", unread)))
		}
		if i == active {
			b.WriteString(theme.ActiveTabStyle.Render(label))
		} else {
			b.WriteString(theme.TabStyle.Render(label))
		}
	}
	return b.String()
}

// RenderStatusBar renders the bottom bar with contextual help text.
func (l Layout) RenderStatusBar(help string) string {
	return theme.StatusBarStyle.Width(l.Width).Render(help)
}
