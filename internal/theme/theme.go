package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorTeal    = lipgloss.AdaptiveColor{Dark: "#2DD4BF", Light: "#0F766E"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#E879F9", Light: "#A21CAF"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorTeal).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// TabStyle renders an inactive navigation tab.
var TabStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Padding(0, 1)

// ActiveTabStyle renders the selected navigation tab.
var ActiveTabStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorTeal).
	Underline(true).
	Padding(0, 1)

// BadgeStyle renders the unread-count badge next to the notifications tab.
var BadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorRed).
	Padding(0, 1)

// PanelStyle wraps a screen's main content area.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// TitleStyle is used for section titles inside a screen.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorTeal)

// LabelStyle is used for field labels in detail views.
var LabelStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// MoneyStyle renders balances and amounts.
var MoneyStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGreen)

// UnreadStyle highlights unread notifications in lists.
var UnreadStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// ReadStyle dims notifications that have already been read.
var ReadStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// SelectedItemStyle highlights the focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorTeal).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorTeal)

// ErrorStyle renders transient error lines on a screen.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// HelpStyle is used for keyboard shortcut hints.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray)
