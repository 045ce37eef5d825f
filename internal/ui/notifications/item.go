package notifications

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ajorhq/ajor/internal/model"
	"github.com/ajorhq/ajor/internal/theme"
)

// Item wraps a model.Notification so it can be used in a bubbles/list.
type Item struct {
	Notification model.Notification

	// RelatedName is the resolved display name for the referenced
	// contribution or transaction, when one exists.
	RelatedName string
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string {
	return i.Notification.Title + " " + i.Notification.Message
}

// itemDelegate implements list.ItemDelegate for notification rows.
type itemDelegate struct{}

// Height returns the number of lines each item takes.
func (d itemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d itemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a two-line notification row: title line and detail line.
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	n := it.Notification
	heading := n.Title
	if heading == "" {
		heading = string(n.Type)
	}
	title := fmt.Sprintf("%s %s", n.Icon(), heading)

	detail := n.Message
	if it.RelatedName != "" {
		detail = fmt.Sprintf("%s · %s", detail, it.RelatedName)
	}
	detail = fmt.Sprintf("%s · %s", detail, relativeTime(n.CreatedAt))

	lineStyle := theme.ReadStyle
	if !n.Read {
		lineStyle = theme.UnreadStyle
		title = "● " + title
	} else {
		title = "  " + title
	}

	if index == m.Index() {
		fmt.Fprintf(w, "%s\n%s",
			theme.SelectedItemStyle.Render(title),
			theme.SelectedItemStyle.Render("  "+detail),
		)
		return
	}

	fmt.Fprintf(w, "%s\n%s", lineStyle.Render(title), theme.ReadStyle.Render("  "+detail))
}

// relativeTime formats a timestamp as a short "ago" string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
