package groups

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ajorhq/ajor/internal/model"
	"github.com/ajorhq/ajor/internal/theme"
)

// Item wraps a model.Group for display in a bubbles/list.
type Item struct {
	Group model.Group
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Group.Name }

type itemDelegate struct{}

func (d itemDelegate) Height() int  { return 2 }
func (d itemDelegate) Spacing() int { return 0 }

func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render draws a two-line group row: name with cycle, then the per-cycle
// amount and member count.
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	g := it.Group
	title := fmt.Sprintf("%s (%s)", g.Name, g.Cycle)
	detail := fmt.Sprintf("₦%.2f per cycle · %d members", g.Amount, g.MemberCount())
	if g.Type == model.TypeDailySavings {
		detail = fmt.Sprintf("₦%.2f per day · personal savings", g.Amount)
	}

	if index == m.Index() {
		fmt.Fprintf(w, "%s\n%s",
			theme.SelectedItemStyle.Render(title),
			theme.SelectedItemStyle.Render("  "+detail),
		)
		return
	}
	fmt.Fprintf(w, "%s\n%s", theme.UnreadStyle.Render(title), theme.ReadStyle.Render("  "+detail))
}
