// Package notifications is the notification feed screen: the full list
// with read/unread toggling, mark-all-read, delete, and manual refresh.
package notifications

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ajorhq/ajor/internal/api"
	"github.com/ajorhq/ajor/internal/keys"
	"github.com/ajorhq/ajor/internal/model"
	"github.com/ajorhq/ajor/internal/notify"
	"github.com/ajorhq/ajor/internal/theme"
)

// NamesResolvedMsg carries related-entity display names for the current
// snapshot.
type NamesResolvedMsg struct {
	Names map[string]string
}

// mutationDoneMsg is sent after a mark/delete call settled; the refreshed
// feed arrives separately through the engine.
type mutationDoneMsg struct{}

// Model is the notification feed screen.
type Model struct {
	list     list.Model
	engine   *notify.Engine
	resolver *notify.Resolver
	client   *api.Client
	keys     *keys.KeyMap
	names    map[string]string
	errText  string
	width    int
	height   int
}

// New creates the notification screen.
func New(engine *notify.Engine, resolver *notify.Resolver, client *api.Client, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, itemDelegate{}, width, height-2)
	l.Title = "Notifications"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:     l,
		engine:   engine,
		resolver: resolver,
		client:   client,
		keys:     k,
		names:    make(map[string]string),
		width:    width,
		height:   height,
	}
}

// Init requests an initial refresh so the screen is current when opened.
func (m Model) Init() tea.Cmd {
	m.engine.Refresh(false)
	return nil
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

// SetFeed replaces the displayed items from an engine snapshot. The root
// model calls this for every RefreshedMsg so the screen stays in sync even
// while another tab is active.
func (m *Model) SetFeed(notifs []model.Notification, refreshErr error, manual bool) tea.Cmd {
	if refreshErr != nil {
		// Background failures stay silent; a manual refresh gets a
		// transient error line.
		if manual {
			m.errText = "Refresh failed. Check your connection and try again."
		}
		return nil
	}

	m.errText = ""
	items := make([]list.Item, len(notifs))
	for i, n := range notifs {
		items[i] = Item{Notification: n, RelatedName: m.relatedName(n)}
	}
	cmd := m.list.SetItems(items)

	return tea.Batch(cmd, m.resolveNames(notifs))
}

func (m *Model) relatedName(n model.Notification) string {
	if n.ContributionID != "" {
		return m.names[n.ContributionID]
	}
	if n.TransactionID != "" {
		return m.names[n.TransactionID]
	}
	return ""
}

// resolveNames looks up display names for referenced entities off the UI
// thread.
func (m Model) resolveNames(notifs []model.Notification) tea.Cmd {
	resolver := m.resolver
	return func() tea.Msg {
		return NamesResolvedMsg{Names: resolver.Resolve(context.Background(), notifs)}
	}
}

// Update handles messages for the notification screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case NamesResolvedMsg:
		m.names = msg.Names
		items := m.list.Items()
		for i, item := range items {
			if it, ok := item.(Item); ok {
				it.RelatedName = m.relatedName(it.Notification)
				items[i] = it
			}
		}
		return m, m.list.SetItems(items)

	case mutationDoneMsg:
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Refresh):
			m.engine.Refresh(true)
			return m, nil

		case key.Matches(msg, m.keys.ToggleRead):
			if it, ok := m.list.SelectedItem().(Item); ok {
				return m, m.toggleRead(it.Notification)
			}
			return m, nil

		case key.Matches(msg, m.keys.MarkAllRead):
			return m, m.markAllRead()

		case key.Matches(msg, m.keys.Delete):
			if it, ok := m.list.SelectedItem().(Item); ok {
				return m, m.deleteNotification(it.Notification.ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if it, ok := m.list.SelectedItem().(Item); ok && !it.Notification.Read {
				return m, m.toggleRead(it.Notification)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// toggleRead flips the read flag via the backend; the engine refreshes
// afterwards so the list reflects backend truth, not a local guess.
func (m Model) toggleRead(n model.Notification) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		ctx := context.Background()
		if n.Read {
			engine.MarkUnread(ctx, n.ID)
		} else {
			engine.MarkRead(ctx, n.ID)
		}
		return mutationDoneMsg{}
	}
}

func (m Model) markAllRead() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		engine.MarkAllRead(context.Background())
		return mutationDoneMsg{}
	}
}

func (m Model) deleteNotification(id string) tea.Cmd {
	client := m.client
	engine := m.engine
	return func() tea.Msg {
		if err := client.DeleteNotification(context.Background(), id); err == nil {
			engine.Refresh(false)
		}
		return mutationDoneMsg{}
	}
}

// View renders the notification screen.
func (m Model) View() string {
	out := m.list.View()
	if m.errText != "" {
		out += "\n" + theme.ErrorStyle.Render(m.errText)
	}
	return out
}
