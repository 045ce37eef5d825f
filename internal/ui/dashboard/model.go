// Package dashboard is the landing screen after login: a greeting, the
// wallet balance, group count, and the most recent notifications.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ajorhq/ajor/internal/api"
	"github.com/ajorhq/ajor/internal/model"
	"github.com/ajorhq/ajor/internal/theme"
	"github.com/ajorhq/ajor/internal/token"
	"github.com/ajorhq/ajor/internal/ui"
)

// loadedMsg carries the dashboard summary fetched from the backend.
type loadedMsg struct {
	wallet *model.Wallet
	groups []model.Group
	err    error
}

// Model is the dashboard screen.
type Model struct {
	client   *api.Client
	identity *token.Identity

	wallet  *model.Wallet
	groups  []model.Group
	recent  []model.Notification
	unread  int
	loading bool
	errText string
	width   int
	height  int
}

// New creates the dashboard for the signed-in identity.
func New(client *api.Client, identity *token.Identity, width, height int) Model {
	return Model{
		client:   client,
		identity: identity,
		loading:  true,
		width:    width,
		height:   height,
	}
}

// Init kicks off the summary fetch.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetFeed updates the recent-notification strip from an engine snapshot.
func (m *Model) SetFeed(notifs []model.Notification, unread int) {
	if len(notifs) > 3 {
		notifs = notifs[:3]
	}
	m.recent = notifs
	m.unread = unread
}

// load fetches wallet and groups concurrently-enough for a summary; a
// single command keeps the message flow simple.
func (m Model) load() tea.Cmd {
	client := m.client
	userID := m.identity.UserID
	return func() tea.Msg {
		ctx := context.Background()
		wallet, err := client.Wallet(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		groups, err := client.Groups(ctx, userID)
		if err != nil {
			return loadedMsg{wallet: wallet, err: err}
		}
		return loadedMsg{wallet: wallet, groups: groups}
	}
}

// Update handles messages for the dashboard.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			if api.IsAuth(msg.err) {
				return m, func() tea.Msg { return ui.AuthExpiredMsg{} }
			}
			m.errText = "Could not load your summary. Press R to retry."
			m.wallet = msg.wallet
			return m, nil
		}
		m.errText = ""
		m.wallet = msg.wallet
		m.groups = msg.groups
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "R" {
			m.loading = true
			m.errText = ""
			return m, m.load()
		}
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	name := m.identity.Username
	if name == "" {
		name = m.identity.Email
	}

	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render(fmt.Sprintf("Welcome back, %s", name)))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(theme.LabelStyle.Render("Loading your summary..."))
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}
	if m.errText != "" {
		b.WriteString(theme.ErrorStyle.Render(m.errText))
		b.WriteString("\n\n")
	}

	balance := "—"
	account := ""
	if m.wallet != nil {
		balance = fmt.Sprintf("₦%.2f", m.wallet.Balance)
		if m.wallet.VirtualAccountNumber != "" {
			account = fmt.Sprintf("%s · %s", m.wallet.VirtualBankName, m.wallet.VirtualAccountNumber)
		}
	}

	walletPanel := theme.PanelStyle.Render(
		theme.LabelStyle.Render("Wallet balance") + "\n" +
			theme.MoneyStyle.Render(balance) +
			renderAccountLine(account),
	)
	groupsPanel := theme.PanelStyle.Render(
		theme.LabelStyle.Render("Ajo groups") + "\n" +
			theme.TitleStyle.Render(fmt.Sprintf("%d", len(m.groups))),
	)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, walletPanel, " ", groupsPanel))
	b.WriteString("\n\n")

	b.WriteString(theme.LabelStyle.Render(fmt.Sprintf("Recent activity (%d unread)", m.unread)))
	b.WriteString("\n")
	if len(m.recent) == 0 {
		b.WriteString(theme.ReadStyle.Render("Nothing yet."))
	}
	for _, n := range m.recent {
		line := fmt.Sprintf("%s %s", n.Icon(), n.Title)
		if n.Read {
			b.WriteString(theme.ReadStyle.Render("  " + line))
		} else {
			b.WriteString(theme.UnreadStyle.Render("● " + line))
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func renderAccountLine(account string) string {
	if account == "" {
		return ""
	}
	return "\n" + theme.LabelStyle.Render(account)
}
