// Package groupdetail shows a single Ajo group: members, collection
// progress, recent transactions, and the contribute / payout actions.
package groupdetail

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ajorhq/ajor/internal/api"
	"github.com/ajorhq/ajor/internal/keys"
	"github.com/ajorhq/ajor/internal/model"
	"github.com/ajorhq/ajor/internal/theme"
	"github.com/ajorhq/ajor/internal/ui"
)

// ClosedMsg asks the root model to return to the groups list.
type ClosedMsg struct{}

type loadedMsg struct {
	group *model.Group
	txs   []model.Transaction
	err   error
}

type actionDoneMsg struct {
	err error
}

type mode int

const (
	modeView mode = iota
	modeContribute
	modePayout
)

// Model is the group detail screen.
type Model struct {
	client  *api.Client
	keys    *keys.KeyMap
	groupID string
	userID  string

	group   *model.Group
	txs     []model.Transaction
	form    *huh.Form
	payee   string
	mode    mode
	loading bool
	info    string
	errText string
	width   int
	height  int
}

// New creates the detail screen for a group id.
func New(client *api.Client, k *keys.KeyMap, groupID, userID string, width, height int) Model {
	return Model{
		client:  client,
		keys:    k,
		groupID: groupID,
		userID:  userID,
		loading: true,
		width:   width,
		height:  height,
	}
}

// Init fetches the group and its transactions.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) load() tea.Cmd {
	client := m.client
	id := m.groupID
	return func() tea.Msg {
		ctx := context.Background()
		group, err := client.Group(ctx, id)
		if err != nil {
			return loadedMsg{err: err}
		}
		txs, err := client.GroupTransactions(ctx, id)
		if err != nil {
			return loadedMsg{group: group, err: err}
		}
		return loadedMsg{group: group, txs: txs}
	}
}

func (m *Model) startContribute() tea.Cmd {
	if m.group == nil {
		return nil
	}
	m.mode = modeContribute
	m.errText = ""
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Contribute ₦%.2f to %s?", m.group.Amount, m.group.Name)).
			Affirmative("Contribute").
			Negative("Cancel"),
	)).WithShowHelp(false)
	return m.form.Init()
}

// startPayout opens the member picker. Only the group admin sees it.
func (m *Model) startPayout() tea.Cmd {
	if m.group == nil || m.group.GroupAdmin != m.userID {
		return nil
	}
	opts := make([]huh.Option[string], 0, len(m.group.YetToCollect))
	for _, memberID := range m.group.YetToCollect {
		name := m.group.MemberUsernames[memberID]
		if name == "" {
			name = memberID
		}
		opts = append(opts, huh.NewOption(name, memberID))
	}
	if len(opts) == 0 {
		m.info = "Everyone has collected this round."
		return nil
	}

	m.mode = modePayout
	m.errText = ""
	m.payee = ""
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Pay out to").Options(opts...).Value(&m.payee),
	)).WithShowHelp(false)
	return m.form.Init()
}

// Update handles messages for the group detail screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			if api.IsAuth(msg.err) {
				return m, func() tea.Msg { return ui.AuthExpiredMsg{} }
			}
			m.errText = "Could not load the group. Press R to retry."
			m.group = msg.group
			return m, nil
		}
		m.errText = ""
		m.group = msg.group
		m.txs = msg.txs
		return m, nil

	case actionDoneMsg:
		m.mode = modeView
		if msg.err != nil {
			if api.IsAuth(msg.err) {
				return m, func() tea.Msg { return ui.AuthExpiredMsg{} }
			}
			m.errText = msg.err.Error()
			return m, nil
		}
		m.info = "Done."
		m.loading = true
		return m, m.load()
	}

	if m.mode != modeView {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return ClosedMsg{} }
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			m.info = ""
			m.errText = ""
			return m, m.load()
		case msg.String() == "c":
			return m, m.startContribute()
		case msg.String() == "p":
			return m, m.startPayout()
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Back) {
		m.mode = modeView
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if m.mode == modePayout {
			return m, m.submitPayout()
		}
		return m, m.submitContribute()
	}
	return m, cmd
}

func (m Model) submitContribute() tea.Cmd {
	client := m.client
	id := m.groupID
	amount := m.group.Amount
	return func() tea.Msg {
		return actionDoneMsg{err: client.Contribute(context.Background(), id, amount)}
	}
}

func (m Model) submitPayout() tea.Cmd {
	client := m.client
	id := m.groupID
	payee := m.payee
	return func() tea.Msg {
		if payee == "" {
			return actionDoneMsg{}
		}
		return actionDoneMsg{err: client.RecordPayout(context.Background(), id, payee)}
	}
}

// View renders the group detail screen.
func (m Model) View() string {
	if m.mode != modeView {
		return m.form.View()
	}
	if m.loading && m.group == nil {
		return theme.LabelStyle.Render("Loading group...")
	}
	if m.group == nil {
		return theme.ErrorStyle.Render(m.errText)
	}

	g := m.group
	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render(g.Name))
	b.WriteString("\n")
	if g.Description != "" {
		b.WriteString(theme.LabelStyle.Render(g.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%s %s · %s\n",
		theme.MoneyStyle.Render(fmt.Sprintf("₦%.2f", g.Amount)),
		theme.LabelStyle.Render("per "+string(g.Cycle)),
		theme.LabelStyle.Render(fmt.Sprintf("invite code %s", g.InviteCode)),
	))
	b.WriteString(theme.LabelStyle.Render(fmt.Sprintf(
		"Round progress: %d collected, %d waiting\n",
		len(g.AlreadyCollected), len(g.YetToCollect),
	)))
	b.WriteString("\n")

	b.WriteString(theme.LabelStyle.Render(fmt.Sprintf("Members (%d)", g.MemberCount())))
	b.WriteString("\n")
	for memberID, username := range g.MemberUsernames {
		marker := "  "
		if memberID == g.GroupAdmin {
			marker = "★ "
		}
		line := marker + username
		if slices.Contains(g.AlreadyCollected, memberID) {
			line += " · collected"
		}
		b.WriteString(theme.ReadStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(theme.LabelStyle.Render("Recent transactions"))
	b.WriteString("\n")
	txs := m.txs
	if len(txs) > 5 {
		txs = txs[:5]
	}
	if len(txs) == 0 {
		b.WriteString(theme.ReadStyle.Render("No transactions yet."))
		b.WriteString("\n")
	}
	for _, tx := range txs {
		b.WriteString(theme.ReadStyle.Render(fmt.Sprintf(
			"  %s ₦%.2f · %s · %s",
			tx.Type, tx.Amount, tx.Status, tx.Date.Format("Jan 2"),
		)))
		b.WriteString("\n")
	}

	if m.info != "" {
		b.WriteString("\n" + theme.LabelStyle.Render(m.info))
	}
	if m.errText != "" {
		b.WriteString("\n" + theme.ErrorStyle.Render(m.errText))
	}

	help := "c contribute · R refresh · esc back"
	if g.GroupAdmin == m.userID {
		help = "c contribute · p pay out · R refresh · esc back"
	}
	b.WriteString("\n\n" + theme.HelpStyle.Render(help))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
