// Package wallet shows the user's balance and transaction history and
// hosts the fund-by-transfer flow.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"strconv"
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

var errInvalidAmount = errors.New("enter a valid amount")

type loadedMsg struct {
	wallet *model.Wallet
	txs    []model.Transaction
	err    error
}

type fundedMsg struct {
	txRef string
	err   error
}

// Model is the wallet screen.
type Model struct {
	client *api.Client
	keys   *keys.KeyMap

	wallet  *model.Wallet
	txs     []model.Transaction
	form    *huh.Form
	amount  string
	funding bool
	loading bool
	info    string
	errText string
	width   int
	height  int
}

// New creates the wallet screen.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	return Model{
		client:  client,
		keys:    k,
		loading: true,
		width:   width,
		height:  height,
	}
}

// Init fetches the wallet and its history.
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
	return func() tea.Msg {
		ctx := context.Background()
		w, err := client.Wallet(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		txs, err := client.WalletTransactions(ctx)
		if err != nil {
			return loadedMsg{wallet: w, err: err}
		}
		return loadedMsg{wallet: w, txs: txs}
	}
}

func (m *Model) startFund() tea.Cmd {
	m.funding = true
	m.errText = ""
	m.info = ""
	m.amount = ""
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Amount (₦)").Value(&m.amount),
	)).WithShowHelp(false)
	return m.form.Init()
}

// Update handles messages for the wallet screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			if api.IsAuth(msg.err) {
				return m, func() tea.Msg { return ui.AuthExpiredMsg{} }
			}
			m.errText = "Could not load your wallet. Press R to retry."
			m.wallet = msg.wallet
			return m, nil
		}
		m.errText = ""
		m.wallet = msg.wallet
		m.txs = msg.txs
		return m, nil

	case fundedMsg:
		m.funding = false
		if msg.err != nil {
			if api.IsAuth(msg.err) {
				return m, func() tea.Msg { return ui.AuthExpiredMsg{} }
			}
			m.errText = msg.err.Error()
			return m, nil
		}
		m.info = fmt.Sprintf("Top-up started (ref %s). The balance updates once the transfer settles.", msg.txRef)
		m.loading = true
		return m, m.load()
	}

	if m.funding {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			m.info = ""
			m.errText = ""
			return m, m.load()
		case key.Matches(msg, m.keys.Fund):
			return m, m.startFund()
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Back) {
		m.funding = false
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		amount := strings.TrimSpace(m.amount)
		client := m.client
		return m, func() tea.Msg {
			v, err := strconv.ParseFloat(amount, 64)
			if err != nil || v <= 0 {
				return fundedMsg{err: errInvalidAmount}
			}
			ref, err := client.FundWallet(context.Background(), v)
			return fundedMsg{txRef: ref, err: err}
		}
	}
	return m, cmd
}

// View renders the wallet screen.
func (m Model) View() string {
	if m.funding {
		return theme.TitleStyle.Render("Fund wallet") + "\n\n" + m.form.View()
	}
	if m.loading && m.wallet == nil {
		return theme.LabelStyle.Render("Loading wallet...")
	}

	var b strings.Builder
	balance := "—"
	if m.wallet != nil {
		balance = fmt.Sprintf("₦%.2f", m.wallet.Balance)
	}
	b.WriteString(theme.LabelStyle.Render("Balance"))
	b.WriteString("\n")
	b.WriteString(theme.MoneyStyle.Render(balance))
	b.WriteString("\n")
	if m.wallet != nil && m.wallet.VirtualAccountNumber != "" {
		b.WriteString(theme.LabelStyle.Render(fmt.Sprintf(
			"Transfer to %s · %s to top up",
			m.wallet.VirtualBankName, m.wallet.VirtualAccountNumber,
		)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(theme.LabelStyle.Render("History"))
	b.WriteString("\n")
	if len(m.txs) == 0 {
		b.WriteString(theme.ReadStyle.Render("No transactions yet."))
		b.WriteString("\n")
	}
	for _, tx := range m.txs {
		desc := tx.Description
		if desc == "" {
			desc = string(tx.Type)
		}
		b.WriteString(theme.ReadStyle.Render(fmt.Sprintf(
			"  %s · ₦%.2f · %s · %s",
			desc, tx.Amount, tx.Status, tx.Date.Format("Jan 2 15:04"),
		)))
		b.WriteString("\n")
	}

	if m.info != "" {
		b.WriteString("\n" + theme.LabelStyle.Render(m.info))
	}
	if m.errText != "" {
		b.WriteString("\n" + theme.ErrorStyle.Render(m.errText))
	}
	b.WriteString("\n\n" + theme.HelpStyle.Render("f fund · R refresh"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
