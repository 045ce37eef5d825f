// Package app wires the screens together: the session gate, tab routing,
// and the notification engine's lifecycle.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ajorhq/ajor/internal/api"
	"github.com/ajorhq/ajor/internal/keys"
	"github.com/ajorhq/ajor/internal/model"
	"github.com/ajorhq/ajor/internal/notify"
	"github.com/ajorhq/ajor/internal/session"
	"github.com/ajorhq/ajor/internal/token"
	"github.com/ajorhq/ajor/internal/ui"
	"github.com/ajorhq/ajor/internal/ui/auth"
	"github.com/ajorhq/ajor/internal/ui/dashboard"
	"github.com/ajorhq/ajor/internal/ui/groupdetail"
	"github.com/ajorhq/ajor/internal/ui/groups"
	"github.com/ajorhq/ajor/internal/ui/notifications"
	"github.com/ajorhq/ajor/internal/ui/profile"
	"github.com/ajorhq/ajor/internal/ui/wallet"
)

// tab indexes into the main navigation bar.
type tab int

const (
	tabDashboard tab = iota
	tabGroups
	tabNotifications
	tabWallet
	tabProfile
)

var tabLabels = []string{"Dashboard", "Groups", "Notifications", "Wallet", "Profile"}

// SeenTracker records which notification ids have been observed before, so
// a refetched snapshot can be told apart from genuinely new arrivals.
type SeenTracker interface {
	MarkSeen(ctx context.Context, ids []string) (fresh []string, err error)
}

// freshMsg reports how many notifications in the latest snapshot were never
// seen before.
type freshMsg struct {
	count int
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg     *model.AppConfig
	client  *api.Client
	session *session.Store
	seen    SeenTracker
	keys    *keys.KeyMap
	layout  ui.Layout
	arrived int

	// Session-scoped state, rebuilt on every login.
	identity *token.Identity
	engine   *notify.Engine
	resolver *notify.Resolver
	unread   int

	authScreen auth.Model
	dash       dashboard.Model
	groupList  groups.Model
	detail     *groupdetail.Model
	notifs     notifications.Model
	walletView wallet.Model
	profView   profile.Model

	activeTab tab
	loggedIn  bool
}

// New creates the root model. If a stored token decodes to an identity the
// app opens on the dashboard; otherwise it opens on the login screen.
func New(cfg *model.AppConfig, client *api.Client, sess *session.Store, seen SeenTracker) Model {
	m := Model{
		cfg:     cfg,
		client:  client,
		session: sess,
		seen:    seen,
		keys:    keys.DefaultKeyMap(),
		layout:  ui.NewLayout(80, 24),
	}

	identity, err := token.Decode(sess.Token())
	if err != nil {
		// No usable session; make sure no stale snapshots linger either.
		sess.Clear(context.Background())
		m.authScreen = auth.New(client, m.layout.Width, m.layout.Height)
		return m
	}

	m.startSession(identity)
	return m
}

// Init starts either the login form or the logged-in session.
func (m Model) Init() tea.Cmd {
	if !m.loggedIn {
		return m.authScreen.Init()
	}
	return m.sessionInit()
}

// startSession builds the per-session state: the notification engine, the
// name resolver, and every main screen.
func (m *Model) startSession(identity *token.Identity) {
	m.identity = identity
	m.loggedIn = true
	m.activeTab = tabDashboard
	m.unread = 0
	m.detail = nil

	m.engine = notify.New(m.client, time.Duration(m.cfg.Backend.PollIntervalSec)*time.Second)
	if m.cfg.Backend.Push {
		m.engine.EnablePush(m.client.WebSocketURL())
	}
	m.resolver = notify.NewResolver(m.client)

	w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
	m.dash = dashboard.New(m.client, identity, w, h)
	m.groupList = groups.New(m.client, m.keys, identity.UserID, w, h)
	m.notifs = notifications.New(m.engine, m.resolver, m.client, m.keys, w, h)
	m.walletView = wallet.New(m.client, m.keys, w, h)
	m.profView = profile.New(m.client, m.session, m.keys, identity.UserID, w, h)
}

func (m Model) sessionInit() tea.Cmd {
	return tea.Batch(
		m.engine.Start(),
		m.dash.Init(),
		m.groupList.Init(),
		m.notifs.Init(),
		m.walletView.Init(),
		m.profView.Init(),
	)
}

// endSession tears the session down: the engine stops, stored credentials
// and snapshots are cleared, and the login screen takes over.
func (m *Model) endSession() tea.Cmd {
	if m.engine != nil {
		m.engine.Stop()
	}
	m.session.Clear(context.Background())
	m.loggedIn = false
	m.identity = nil
	m.engine = nil
	m.detail = nil
	m.authScreen = auth.New(m.client, m.layout.Width, m.layout.Height)
	return m.authScreen.Init()
}

// Update routes messages to the active screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.authScreen.SetSize(msg.Width, msg.Height)
		if m.loggedIn {
			w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
			m.dash.SetSize(w, h)
			m.groupList.SetSize(w, h)
			m.notifs.SetSize(w, h)
			m.walletView.SetSize(w, h)
			m.profView.SetSize(w, h)
			if m.detail != nil {
				m.detail.SetSize(w, h)
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	if !m.loggedIn {
		return m.updateAuth(msg)
	}
	return m.updateMain(msg)
}

func (m Model) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	if logged, ok := msg.(auth.LoggedInMsg); ok {
		identity, err := token.Decode(logged.Token)
		if err != nil {
			// A token we cannot read is a token we cannot use.
			return m.updateAuthErr()
		}
		m.session.SaveToken(context.Background(), logged.Token)
		m.startSession(identity)
		return m, m.sessionInit()
	}

	var cmd tea.Cmd
	m.authScreen, cmd = m.authScreen.Update(msg)
	return m, cmd
}

func (m Model) updateAuthErr() (tea.Model, tea.Cmd) {
	m.authScreen = auth.New(m.client, m.layout.Width, m.layout.Height)
	return m, m.authScreen.Init()
}

func (m Model) updateMain(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notify.RefreshedMsg:
		m.unread = msg.UnreadCount
		if msg.Err != nil && api.IsAuth(msg.Err) {
			return m, m.endSession()
		}
		m.dash.SetFeed(msg.Notifications, msg.UnreadCount)
		feedCmd := m.notifs.SetFeed(msg.Notifications, msg.Err, msg.Manual)
		cmds := []tea.Cmd{feedCmd, m.engine.WaitForNext()}
		if msg.Err == nil {
			cmds = append(cmds, m.trackSeen(msg.Notifications))
		}
		return m, tea.Batch(cmds...)

	case freshMsg:
		m.arrived = msg.count
		return m, nil

	case ui.AuthExpiredMsg:
		return m, m.endSession()

	case profile.LogoutRequestedMsg:
		// Best-effort server-side logout; the local teardown happens
		// regardless of the result.
		client := m.client
		go func() { _ = client.Logout(context.Background()) }()
		return m, m.endSession()

	case groups.OpenGroupMsg:
		d := groupdetail.New(m.client, m.keys, msg.GroupID, m.identity.UserID,
			m.layout.ContentWidth(), m.layout.ContentHeight())
		m.detail = &d
		return m, d.Init()

	case groupdetail.ClosedMsg:
		m.detail = nil
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.NextTab):
			m.activeTab = (m.activeTab + 1) % tab(len(tabLabels))
			m.detail = nil
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.activeTab = (m.activeTab + tab(len(tabLabels)) - 1) % tab(len(tabLabels))
			m.detail = nil
			return m, nil
		}
	}

	return m.updateActiveScreen(msg)
}

func (m Model) updateActiveScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.detail != nil && m.activeTab == tabGroups {
		d, c := m.detail.Update(msg)
		m.detail = &d
		return m, c
	}

	switch m.activeTab {
	case tabDashboard:
		m.dash, cmd = m.dash.Update(msg)
	case tabGroups:
		m.groupList, cmd = m.groupList.Update(msg)
	case tabNotifications:
		m.notifs, cmd = m.notifs.Update(msg)
	case tabWallet:
		m.walletView, cmd = m.walletView.Update(msg)
	case tabProfile:
		m.profView, cmd = m.profView.Update(msg)
	}
	return m, cmd
}

// View renders the login screen or the main chrome with the active tab.
func (m Model) View() string {
	if !m.loggedIn {
		return m.authScreen.View()
	}

	header := m.layout.RenderHeader("Ajor", m.syncStatus())
	tabs := m.layout.RenderTabs(tabLabels, int(m.activeTab), m.unread, int(tabNotifications))

	var body string
	if m.detail != nil && m.activeTab == tabGroups {
		body = m.detail.View()
	} else {
		switch m.activeTab {
		case tabDashboard:
			body = m.dash.View()
		case tabGroups:
			body = m.groupList.View()
		case tabNotifications:
			body = m.notifs.View()
		case tabWallet:
			body = m.walletView.View()
		case tabProfile:
			body = m.profView.View()
		}
	}

	status := m.layout.RenderStatusBar("tab switch · R refresh · ctrl+c quit")
	return header + "\n" + tabs + "\n" + body + "\n" + status
}

// trackSeen records the snapshot's ids in the local cache and reports how
// many were new. Tracking failures are invisible; the count is decoration.
func (m Model) trackSeen(notifs []model.Notification) tea.Cmd {
	if m.seen == nil {
		return nil
	}
	seen := m.seen
	ids := make([]string, len(notifs))
	for i, n := range notifs {
		ids[i] = n.ID
	}
	return func() tea.Msg {
		fresh, err := seen.MarkSeen(context.Background(), ids)
		if err != nil {
			return nil
		}
		return freshMsg{count: len(fresh)}
	}
}

// syncStatus summarizes the engine for the header's right edge.
func (m Model) syncStatus() string {
	st := m.engine.CurrentStatus()
	switch st.State {
	case notify.StateLoading:
		return "syncing..."
	case notify.StateReady:
		if st.LastSync.IsZero() {
			return ""
		}
		out := fmt.Sprintf("synced %s", st.LastSync.Format("15:04:05"))
		if m.arrived > 0 {
			out = fmt.Sprintf("%d new · %s", m.arrived, out)
		}
		return out
	default:
		return ""
	}
}
