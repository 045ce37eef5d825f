// Package profile shows the signed-in user's account and profile details
// and hosts the edit-profile and change-password flows.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ajorhq/ajor/internal/api"
	"github.com/ajorhq/ajor/internal/keys"
	"github.com/ajorhq/ajor/internal/model"
	"github.com/ajorhq/ajor/internal/session"
	"github.com/ajorhq/ajor/internal/theme"
	"github.com/ajorhq/ajor/internal/ui"
)

var errPasswordMismatch = errors.New("new passwords do not match")

// LogoutRequestedMsg asks the root model to end the session.
type LogoutRequestedMsg struct{}

type loadedMsg struct {
	user    *model.User
	profile *model.Profile
	err     error
}

type savedMsg struct {
	profile *model.Profile
	err     error
}

type passwordChangedMsg struct {
	err error
}

type mode int

const (
	modeView mode = iota
	modeEdit
	modePassword
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	bio         string
	location    string
	oldPassword string
	newPassword string
	confirm     string
}

// Model is the profile screen.
type Model struct {
	client  *api.Client
	session *session.Store
	keys    *keys.KeyMap
	userID  string

	user    *model.User
	profile *model.Profile
	form    *huh.Form
	fb      *formBindings
	mode    mode
	loading bool
	info    string
	errText string
	width   int
	height  int
}

// New creates the profile screen. Cached snapshots from the session store
// are shown immediately while the fresh fetch is in flight.
func New(client *api.Client, sess *session.Store, k *keys.KeyMap, userID string, width, height int) Model {
	return Model{
		client:  client,
		session: sess,
		keys:    k,
		userID:  userID,
		user:    sess.User(context.Background()),
		profile: sess.Profile(context.Background()),
		fb:      &formBindings{},
		loading: true,
		width:   width,
		height:  height,
	}
}

// Init fetches the fresh user and profile records.
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
	userID := m.userID
	return func() tea.Msg {
		ctx := context.Background()
		user, err := client.User(ctx, userID)
		if err != nil {
			return loadedMsg{err: err}
		}
		prof, err := client.Profile(ctx, userID)
		if err != nil {
			return loadedMsg{user: user, err: err}
		}
		return loadedMsg{user: user, profile: prof}
	}
}

func (m *Model) startEdit() tea.Cmd {
	m.mode = modeEdit
	m.errText = ""
	m.info = ""
	*m.fb = formBindings{}
	if m.profile != nil {
		m.fb.bio = m.profile.Bio
		m.fb.location = m.profile.Location
	}
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Bio").Value(&m.fb.bio),
		huh.NewInput().Title("Location").Value(&m.fb.location),
	)).WithShowHelp(false)
	return m.form.Init()
}

func (m *Model) startPassword() tea.Cmd {
	m.mode = modePassword
	m.errText = ""
	m.info = ""
	*m.fb = formBindings{}
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Current password").EchoMode(huh.EchoModePassword).Value(&m.fb.oldPassword),
		huh.NewInput().Title("New password").EchoMode(huh.EchoModePassword).Value(&m.fb.newPassword),
		huh.NewInput().Title("Confirm new password").EchoMode(huh.EchoModePassword).Value(&m.fb.confirm),
	)).WithShowHelp(false)
	return m.form.Init()
}

// Update handles messages for the profile screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			if api.IsAuth(msg.err) {
				return m, func() tea.Msg { return ui.AuthExpiredMsg{} }
			}
			m.errText = "Could not load your profile. Press R to retry."
			if msg.user != nil {
				m.user = msg.user
			}
			return m, nil
		}
		m.errText = ""
		m.user = msg.user
		m.profile = msg.profile
		m.session.SaveUser(context.Background(), msg.user)
		m.session.SaveProfile(context.Background(), msg.profile)
		return m, nil

	case savedMsg:
		m.mode = modeView
		if msg.err != nil {
			if api.IsAuth(msg.err) {
				return m, func() tea.Msg { return ui.AuthExpiredMsg{} }
			}
			m.errText = msg.err.Error()
			return m, nil
		}
		m.profile = msg.profile
		m.session.SaveProfile(context.Background(), msg.profile)
		m.info = "Profile updated."
		return m, nil

	case passwordChangedMsg:
		m.mode = modeView
		if msg.err != nil {
			if api.IsAuth(msg.err) {
				return m, func() tea.Msg { return ui.AuthExpiredMsg{} }
			}
			m.errText = msg.err.Error()
			return m, nil
		}
		m.info = "Password changed."
		return m, nil
	}

	if m.mode != modeView {
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
		case key.Matches(msg, m.keys.Logout):
			return m, func() tea.Msg { return LogoutRequestedMsg{} }
		case msg.String() == "e":
			return m, m.startEdit()
		case msg.String() == "p":
			return m, m.startPassword()
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
		if m.mode == modePassword {
			return m, m.submitPassword()
		}
		return m, m.submitEdit()
	}
	return m, cmd
}

func (m Model) submitEdit() tea.Cmd {
	fb := *m.fb
	client := m.client
	userID := m.userID
	return func() tea.Msg {
		prof, err := client.UpdateProfile(context.Background(), userID, api.UpdateProfileRequest{
			Bio:      strings.TrimSpace(fb.bio),
			Location: strings.TrimSpace(fb.location),
		})
		return savedMsg{profile: prof, err: err}
	}
}

func (m Model) submitPassword() tea.Cmd {
	fb := *m.fb
	client := m.client
	return func() tea.Msg {
		if fb.newPassword != fb.confirm {
			return passwordChangedMsg{err: errPasswordMismatch}
		}
		err := client.ChangePassword(context.Background(), fb.oldPassword, fb.newPassword)
		return passwordChangedMsg{err: err}
	}
}

// View renders the profile screen.
func (m Model) View() string {
	if m.mode == modeEdit {
		return theme.TitleStyle.Render("Edit profile") + "\n\n" + m.form.View()
	}
	if m.mode == modePassword {
		return theme.TitleStyle.Render("Change password") + "\n\n" + m.form.View()
	}

	var b strings.Builder
	if m.user != nil {
		b.WriteString(theme.TitleStyle.Render(m.user.Username))
		b.WriteString("\n")
		b.WriteString(theme.LabelStyle.Render(m.user.Email))
		b.WriteString("\n")
		details := m.user.Phone
		if m.user.Verified {
			details += " · verified"
		}
		if m.user.IsAdmin {
			details += " · admin"
		}
		b.WriteString(theme.LabelStyle.Render(details))
		b.WriteString("\n")
	} else if m.loading {
		b.WriteString(theme.LabelStyle.Render("Loading profile..."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.profile != nil {
		if m.profile.Bio != "" {
			b.WriteString(m.profile.Bio)
			b.WriteString("\n")
		}
		if m.profile.Location != "" {
			b.WriteString(theme.LabelStyle.Render(fmt.Sprintf("📍 %s", m.profile.Location)))
			b.WriteString("\n")
		}
	}

	if m.info != "" {
		b.WriteString("\n" + theme.LabelStyle.Render(m.info))
	}
	if m.errText != "" {
		b.WriteString("\n" + theme.ErrorStyle.Render(m.errText))
	}
	b.WriteString("\n\n" + theme.HelpStyle.Render("e edit · p change password · ctrl+l log out · R refresh"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
