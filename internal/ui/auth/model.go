// Package auth is the login / signup screen. It is the only screen that
// runs without a session.
package auth

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ajorhq/ajor/internal/api"
	"github.com/ajorhq/ajor/internal/theme"
)

// Mode selects which form is shown.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
	ModeForgot
)

// LoggedInMsg is sent when the backend accepted the credentials.
type LoggedInMsg struct {
	Token string
}

// RegisteredMsg is sent after a successful signup; the user still has to
// verify their email and log in.
type RegisteredMsg struct{}

// ResetRequestedMsg is sent after a password-reset email was requested.
type ResetRequestedMsg struct{}

type errMsg struct {
	err error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	password string
	username string
	phone    string
}

// Model is the Bubble Tea model for the authentication screen.
type Model struct {
	client  *api.Client
	form    *huh.Form
	fb      *formBindings
	mode    Mode
	info    string
	errText string
	busy    bool
	width   int
	height  int
}

// New creates the authentication screen in login mode.
func New(client *api.Client, width, height int) Model {
	m := Model{
		client: client,
		fb:     &formBindings{},
		mode:   ModeLogin,
		width:  width,
		height: height,
	}
	m.form = m.buildForm()
	return m
}

// Init starts the active form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) buildForm() *huh.Form {
	switch m.mode {
	case ModeSignup:
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Username").Value(&m.fb.username),
			huh.NewInput().Title("Email").Value(&m.fb.email),
			huh.NewInput().Title("Phone").Value(&m.fb.phone),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&m.fb.password),
		)).WithShowHelp(false)
	case ModeForgot:
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Email").Value(&m.fb.email),
		)).WithShowHelp(false)
	default:
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Email").Value(&m.fb.email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&m.fb.password),
		)).WithShowHelp(false)
	}
}

// switchMode swaps the form, clearing transient state.
func (m *Model) switchMode(mode Mode) tea.Cmd {
	m.mode = mode
	m.errText = ""
	m.info = ""
	m.fb.password = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the authentication screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+s":
			return m, m.switchMode(ModeSignup)
		case "ctrl+r":
			return m, m.switchMode(ModeForgot)
		case "ctrl+b":
			return m, m.switchMode(ModeLogin)
		}

	case LoggedInMsg:
		// Handled by the root model; nothing to do here.
		return m, nil

	case RegisteredMsg:
		m.busy = false
		m.info = "Account created. Check your email to verify, then log in."
		return m, m.switchMode(ModeLogin)

	case ResetRequestedMsg:
		m.busy = false
		m.info = "If the address exists, a reset email is on its way."
		return m, m.switchMode(ModeLogin)

	case errMsg:
		m.busy = false
		m.errText = msg.err.Error()
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted && !m.busy {
		m.busy = true
		m.errText = ""
		return m, m.submit()
	}

	return m, cmd
}

// submit performs the backend call for the active mode.
func (m Model) submit() tea.Cmd {
	fb := *m.fb
	mode := m.mode
	client := m.client

	return func() tea.Msg {
		ctx := context.Background()
		switch mode {
		case ModeSignup:
			err := client.Register(ctx, api.RegisterRequest{
				Username: strings.TrimSpace(fb.username),
				Email:    strings.TrimSpace(fb.email),
				Password: fb.password,
				Phone:    strings.TrimSpace(fb.phone),
			})
			if err != nil {
				return errMsg{err}
			}
			return RegisteredMsg{}

		case ModeForgot:
			if err := client.ForgotPassword(ctx, strings.TrimSpace(fb.email)); err != nil {
				return errMsg{err}
			}
			return ResetRequestedMsg{}

		default:
			tok, err := client.Login(ctx, strings.TrimSpace(fb.email), fb.password)
			if err != nil {
				return errMsg{err}
			}
			if tok == "" {
				return errMsg{fmt.Errorf("backend returned an empty token")}
			}
			return LoggedInMsg{Token: tok}
		}
	}
}

// View renders the authentication screen.
func (m Model) View() string {
	var title string
	switch m.mode {
	case ModeSignup:
		title = "Create your Ajor account"
	case ModeForgot:
		title = "Reset password"
	default:
		title = "Sign in to Ajor"
	}

	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.form.View())
	b.WriteString("\n")

	if m.busy {
		b.WriteString(theme.LabelStyle.Render("Contacting backend..."))
		b.WriteString("\n")
	}
	if m.errText != "" {
		b.WriteString(theme.ErrorStyle.Render(m.errText))
		b.WriteString("\n")
	}
	if m.info != "" {
		b.WriteString(theme.LabelStyle.Render(m.info))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("ctrl+s sign up · ctrl+r reset password · ctrl+b back to login"))

	panel := theme.PanelStyle.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}
