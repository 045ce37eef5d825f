// Package groups lists the user's Ajo groups and hosts the create and
// join-by-invite flows.
package groups

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/ajorhq/ajor/internal/api"
	"github.com/ajorhq/ajor/internal/keys"
	"github.com/ajorhq/ajor/internal/model"
	"github.com/ajorhq/ajor/internal/theme"
	"github.com/ajorhq/ajor/internal/ui"
)

var errInvalidAmount = errors.New("enter a valid amount")

// OpenGroupMsg asks the root model to show the detail screen for a group.
type OpenGroupMsg struct {
	GroupID string
}

type loadedMsg struct {
	groups []model.Group
	err    error
}

type mutatedMsg struct {
	err error
}

type mode int

const (
	modeList mode = iota
	modeCreate
	modeJoin
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name          string
	description   string
	cycle         string
	amount        string
	groupType     string
	collectionDay string
	penalty       string
	inviteCode    string
}

// Model is the groups screen.
type Model struct {
	client *api.Client
	keys   *keys.KeyMap
	userID string

	list    list.Model
	form    *huh.Form
	fb      *formBindings
	mode    mode
	loading bool
	errText string
	width   int
	height  int
}

// New creates the groups screen.
func New(client *api.Client, k *keys.KeyMap, userID string, width, height int) Model {
	l := list.New([]list.Item{}, itemDelegate{}, width, height-2)
	l.Title = "Your groups"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		client:  client,
		keys:    k,
		userID:  userID,
		list:    l,
		fb:      &formBindings{},
		loading: true,
		width:   width,
		height:  height,
	}
}

// Init fetches the group list.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

func (m Model) load() tea.Cmd {
	client := m.client
	userID := m.userID
	return func() tea.Msg {
		groups, err := client.Groups(context.Background(), userID)
		return loadedMsg{groups: groups, err: err}
	}
}

func (m *Model) startCreate() tea.Cmd {
	m.mode = modeCreate
	m.errText = ""
	*m.fb = formBindings{cycle: string(model.CycleWeekly), groupType: string(model.TypeGroup)}
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Name").Value(&m.fb.name),
		huh.NewInput().Title("Description").Value(&m.fb.description),
		huh.NewSelect[string]().Title("Cycle").
			Options(
				huh.NewOption("Daily", string(model.CycleDaily)),
				huh.NewOption("Weekly", string(model.CycleWeekly)),
				huh.NewOption("Monthly", string(model.CycleMonthly)),
			).
			Value(&m.fb.cycle),
		huh.NewSelect[string]().Title("Type").
			Options(
				huh.NewOption("Rotating group", string(model.TypeGroup)),
				huh.NewOption("Personal daily savings", string(model.TypeDailySavings)),
			).
			Value(&m.fb.groupType),
		huh.NewInput().Title("Amount per cycle").Value(&m.fb.amount),
		huh.NewInput().Title("Collection day").Placeholder("e.g. Friday").Value(&m.fb.collectionDay),
		huh.NewInput().Title("Penalty amount").Placeholder("0").Value(&m.fb.penalty),
	)).WithShowHelp(false)
	return m.form.Init()
}

func (m *Model) startJoin() tea.Cmd {
	m.mode = modeJoin
	m.errText = ""
	*m.fb = formBindings{}
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Invite code").Value(&m.fb.inviteCode),
	)).WithShowHelp(false)
	return m.form.Init()
}

// Update handles messages for the groups screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			if api.IsAuth(msg.err) {
				return m, func() tea.Msg { return ui.AuthExpiredMsg{} }
			}
			m.errText = "Could not load groups. Press R to retry."
			return m, nil
		}
		m.errText = ""
		items := make([]list.Item, len(msg.groups))
		for i, g := range msg.groups {
			items[i] = Item{Group: g}
		}
		return m, m.list.SetItems(items)

	case mutatedMsg:
		if msg.err != nil {
			if api.IsAuth(msg.err) {
				return m, func() tea.Msg { return ui.AuthExpiredMsg{} }
			}
			m.errText = msg.err.Error()
			m.mode = modeList
			return m, nil
		}
		m.mode = modeList
		m.loading = true
		return m, m.load()
	}

	if m.mode != modeList {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			m.errText = ""
			return m, m.load()
		case key.Matches(msg, m.keys.NewGroup):
			return m, m.startCreate()
		case key.Matches(msg, m.keys.JoinGroup):
			return m, m.startJoin()
		case key.Matches(msg, m.keys.Select):
			if it, ok := m.list.SelectedItem().(Item); ok {
				id := it.Group.ID
				return m, func() tea.Msg { return OpenGroupMsg{GroupID: id} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Back) {
		m.mode = modeList
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if m.mode == modeJoin {
			return m, m.submitJoin()
		}
		return m, m.submitCreate()
	}
	return m, cmd
}

func (m Model) submitCreate() tea.Cmd {
	fb := *m.fb
	client := m.client
	return func() tea.Msg {
		amount, err := strconv.ParseFloat(strings.TrimSpace(fb.amount), 64)
		if err != nil || amount <= 0 {
			return mutatedMsg{err: errInvalidAmount}
		}
		penalty, _ := strconv.ParseFloat(strings.TrimSpace(fb.penalty), 64)

		_, err = client.CreateGroup(context.Background(), api.CreateGroupRequest{
			Name:          strings.TrimSpace(fb.name),
			Description:   strings.TrimSpace(fb.description),
			Cycle:         model.GroupCycle(fb.cycle),
			Amount:        amount,
			Type:          model.GroupType(fb.groupType),
			CollectionDay: strings.TrimSpace(fb.collectionDay),
			PenaltyAmount: penalty,
		})
		return mutatedMsg{err: err}
	}
}

func (m Model) submitJoin() tea.Cmd {
	code := strings.TrimSpace(m.fb.inviteCode)
	client := m.client
	return func() tea.Msg {
		return mutatedMsg{err: client.JoinGroup(context.Background(), code)}
	}
}

// View renders the groups screen.
func (m Model) View() string {
	if m.mode != modeList {
		title := "Create a group"
		if m.mode == modeJoin {
			title = "Join a group"
		}
		return theme.TitleStyle.Render(title) + "\n\n" + m.form.View()
	}

	out := m.list.View()
	if m.loading {
		out += "\n" + theme.LabelStyle.Render("Loading...")
	}
	if m.errText != "" {
		out += "\n" + theme.ErrorStyle.Render(m.errText)
	}
	return out
}
