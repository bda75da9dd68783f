package membermgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/teamboard/internal/keys"
	"github.com/nhle/teamboard/internal/model"
	"github.com/nhle/teamboard/internal/store"
	"github.com/nhle/teamboard/internal/theme"
)

// MemberListCloseMsg signals the parent to close the member view.
type MemberListCloseMsg struct{}

// MembersChangedMsg signals that the directory was modified, so the
// composer candidate list needs a refresh.
type MembersChangedMsg struct{}

type memberMode int

const (
	modeList memberMode = iota
	modeForm
	modeConfirmDelete
)

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name    string
	email   string
	role    string
	admin   bool
	confirm bool
}

type membersLoadedMsg struct {
	members []model.Member
}

type memberSavedMsg struct{ err error }
type memberDeletedMsg struct{ err error }

// Model is the Bubble Tea model for member directory management.
type Model struct {
	mode        memberMode
	store       store.Store
	keys        *keys.KeyMap
	members     []model.Member
	selectedIdx int
	editingID   string
	isNew       bool
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new member manager model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:  modeList,
		store: s,
		keys:  k,
		fb:    &formBindings{},
		width: width, height: height,
	}
}

// Init loads members from the store.
func (m Model) Init() tea.Cmd {
	return m.loadMembers()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case membersLoadedMsg:
		m.members = msg.members
		if m.selectedIdx >= len(m.members) && m.selectedIdx > 0 {
			m.selectedIdx = len(m.members) - 1
		}
		return m, nil

	case memberSavedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Member saved"
		}
		m.mode = modeList
		return m, tea.Batch(m.loadMembers(), func() tea.Msg { return MembersChangedMsg{} })

	case memberDeletedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Member removed"
		}
		m.mode = modeList
		return m, tea.Batch(m.loadMembers(), func() tea.Msg { return MembersChangedMsg{} })

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return MemberListCloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.members) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.members)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.members) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.members) - 1
			}
		}
		return m, nil

	case msg.String() == "n":
		m.isNew = true
		m.editingID = ""
		m.fb.name = ""
		m.fb.email = ""
		m.fb.role = ""
		m.fb.admin = false
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "e":
		if len(m.members) == 0 {
			return m, nil
		}
		member := m.members[m.selectedIdx]
		m.isNew = false
		m.editingID = member.ID
		m.fb.name = member.Name
		m.fb.email = member.Email
		m.fb.role = member.Role
		m.fb.admin = member.Admin
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "d":
		if len(m.members) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Display name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Email").
				Placeholder("name@example.com").
				Value(&m.fb.email),
			huh.NewInput().
				Title("Role").
				Placeholder("Engineer").
				Value(&m.fb.role),
			huh.NewConfirm().
				Title("Admin").
				Description("Admins may pin notes.").
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.admin),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm() *huh.Form {
	name := ""
	if m.selectedIdx < len(m.members) {
		name = m.members[m.selectedIdx].Name
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove member %q?", name)).
				Description("Existing mentions of this member keep working.").
				Affirmative("Yes, remove").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.saveMember()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		if m.fb.confirm {
			member := m.members[m.selectedIdx]
			return m, m.deleteMember(member.ID)
		}
		m.mode = modeList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// View renders the member manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Members"))
	b.WriteString("\n\n")

	if len(m.members) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No members yet. Press 'n' to add one."))
	} else {
		for i, member := range m.members {
			label := member.Name
			if member.Role != "" {
				label += "  " + theme.HelpStyle.Render(member.Role)
			}
			if member.Admin {
				label += " " + theme.PinStyle.Render("(admin)")
			}

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"n new | e edit | d remove | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func (m Model) loadMembers() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		members, err := s.GetMembers(context.Background())
		if err != nil {
			return membersLoadedMsg{members: nil}
		}
		return membersLoadedMsg{members: members}
	}
}

func (m Model) saveMember() tea.Cmd {
	s := m.store
	member := model.Member{
		ID:    m.editingID,
		Name:  strings.TrimSpace(m.fb.name),
		Email: strings.TrimSpace(m.fb.email),
		Role:  strings.TrimSpace(m.fb.role),
		Admin: m.fb.admin,
	}
	isNew := m.isNew
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if isNew {
			err = s.CreateMember(ctx, member)
		} else {
			err = s.UpdateMember(ctx, member)
		}
		return memberSavedMsg{err: err}
	}
}

func (m Model) deleteMember(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return memberDeletedMsg{err: s.DeleteMember(context.Background(), id)}
	}
}
