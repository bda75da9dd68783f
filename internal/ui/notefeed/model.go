package notefeed

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/teamboard/internal/keys"
	"github.com/nhle/teamboard/internal/model"
	"github.com/nhle/teamboard/internal/store"
	"github.com/nhle/teamboard/internal/theme"
)

// NotesLoadedMsg is sent when notes have been loaded from the store.
type NotesLoadedMsg struct {
	Notes []model.Note
}

// EditNoteMsg asks the parent to open the editor for an existing note.
type EditNoteMsg struct {
	Note model.Note
}

// NewNoteMsg asks the parent to open the editor for a fresh note.
type NewNoteMsg struct{}

// NoteDeletedMsg reports a completed delete.
type NoteDeletedMsg struct{ Err error }

// PinChangedMsg reports a completed pin toggle.
type PinChangedMsg struct{ Err error }

// Model is the notes feed view: pinned note first, then newest first.
type Model struct {
	list        list.Model
	store       store.Store
	keys        *keys.KeyMap
	filter      store.NoteFilter
	searchMode  bool
	searchInput textinput.Model
	canPin      bool
	authorNames map[string]string
	width       int
	height      int
}

// New creates a new notes feed model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	delegate := noteDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Team Notes"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search notes..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		store:       s,
		keys:        k,
		searchInput: si,
		authorNames: make(map[string]string),
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the initial set of notes.
func (m Model) Init() tea.Cmd {
	return m.LoadNotes()
}

// SetMembers refreshes the author-id to display-name lookup used when
// rendering feed lines.
func (m *Model) SetMembers(members []model.Member) {
	names := make(map[string]string, len(members))
	for _, member := range members {
		names[member.ID] = member.Name
	}
	m.authorNames = names
}

// SetCanPin controls whether the pin key is honored (admins only).
func (m *Model) SetCanPin(canPin bool) {
	m.canPin = canPin
}

// InSearch reports whether the search input currently owns keystrokes.
func (m Model) InSearch() bool {
	return m.searchMode
}

// Selected returns the currently selected note, if any.
func (m Model) Selected() (model.Note, bool) {
	item, ok := m.list.SelectedItem().(noteItem)
	if !ok {
		return model.Note{}, false
	}
	return item.note, true
}

// Update handles messages for the feed.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case NotesLoadedMsg:
		items := make([]list.Item, len(msg.Notes))
		for i, n := range msg.Notes {
			items[i] = noteItem{note: n, authorName: m.authorNames[n.AuthorID]}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case NoteDeletedMsg, PinChangedMsg:
		return m, m.LoadNotes()

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		query := m.searchInput.Value()
		if query != "" {
			m.filter.Query = &query
		} else {
			m.filter.Query = nil
		}
		return m, m.LoadNotes()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.filter.Query = nil
		return m, m.LoadNotes()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.NewNote):
		return m, func() tea.Msg { return NewNoteMsg{} }

	case key.Matches(msg, m.keys.EditNote), key.Matches(msg, m.keys.Select):
		note, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return EditNoteMsg{Note: note} }

	case key.Matches(msg, m.keys.DeleteNote):
		note, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, m.deleteNote(note.ID)

	case key.Matches(msg, m.keys.TogglePin):
		note, ok := m.Selected()
		if !ok || !m.canPin {
			return m, nil
		}
		return m, m.togglePin(note)
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the feed.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no notes exist.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.filter.Query != nil {
		return style.Render("No matching notes.\nPress / to change the search.")
	}

	return style.Render("No notes yet.\n\nPress n to write the first one.")
}

// LoadNotes returns a tea.Cmd that queries the store with the current filter.
func (m Model) LoadNotes() tea.Cmd {
	filter := m.filter
	s := m.store
	return func() tea.Msg {
		notes, err := s.GetNotes(context.Background(), filter)
		if err != nil {
			return NotesLoadedMsg{Notes: nil}
		}
		return NotesLoadedMsg{Notes: notes}
	}
}

// deleteNote removes the note and reports completion.
func (m Model) deleteNote(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return NoteDeletedMsg{Err: s.DeleteNote(context.Background(), id)}
	}
}

// togglePin pins the note, or unpins it if it is the pinned one. The
// store applies the change as one batch so at most one note is ever
// pinned.
func (m Model) togglePin(note model.Note) tea.Cmd {
	s := m.store
	target := note.ID
	if note.Pinned {
		target = ""
	}
	return func() tea.Msg {
		return PinChangedMsg{Err: s.SetPinned(context.Background(), target)}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
