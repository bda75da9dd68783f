package noteeditor

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/nhle/teamboard/internal/mention"
	"github.com/nhle/teamboard/internal/model"
	"github.com/nhle/teamboard/internal/store"
	"github.com/nhle/teamboard/internal/theme"
)

// NoteSavedMsg is dispatched after a save completes. ContentChanged is
// false for edits that left the content untouched, so the parent can
// skip mention fan-out.
type NoteSavedMsg struct {
	Note           model.Note
	IsNew          bool
	ContentChanged bool
	Err            error
}

// EditorCancelMsg is dispatched when the user abandons the editor.
type EditorCancelMsg struct{}

// blurTimeoutMsg fires after the blur grace delay.
type blurTimeoutMsg struct{}

// blurGraceDelay is how long a blur may last before an in-progress
// mention composition is discarded. A transient blur (e.g. a candidate
// click) shorter than this keeps the composition alive.
const blurGraceDelay = 200 * time.Millisecond

// Model is the note editor: a text input with an interactive mention
// dropdown driven by the composer state machine.
type Model struct {
	input    textinput.Model
	composer *mention.Composer
	store    store.Store

	editID          string
	originalContent string
	authorID        string
	focused         bool

	width  int
	height int
}

// New creates a new note editor model.
func New(s store.Store, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "write a note, @ to mention..."
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Width = width - 6

	return Model{
		input:    ti,
		composer: mention.NewComposer(nil),
		store:    s,
		width:    width,
		height:   height,
	}
}

// SetMembers replaces the composer's candidate directory.
func (m *Model) SetMembers(members []model.Member) {
	candidates := make([]mention.Candidate, len(members))
	for i, member := range members {
		candidates[i] = mention.Candidate{ID: member.ID, Name: member.Name}
	}
	m.composer.SetMembers(candidates)
}

// StartCreate initializes the editor for a fresh note by authorID.
func (m *Model) StartCreate(authorID string) tea.Cmd {
	m.editID = ""
	m.originalContent = ""
	m.authorID = authorID
	m.focused = true
	m.input.Reset()
	m.composer.Cancel()
	return m.input.Focus()
}

// StartEdit initializes the editor with an existing note's content.
func (m *Model) StartEdit(note model.Note) tea.Cmd {
	m.editID = note.ID
	m.originalContent = note.Content
	m.authorID = note.AuthorID
	m.focused = true
	m.input.SetValue(note.Content)
	m.input.CursorEnd()
	m.composer.Cancel()
	return m.input.Focus()
}

// Blur reports focus loss to the editor. The composition survives the
// grace delay so a transient blur does not drop it.
func (m *Model) Blur() tea.Cmd {
	m.focused = false
	m.input.Blur()
	return tea.Tick(blurGraceDelay, func(time.Time) tea.Msg {
		return blurTimeoutMsg{}
	})
}

// Focus restores focus to the editor.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return m.input.Focus()
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the editor.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case blurTimeoutMsg:
		if !m.focused {
			m.composer.Cancel()
		}
		return m, nil

	case tea.KeyMsg:
		if m.composer.State() == mention.StateComposing {
			if handled, cmd := m.handleComposingKey(msg); handled {
				return m, cmd
			}
		} else {
			switch msg.String() {
			case "enter":
				return m, m.save()
			case "esc":
				return m, func() tea.Msg { return EditorCancelMsg{} }
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.syncComposer()
	return m, cmd
}

// handleComposingKey intercepts keys that drive the dropdown while a
// mention is being composed. Unhandled keys fall through to the input.
func (m *Model) handleComposingKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "down":
		m.composer.MoveHighlight(1)
		return true, nil
	case "up":
		m.composer.MoveHighlight(-1)
		return true, nil
	case "esc":
		// Discards the query, not the content.
		m.composer.Cancel()
		return true, nil
	case "enter", "tab":
		m.commitMention()
		return true, nil
	}
	return false, nil
}

// commitMention replaces the @query span with the canonical token for
// the highlighted candidate and repositions the cursor after it.
func (m *Model) commitMention() {
	text := m.input.Value()
	cursor := byteOffset(text, m.input.Position())

	newText, newCursor, ok := m.composer.Commit(text, cursor)
	if !ok {
		return
	}

	m.input.SetValue(newText)
	m.input.SetCursor(runeOffset(newText, newCursor))
}

// syncComposer feeds the current text and cursor to the state machine.
func (m *Model) syncComposer() {
	text := m.input.Value()
	m.composer.UpdateText(text, byteOffset(text, m.input.Position()))
}

// save persists the note and reports the result. Creates insert a new
// note; edits rewrite content in place (last write wins).
func (m Model) save() tea.Cmd {
	content := m.input.Value()
	if content == "" {
		return func() tea.Msg { return EditorCancelMsg{} }
	}

	s := m.store
	editID := m.editID
	authorID := m.authorID
	changed := content != m.originalContent

	return func() tea.Msg {
		ctx := context.Background()

		if editID == "" {
			note := model.Note{
				ID:       uuid.New().String(),
				Content:  content,
				AuthorID: authorID,
			}
			if err := s.CreateNote(ctx, note); err != nil {
				return NoteSavedMsg{Err: err}
			}
			return NoteSavedMsg{Note: note, IsNew: true, ContentChanged: true}
		}

		if err := s.UpdateNoteContent(ctx, editID, content); err != nil {
			return NoteSavedMsg{Err: err}
		}
		note, err := s.GetNoteByID(ctx, editID)
		if err != nil {
			return NoteSavedMsg{Err: err}
		}
		return NoteSavedMsg{Note: *note, ContentChanged: changed}
	}
}

// View renders the editor with the candidate dropdown underneath while
// composing.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := "New Note"
	if m.editID != "" {
		title = "Edit Note"
	}

	parts := []string{titleStyle.Render(title), m.input.View()}

	if dropdown := m.renderDropdown(); dropdown != "" {
		parts = append(parts, dropdown)
	}

	parts = append(parts, theme.HelpStyle.Render(
		"enter save · esc cancel · @ mention · ↑/↓ pick · tab insert",
	))

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// renderDropdown draws the filtered candidate list with the highlight.
func (m Model) renderDropdown() string {
	if m.composer.State() != mention.StateComposing {
		return ""
	}

	candidates := m.composer.Candidates()
	if len(candidates) == 0 {
		return theme.DropdownStyle.Render(
			theme.HelpStyle.Render(fmt.Sprintf("no members match %q", m.composer.Query())),
		)
	}

	lines := make([]string, len(candidates))
	for i, c := range candidates {
		if i == m.composer.HighlightIndex() {
			lines[i] = theme.SelectedItemStyle.Render("@" + c.Name)
		} else {
			lines[i] = theme.ListItemStyle.Render("@" + c.Name)
		}
	}

	return theme.DropdownStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the editor dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// byteOffset converts the input's rune cursor position to a byte
// offset into text.
func byteOffset(text string, runePos int) int {
	runes := []rune(text)
	if runePos < 0 {
		runePos = 0
	}
	if runePos > len(runes) {
		runePos = len(runes)
	}
	return len(string(runes[:runePos]))
}

// runeOffset converts a byte offset into text to a rune position.
func runeOffset(text string, byteOff int) int {
	if byteOff < 0 {
		byteOff = 0
	}
	if byteOff > len(text) {
		byteOff = len(text)
	}
	return len([]rune(text[:byteOff]))
}
