package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nhle/teamboard/internal/digest"
	"github.com/nhle/teamboard/internal/fanout"
	"github.com/nhle/teamboard/internal/keys"
	"github.com/nhle/teamboard/internal/model"
	"github.com/nhle/teamboard/internal/notify"
	"github.com/nhle/teamboard/internal/store"
	"github.com/nhle/teamboard/internal/ui"
	"github.com/nhle/teamboard/internal/ui/command"
	helpview "github.com/nhle/teamboard/internal/ui/help"
	"github.com/nhle/teamboard/internal/ui/membermgr"
	"github.com/nhle/teamboard/internal/ui/noteeditor"
	"github.com/nhle/teamboard/internal/ui/notefeed"
	"github.com/nhle/teamboard/internal/ui/notiffeed"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewFeed ViewState = iota
	ViewEditor
	ViewNotifications
	ViewMembers
	ViewHelp
	ViewCommand
)

// Model is the root Bubble Tea model that manages view routing,
// layout, and the mention fan-out around note saves.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        store.Store
	keys         *keys.KeyMap
	cfg          *model.AppConfig
	notify       *notify.Service
	dispatcher   *fanout.Dispatcher
	digests      *digest.Writer
	log          zerolog.Logger

	feed        notefeed.Model
	editor      noteeditor.Model
	notifView   notiffeed.Model
	memberView  membermgr.Model
	helpView    helpview.Model
	commandView command.Model

	members     []model.Member
	currentUser model.Member
	unreadCount int
	statusMsg   string
	ready       bool
}

// New creates a new root application model with the given store and
// services.
func New(
	s store.Store,
	cfg *model.AppConfig,
	svc *notify.Service,
	digests *digest.Writer,
	log zerolog.Logger,
) Model {
	k := keys.DefaultKeyMap()

	return Model{
		currentView: ViewFeed,
		store:       s,
		keys:        k,
		cfg:         cfg,
		notify:      svc,
		dispatcher:  fanout.NewDispatcher(svc, log),
		digests:     digests,
		log:         log,
		feed:        notefeed.New(s, k, 80, 24),
		editor:      noteeditor.New(s, 80, 24),
		notifView:   notiffeed.New(svc, digests, k, 80, 24),
		memberView:  membermgr.New(s, k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
	}
}

// Init loads the member directory and runs the first-login check
// before the feed shows anything.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadMembers(),
		m.checkFirstLogin(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.feed.SetSize(contentWidth, contentHeight)
		m.editor.SetSize(contentWidth, contentHeight)
		m.notifView.SetSize(contentWidth, contentHeight)
		m.memberView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case membersLoadedMsg:
		m.members = msg.members
		m.feed.SetMembers(msg.members)
		m.editor.SetMembers(msg.members)
		m.currentUser = model.Member{}
		for _, member := range msg.members {
			if member.ID == m.cfg.User.ID {
				m.currentUser = member
				break
			}
		}
		m.feed.SetCanPin(m.currentUser.Admin)
		return m, tea.Batch(m.feed.LoadNotes(), m.fetchUnreadCount())

	case sessionCheckedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("first-login check failed")
		} else if msg.reset {
			m.statusMsg = "notification log reset for new session"
		}
		return m, m.fetchUnreadCount()

	case unreadCountMsg:
		m.unreadCount = msg.count
		return m, nil

	case notefeed.NewNoteMsg:
		if m.currentUser.ID == "" {
			m.statusMsg = "set user.id in the config to write notes"
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewEditor
		return m, tea.Batch(m.editor.StartCreate(m.currentUser.ID), m.editor.Init())

	case notefeed.EditNoteMsg:
		m.previousView = m.currentView
		m.currentView = ViewEditor
		return m, tea.Batch(m.editor.StartEdit(msg.Note), m.editor.Init())

	case noteeditor.NoteSavedMsg:
		m.currentView = ViewFeed
		blurCmd := m.editor.Blur()
		if msg.Err != nil {
			m.statusMsg = "save failed: " + msg.Err.Error()
			return m, tea.Batch(m.feed.LoadNotes(), blurCmd)
		}
		m.statusMsg = ""
		cmds := []tea.Cmd{m.feed.LoadNotes(), blurCmd}
		// Metadata-only saves do not re-notify; changed content does,
		// even when the mention set is unchanged.
		if msg.ContentChanged {
			cmds = append(cmds, m.dispatchMentions(msg.Note))
		}
		return m, tea.Batch(cmds...)

	case noteeditor.EditorCancelMsg:
		m.currentView = ViewFeed
		return m, m.editor.Blur()

	case digestWrittenMsg:
		switch {
		case msg.err != nil:
			m.statusMsg = "digest failed: " + msg.err.Error()
		case msg.path == "":
			m.statusMsg = "nothing unread to digest"
		default:
			m.statusMsg = "digest written to " + msg.path
		}
		return m, nil

	case fanoutDoneMsg:
		if msg.delivered > 0 {
			m.statusMsg = fmt.Sprintf("notified %d member(s)", msg.delivered)
		}
		return m, m.fetchUnreadCount()

	case notiffeed.CloseMsg:
		m.notifView.Stop()
		m.currentView = ViewFeed
		return m, m.fetchUnreadCount()

	case membermgr.MemberListCloseMsg:
		m.currentView = ViewFeed
		return m, nil

	case membermgr.MembersChangedMsg:
		return m, m.loadMembers()

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		// Global keys. The editor and member forms own their
		// keystrokes entirely, as does the feed's search input.
		if m.currentView == ViewEditor || m.currentView == ViewMembers {
			break
		}
		if m.currentView == ViewFeed && m.feed.InSearch() {
			break
		}

		switch msg.String() {
		case "ctrl+c":
			m.notifView.Stop()
			return m, tea.Quit

		case "q":
			if m.currentView == ViewFeed {
				m.notifView.Stop()
				return m, tea.Quit
			}

		case "?":
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case "N":
			if m.currentView == ViewFeed {
				if m.currentUser.ID == "" {
					m.statusMsg = "set user.id in the config to see notifications"
					return m, nil
				}
				m.previousView = m.currentView
				m.currentView = ViewNotifications
				return m, m.notifView.Start(m.currentUser)
			}

		case "M":
			if m.currentView == ViewFeed {
				m.previousView = m.currentView
				m.currentView = ViewMembers
				return m, m.memberView.Init()
			}

		case ":":
			if m.currentView == ViewCommand {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewCommand
			return m, m.commandView.Focus()
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewFeed:
		m.feed, cmd = m.feed.Update(msg)
	case ViewEditor:
		m.editor, cmd = m.editor.Update(msg)
	case ViewNotifications:
		m.notifView, cmd = m.notifView.Update(msg)
	case ViewMembers:
		m.memberView, cmd = m.memberView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "Teamboard"
	if m.unreadCount > 0 {
		headerTitle = fmt.Sprintf("Teamboard [%d new]", m.unreadCount)
	}
	header := m.layout.RenderHeader(headerTitle, m.userBadge())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewFeed:
		return m.feed.View()
	case ViewEditor:
		return m.editor.View()
	case ViewNotifications:
		return m.notifView.View()
	case ViewMembers:
		return m.memberView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// userBadge returns the signed-in member for the header's right side.
func (m Model) userBadge() string {
	if m.currentUser.ID == "" {
		return "no user"
	}
	if m.currentUser.Admin {
		return m.currentUser.Name + " (admin)"
	}
	return m.currentUser.Name
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMsg != "" && m.currentView == ViewFeed {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close palette | enter execute | esc back"
	case ViewEditor:
		return "enter save | esc cancel | @ mention"
	case ViewNotifications:
		return "r read | R all read | x digest | esc back"
	case ViewMembers:
		return "n new | e edit | d remove | esc back"
	default:
		hints := "q quit | ? help | n new | / search | N notifications | M members"
		if m.currentUser.Admin {
			hints += " | p pin"
		}
		return hints
	}
}
