package notiffeed

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/teamboard/internal/digest"
	"github.com/nhle/teamboard/internal/keys"
	"github.com/nhle/teamboard/internal/model"
	"github.com/nhle/teamboard/internal/notify"
	"github.com/nhle/teamboard/internal/theme"
)

// SnapshotMsg carries a fresh log snapshot from the live subscription.
type SnapshotMsg struct {
	Entries []model.Notification
}

// CloseMsg signals the parent to close the notification view.
type CloseMsg struct{}

// actionDoneMsg reports a completed mark-read/digest action.
type actionDoneMsg struct {
	status string
	err    error
}

// Model is the live notification feed for the signed-in member. It is
// fed by a notify.Subscription: every change to the log pushes a new
// newest-first snapshot.
type Model struct {
	svc       *notify.Service
	sub       *notify.Subscription
	digests   *digest.Writer
	keys      *keys.KeyMap
	recipient model.Member
	entries   []model.Notification
	selected  int
	statusMsg string
	width     int
	height    int
}

// New creates a notification feed model.
func New(svc *notify.Service, digests *digest.Writer, k *keys.KeyMap, width, height int) Model {
	return Model{
		svc:     svc,
		digests: digests,
		keys:    k,
		width:   width,
		height:  height,
	}
}

// Start opens the live subscription for the recipient and begins
// listening. Call Stop when leaving the view so the watch is released.
func (m *Model) Start(recipient model.Member) tea.Cmd {
	m.Stop()
	m.recipient = recipient
	m.sub = m.svc.Subscribe(context.Background(), recipient.ID, 0)
	return m.waitForSnapshot()
}

// Stop closes the subscription. Safe to call when none is open.
func (m *Model) Stop() {
	if m.sub != nil {
		m.sub.Close()
		m.sub = nil
	}
}

// waitForSnapshot returns a tea.Cmd that blocks on the subscription
// channel and resurfaces the next snapshot as a SnapshotMsg. After
// processing one, Update re-arms it, mirroring a poller wait loop.
func (m *Model) waitForSnapshot() tea.Cmd {
	sub := m.sub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		entries, ok := <-sub.C()
		if !ok {
			return nil
		}
		return SnapshotMsg{Entries: entries}
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the notification feed.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		m.entries = msg.Entries
		if m.selected >= len(m.entries) && m.selected > 0 {
			m.selected = len(m.entries) - 1
		}
		return m, m.waitForSnapshot()

	case actionDoneMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = msg.status
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.entries) > 0 {
			m.selected = (m.selected + 1) % len(m.entries)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.entries) > 0 {
			m.selected--
			if m.selected < 0 {
				m.selected = len(m.entries) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.MarkRead):
		if m.selected >= len(m.entries) {
			return m, nil
		}
		return m, m.markRead(m.entries[m.selected].ID)

	case key.Matches(msg, m.keys.MarkAllRead):
		return m, m.markAllRead()

	case key.Matches(msg, m.keys.Digest):
		return m, m.exportDigest()
	}
	return m, nil
}

// markRead marks one entry read; the subscription delivers the
// refreshed snapshot.
func (m Model) markRead(id string) tea.Cmd {
	svc := m.svc
	recipientID := m.recipient.ID
	return func() tea.Msg {
		err := svc.MarkRead(context.Background(), recipientID, id)
		return actionDoneMsg{status: "Marked read", err: err}
	}
}

// markAllRead marks the whole log read.
func (m Model) markAllRead() tea.Cmd {
	svc := m.svc
	recipientID := m.recipient.ID
	return func() tea.Msg {
		err := svc.MarkAllRead(context.Background(), recipientID)
		return actionDoneMsg{status: "All read", err: err}
	}
}

// exportDigest writes the unread entries as an email into the outbox.
func (m Model) exportDigest() tea.Cmd {
	recipient := m.recipient
	digests := m.digests

	var unread []model.Notification
	for _, n := range m.entries {
		if !n.Read {
			unread = append(unread, n)
		}
	}

	return func() tea.Msg {
		if len(unread) == 0 {
			return actionDoneMsg{status: "Nothing unread to digest"}
		}
		path, err := digests.Write(recipient, unread)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "Digest written to " + path}
	}
}

// View renders the notification feed.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Notifications")

	if len(m.entries) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render("No notifications.")
		return theme.PanelStyle.
			Width(m.width - 4).
			Render(lipgloss.JoinVertical(lipgloss.Left, title, empty))
	}

	lines := make([]string, 0, len(m.entries)+2)
	lines = append(lines, title)

	for i, n := range m.entries {
		badge := theme.NotificationTypeStyle(string(n.Type)).Render(string(n.Type))

		marker := "  "
		titleText := n.Title
		if !n.Read {
			marker = theme.UnreadStyle.Render("● ")
		} else {
			titleText = lipgloss.NewStyle().Foreground(theme.ColorGray).Render(titleText)
		}

		age := theme.HelpStyle.Render(n.CreatedAt.Local().Format("Jan 2 15:04"))
		line := fmt.Sprintf("%s%s %s  %s", marker, badge, titleText, age)

		if i == m.selected {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = theme.ListItemStyle.Render(line)
		}
		lines = append(lines, line)
	}

	if m.statusMsg != "" {
		lines = append(lines, theme.HelpStyle.Render(m.statusMsg))
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
