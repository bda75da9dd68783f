package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/teamboard/internal/credential"
	"github.com/nhle/teamboard/internal/model"
	"github.com/nhle/teamboard/internal/ui/notefeed"
)

// membersLoadedMsg carries the refreshed member directory.
type membersLoadedMsg struct {
	members []model.Member
}

// unreadCountMsg carries the number of unread notifications for the
// header badge.
type unreadCountMsg struct {
	count int
}

// sessionCheckedMsg reports the first-login check. reset is true when
// a stale notification log was cleared for a new session.
type sessionCheckedMsg struct {
	reset bool
	err   error
}

// fanoutDoneMsg reports how many members a note save notified.
type fanoutDoneMsg struct {
	delivered int
}

// digestWrittenMsg reports a digest export from the command palette.
type digestWrittenMsg struct {
	path string
	err  error
}

// loadMembers returns a command that reads the member directory.
func (m Model) loadMembers() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		members, err := s.GetMembers(context.Background())
		if err != nil {
			m.log.Error().Err(err).Msg("load members failed")
			return membersLoadedMsg{members: nil}
		}
		return membersLoadedMsg{members: members}
	}
}

// fetchUnreadCount returns a command that counts unread notifications
// for the signed-in member.
func (m Model) fetchUnreadCount() tea.Cmd {
	svc := m.notify
	recipientID := m.cfg.User.ID
	return func() tea.Msg {
		if recipientID == "" {
			return unreadCountMsg{count: 0}
		}
		count, err := svc.Unread(context.Background(), recipientID)
		if err != nil {
			return unreadCountMsg{count: 0}
		}
		return unreadCountMsg{count: count}
	}
}

// checkFirstLogin clears the notification log the first time a member
// signs in on this machine, then marks the session in the keyring so
// later launches keep the log.
func (m Model) checkFirstLogin() tea.Cmd {
	svc := m.notify
	memberID := m.cfg.User.ID
	return func() tea.Msg {
		if memberID == "" {
			return sessionCheckedMsg{}
		}

		seen, err := credential.HasSession(memberID)
		if err != nil {
			return sessionCheckedMsg{err: err}
		}
		if seen {
			return sessionCheckedMsg{}
		}

		if err := svc.DeleteAll(context.Background(), memberID); err != nil {
			return sessionCheckedMsg{err: err}
		}
		if err := credential.MarkSession(memberID); err != nil {
			return sessionCheckedMsg{err: err}
		}
		return sessionCheckedMsg{reset: true}
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "quit", "q":
		m.notifView.Stop()
		return tea.Quit
	case "new", "new note":
		return func() tea.Msg { return notefeed.NewNoteMsg{} }
	case "members":
		m.previousView = ViewFeed
		m.currentView = ViewMembers
		return m.memberView.Init()
	case "notifications":
		if m.currentUser.ID == "" {
			m.currentView = ViewFeed
			return nil
		}
		m.previousView = ViewFeed
		m.currentView = ViewNotifications
		return m.notifView.Start(m.currentUser)
	case "read all":
		svc := m.notify
		recipientID := m.currentUser.ID
		return func() tea.Msg {
			if recipientID == "" {
				return unreadCountMsg{count: 0}
			}
			if err := svc.MarkAllRead(context.Background(), recipientID); err != nil {
				return unreadCountMsg{count: 0}
			}
			count, _ := svc.Unread(context.Background(), recipientID)
			return unreadCountMsg{count: count}
		}
	case "unpin":
		if !m.currentUser.Admin {
			return nil
		}
		s := m.store
		return func() tea.Msg {
			return notefeed.PinChangedMsg{Err: s.SetPinned(context.Background(), "")}
		}
	case "digest":
		if m.currentUser.ID == "" {
			return nil
		}
		return m.exportDigest()
	default:
		return nil
	}
}

// exportDigest writes the signed-in member's unread notifications to
// the email outbox.
func (m *Model) exportDigest() tea.Cmd {
	svc := m.notify
	digests := m.digests
	recipient := m.currentUser
	return func() tea.Msg {
		entries, err := svc.Recent(context.Background(), recipient.ID, 0)
		if err != nil {
			return digestWrittenMsg{err: err}
		}
		var unread []model.Notification
		for _, n := range entries {
			if !n.Read {
				unread = append(unread, n)
			}
		}
		if len(unread) == 0 {
			return digestWrittenMsg{}
		}
		path, err := digests.Write(recipient, unread)
		return digestWrittenMsg{path: path, err: err}
	}
}

// dispatchMentions resolves the note's mention targets and appends a
// notification for each, excluding the author.
func (m Model) dispatchMentions(note model.Note) tea.Cmd {
	dispatcher := m.dispatcher
	authorName := "someone"
	for _, member := range m.members {
		if member.ID == note.AuthorID {
			authorName = member.Name
			break
		}
	}
	return func() tea.Msg {
		delivered := dispatcher.Dispatch(context.Background(), note, authorName)
		return fanoutDoneMsg{delivered: delivered}
	}
}
