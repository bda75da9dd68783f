package store

import (
	"context"

	"github.com/nhle/teamboard/internal/model"
)

// NoteFilter controls filtering and pagination for note queries.
type NoteFilter struct {
	Query  *string // case-insensitive search over content
	Limit  int
	Offset int
}

// Store defines the persistence interface for members, notes, and
// per-recipient notification logs.
//
// Multi-record mutations (SetPinned, PruneNotifications,
// MarkAllNotificationsRead, DeleteAllNotifications) are each issued as
// a single atomic batch: a reader never observes a partially-applied
// mutation.
type Store interface {
	// === Members ===

	CreateMember(ctx context.Context, m model.Member) error
	UpdateMember(ctx context.Context, m model.Member) error
	DeleteMember(ctx context.Context, id string) error
	GetMembers(ctx context.Context) ([]model.Member, error)
	GetMemberByID(ctx context.Context, id string) (*model.Member, error)

	// === Notes ===

	CreateNote(ctx context.Context, n model.Note) error
	UpdateNoteContent(ctx context.Context, id, content string) error
	DeleteNote(ctx context.Context, id string) error
	GetNoteByID(ctx context.Context, id string) (*model.Note, error)
	GetNotes(ctx context.Context, filter NoteFilter) ([]model.Note, error)

	// SetPinned pins the given note and unpins every other note in one
	// transaction, preserving the at-most-one-pinned invariant. An
	// empty id unpins whatever is pinned. Idempotent; tolerates zero
	// currently-pinned notes.
	SetPinned(ctx context.Context, noteID string) error

	// === Notifications (always scoped to one recipient) ===

	// CreateNotification inserts a notification with a store-assigned
	// id (when empty) and creation timestamp, read=false. The stored
	// record is returned.
	CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error)

	// GetNotifications returns the recipient's newest entries, newest
	// first, capped at limit (no cap when limit <= 0).
	GetNotifications(ctx context.Context, recipientID string, limit int) ([]model.Notification, error)

	CountNotifications(ctx context.Context, recipientID string) (int, error)
	CountUnreadNotifications(ctx context.Context, recipientID string) (int, error)

	// PruneNotifications deletes all but the newest keep entries of the
	// recipient's log in one transaction, oldest first. Returns how
	// many entries were removed.
	PruneNotifications(ctx context.Context, recipientID string, keep int) (int, error)

	MarkNotificationRead(ctx context.Context, recipientID, id string) error
	MarkAllNotificationsRead(ctx context.Context, recipientID string) error
	DeleteAllNotifications(ctx context.Context, recipientID string) error
}
