package model

import "time"

// NotificationType identifies the domain event that produced a notification.
type NotificationType string

const (
	NotificationMention      NotificationType = "mention"
	NotificationProjectAdded NotificationType = "project_added"
	NotificationTaskAssigned NotificationType = "task_assigned"
)

// Notification is a single entry in one recipient's notification log.
// Logs are owned exclusively by their recipient; every query is scoped
// to one recipient id.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id" db:"id"`

	// RecipientID is the member whose log owns this entry.
	RecipientID string `json:"recipient_id" db:"recipient_id"`

	// Type identifies which domain event generated this notification.
	Type NotificationType `json:"type" db:"type"`

	// Title is the human-readable notification text.
	Title string `json:"title" db:"title"`

	// Link points at the originating item (e.g., "note:<id>").
	Link string `json:"link" db:"link"`

	// Read indicates whether the recipient has seen this notification.
	Read bool `json:"read" db:"read"`

	// CreatedAt is assigned by the store at insert time.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
