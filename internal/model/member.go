package model

import "time"

// Member is a person in the team directory. Members are the targets of
// @-mentions and the recipients of notifications.
type Member struct {
	// ID is the durable identifier referenced by mention tokens.
	ID string `json:"id" db:"id"`

	// Name is the display name shown in the composer candidate list
	// and snapshotted into mention tokens at insert time.
	Name string `json:"name" db:"name"`

	// Email is used for the notification digest outbox.
	Email string `json:"email" db:"email"`

	// Role is a free-form job label ("Engineer", "Designer", ...).
	Role string `json:"role" db:"role"`

	// Admin marks privileged members who may pin notes.
	Admin bool `json:"admin" db:"admin"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
