package model

import "time"

// Note is a free-form annotated item on the team board. Content is
// stored in canonical form: literal text interleaved with mention
// tokens (see the mention package). Display names inside tokens are
// snapshots and are not re-resolved on read.
type Note struct {
	ID string `json:"id" db:"id"`

	// Content is the canonical encoding of the note body.
	Content string `json:"content" db:"content"`

	// AuthorID is the member who created the note. The author never
	// receives a notification for mentioning themselves.
	AuthorID string `json:"author_id" db:"author_id"`

	// Pinned surfaces the note at the top of the feed. At most one
	// note in the collection is pinned at any settled state.
	Pinned bool `json:"pinned" db:"pinned"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
