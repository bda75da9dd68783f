package fanout

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nhle/teamboard/internal/model"
	"github.com/nhle/teamboard/internal/notify"
)

// Dispatcher broadcasts mention notifications after a note save. The
// broadcast is best-effort, at-most-once per save: one recipient's
// failure is logged and skipped, never aborting delivery to the rest.
type Dispatcher struct {
	notify *notify.Service
	log    zerolog.Logger
}

// NewDispatcher creates a dispatcher over the notification service.
func NewDispatcher(n *notify.Service, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{notify: n, log: log}
}

// Dispatch resolves the mention targets of note.Content and appends one
// mention notification per recipient, excluding the author. Call it
// after a content create or content edit, not after metadata-only
// changes such as pin toggles. The number of successful deliveries is
// returned; dispatch itself never fails.
func (d *Dispatcher) Dispatch(ctx context.Context, note model.Note, authorName string) int {
	recipients := Resolve(note.Content, note.AuthorID)

	delivered := 0
	for _, recipientID := range recipients {
		n := model.Notification{
			RecipientID: recipientID,
			Type:        model.NotificationMention,
			Title:       fmt.Sprintf("%s mentioned you in a note", authorName),
			Link:        "note:" + note.ID,
		}
		if _, err := d.notify.Append(ctx, n); err != nil {
			d.log.Error().Err(err).
				Str("recipient", recipientID).
				Str("note", note.ID).
				Msg("mention notification failed")
			continue
		}
		delivered++
	}

	return delivered
}
