// Package fanout turns saved note content into per-recipient mention
// notifications.
package fanout

import "github.com/nhle/teamboard/internal/mention"

// Resolve returns the recipients that a save of content should notify:
// every mentioned target id except the author. Duplicate mentions
// collapse; order follows first occurrence. Content without mentions
// yields nil.
func Resolve(content, authorID string) []string {
	var recipients []string
	for _, id := range mention.ExtractTargetIDs(content) {
		if id == authorID {
			continue
		}
		recipients = append(recipients, id)
	}
	return recipients
}
