package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/teamboard/internal/model"
	"github.com/nhle/teamboard/internal/store"
	"github.com/nhle/teamboard/tests/testutil"
)

func appendNotification(t *testing.T, s store.Store, recipientID, title string) model.Notification {
	t.Helper()

	n, err := s.CreateNotification(context.Background(), model.Notification{
		RecipientID: recipientID,
		Type:        model.NotificationMention,
		Title:       title,
	})
	require.NoError(t, err)
	return n
}

func TestCreateNotificationStartsUnread(t *testing.T) {
	s := testutil.NewTestStore(t)

	n, err := s.CreateNotification(context.Background(), model.Notification{
		RecipientID: "u1",
		Type:        model.NotificationMention,
		Title:       "Jane mentioned you in a note",
		Read:        true,
	})
	require.NoError(t, err)

	// Read state is store-owned; a caller cannot insert pre-read entries.
	assert.False(t, n.Read)
	assert.NotEmpty(t, n.ID)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestGetNotificationsNewestFirst(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		appendNotification(t, s, "u1", fmt.Sprintf("entry %d", i))
	}

	entries, err := s.GetNotifications(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	for i, n := range entries {
		assert.Equal(t, fmt.Sprintf("entry %d", 4-i), n.Title)
	}
}

func TestGetNotificationsScopedToRecipient(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	appendNotification(t, s, "u1", "for u1")
	appendNotification(t, s, "u2", "for u2")

	entries, err := s.GetNotifications(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "for u1", entries[0].Title)
}

func TestPruneNotificationsKeepsNewest(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		appendNotification(t, s, "u1", fmt.Sprintf("entry %d", i))
	}

	deleted, err := s.PruneNotifications(ctx, "u1", 5)
	require.NoError(t, err)
	assert.Equal(t, 7, deleted)

	entries, err := s.GetNotifications(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	// The oldest entries were evicted; the newest five survive.
	assert.Equal(t, "entry 11", entries[0].Title)
	assert.Equal(t, "entry 7", entries[4].Title)
}

func TestPruneNotificationsBelowKeepIsNoop(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	appendNotification(t, s, "u1", "only")

	deleted, err := s.PruneNotifications(ctx, "u1", 5)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)

	count, err := s.CountNotifications(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPruneNotificationsLeavesOtherRecipients(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		appendNotification(t, s, "u1", "u1 entry")
	}
	appendNotification(t, s, "u2", "u2 entry")

	_, err := s.PruneNotifications(ctx, "u1", 2)
	require.NoError(t, err)

	count, err := s.CountNotifications(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMarkNotificationRead(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	n := appendNotification(t, s, "u1", "entry")

	require.NoError(t, s.MarkNotificationRead(ctx, "u1", n.ID))
	// Idempotent.
	require.NoError(t, s.MarkNotificationRead(ctx, "u1", n.ID))

	unread, err := s.CountUnreadNotifications(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, unread)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	appendNotification(t, s, "u1", "a")
	appendNotification(t, s, "u1", "b")
	appendNotification(t, s, "u2", "c")

	require.NoError(t, s.MarkAllNotificationsRead(ctx, "u1"))

	unread, err := s.CountUnreadNotifications(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, unread)

	// The other recipient's log is untouched.
	unread, err = s.CountUnreadNotifications(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
}

func TestDeleteAllNotifications(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	appendNotification(t, s, "u1", "a")
	appendNotification(t, s, "u1", "b")

	require.NoError(t, s.DeleteAllNotifications(ctx, "u1"))

	count, err := s.CountNotifications(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Deleting an already-empty log succeeds.
	require.NoError(t, s.DeleteAllNotifications(ctx, "u1"))
}
