package notify_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/teamboard/internal/model"
	"github.com/nhle/teamboard/internal/notify"
	"github.com/nhle/teamboard/tests/testutil"
)

func newTestService(t *testing.T, policy notify.CleanupPolicy) *notify.Service {
	t.Helper()
	return notify.NewService(testutil.NewTestStore(t), policy, zerolog.Nop())
}

func appendMention(t *testing.T, svc *notify.Service, recipientID, title string) model.Notification {
	t.Helper()

	n, err := svc.Append(context.Background(), model.Notification{
		RecipientID: recipientID,
		Type:        model.NotificationMention,
		Title:       title,
	})
	require.NoError(t, err)
	return n
}

func TestZeroPolicyFallsBackToDefault(t *testing.T) {
	svc := newTestService(t, notify.CleanupPolicy{})
	assert.Equal(t, notify.DefaultCleanupPolicy, svc.Policy())
}

func TestAppendBelowThresholdKeepsEverything(t *testing.T) {
	svc := newTestService(t, notify.CleanupPolicy{Threshold: 10, Keep: 5})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		appendMention(t, svc, "u1", fmt.Sprintf("entry %d", i))
	}

	entries, err := svc.Recent(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}

func TestAppendOverThresholdPrunesToKeep(t *testing.T) {
	svc := newTestService(t, notify.CleanupPolicy{Threshold: 10, Keep: 5})
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		appendMention(t, svc, "u1", fmt.Sprintf("entry %d", i))
	}

	entries, err := svc.Recent(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	// The newest five survive, newest first.
	assert.Equal(t, "entry 10", entries[0].Title)
	assert.Equal(t, "entry 6", entries[4].Title)
}

func TestDefaultPolicyBound(t *testing.T) {
	svc := newTestService(t, notify.DefaultCleanupPolicy)
	ctx := context.Background()

	for i := 0; i < notify.DefaultCleanupPolicy.Threshold+1; i++ {
		appendMention(t, svc, "u1", fmt.Sprintf("entry %d", i))
	}

	entries, err := svc.Recent(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, entries, notify.DefaultCleanupPolicy.Keep)
}

func TestMarkRead(t *testing.T) {
	svc := newTestService(t, notify.CleanupPolicy{Threshold: 10, Keep: 5})
	ctx := context.Background()

	n := appendMention(t, svc, "u1", "entry")

	unread, err := svc.Unread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	require.NoError(t, svc.MarkRead(ctx, "u1", n.ID))

	unread, err = svc.Unread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, unread)
}

func TestMarkAllRead(t *testing.T) {
	svc := newTestService(t, notify.CleanupPolicy{Threshold: 10, Keep: 5})
	ctx := context.Background()

	appendMention(t, svc, "u1", "a")
	appendMention(t, svc, "u1", "b")

	require.NoError(t, svc.MarkAllRead(ctx, "u1"))

	unread, err := svc.Unread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, unread)

	// Nothing unread left; a second call is a clean no-op.
	require.NoError(t, svc.MarkAllRead(ctx, "u1"))
}

func TestDeleteAll(t *testing.T) {
	svc := newTestService(t, notify.CleanupPolicy{Threshold: 10, Keep: 5})
	ctx := context.Background()

	appendMention(t, svc, "u1", "a")

	require.NoError(t, svc.DeleteAll(ctx, "u1"))

	entries, err := svc.Recent(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Empty log deletes succeed trivially.
	require.NoError(t, svc.DeleteAll(ctx, "u1"))
}

func TestSubscribeDeliversCurrentSnapshot(t *testing.T) {
	svc := newTestService(t, notify.CleanupPolicy{Threshold: 10, Keep: 5})

	appendMention(t, svc, "u1", "before subscribe")

	sub := svc.Subscribe(context.Background(), "u1", 0)
	defer sub.Close()

	entries := <-sub.C()
	require.Len(t, entries, 1)
	assert.Equal(t, "before subscribe", entries[0].Title)
}

func TestSubscribeSeesAppends(t *testing.T) {
	svc := newTestService(t, notify.CleanupPolicy{Threshold: 10, Keep: 5})

	sub := svc.Subscribe(context.Background(), "u1", 0)
	defer sub.Close()

	// Drain the initial empty snapshot.
	<-sub.C()

	appendMention(t, svc, "u1", "fresh")

	entries := <-sub.C()
	require.Len(t, entries, 1)
	assert.Equal(t, "fresh", entries[0].Title)
}

func TestSubscribeCoalescesSnapshots(t *testing.T) {
	svc := newTestService(t, notify.CleanupPolicy{Threshold: 10, Keep: 5})

	sub := svc.Subscribe(context.Background(), "u1", 0)
	defer sub.Close()
	<-sub.C()

	// A slow consumer misses intermediate snapshots; the latest one
	// replaces whatever sits unconsumed in the buffer.
	appendMention(t, svc, "u1", "first")
	appendMention(t, svc, "u1", "second")

	entries := <-sub.C()
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Title)
}

func TestSubscribeEmptyRecipientIsInert(t *testing.T) {
	svc := newTestService(t, notify.CleanupPolicy{Threshold: 10, Keep: 5})

	sub := svc.Subscribe(context.Background(), "", 0)

	_, ok := <-sub.C()
	assert.False(t, ok)

	// Closing an inert subscription is safe.
	sub.Close()
}

func TestCloseReleasesSubscription(t *testing.T) {
	svc := newTestService(t, notify.CleanupPolicy{Threshold: 10, Keep: 5})

	sub := svc.Subscribe(context.Background(), "u1", 0)
	<-sub.C()

	sub.Close()
	sub.Close() // safe to call twice

	_, ok := <-sub.C()
	assert.False(t, ok)

	// Appends after close do not panic on the closed channel.
	appendMention(t, svc, "u1", "after close")
}
