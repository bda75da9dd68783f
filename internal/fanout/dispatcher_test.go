package fanout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/teamboard/internal/fanout"
	"github.com/nhle/teamboard/internal/mention"
	"github.com/nhle/teamboard/internal/model"
	"github.com/nhle/teamboard/internal/notify"
	"github.com/nhle/teamboard/internal/store"
	"github.com/nhle/teamboard/tests/testutil"
)

// failingRecipientStore rejects inserts for one recipient and delegates
// everything else to the wrapped store.
type failingRecipientStore struct {
	store.Store
	failFor string
}

func (s failingRecipientStore) CreateNotification(
	ctx context.Context,
	n model.Notification,
) (model.Notification, error) {
	if n.RecipientID == s.failFor {
		return model.Notification{}, errors.New("database is locked")
	}
	return s.Store.CreateNotification(ctx, n)
}

func TestDispatchNotifiesEachMentionedMember(t *testing.T) {
	svc := notify.NewService(testutil.NewTestStore(t), notify.CleanupPolicy{}, zerolog.Nop())
	d := fanout.NewDispatcher(svc, zerolog.Nop())
	ctx := context.Background()

	note := model.Note{
		ID:       "n1",
		AuthorID: "u1",
		Content:  "ping " + mention.Encode("Bob", "u2") + " and " + mention.Encode("Amy", "u3"),
	}

	delivered := d.Dispatch(ctx, note, "Jane")
	assert.Equal(t, 2, delivered)

	entries, err := svc.Recent(ctx, "u2", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.NotificationMention, entries[0].Type)
	assert.Equal(t, "Jane mentioned you in a note", entries[0].Title)
	assert.Equal(t, "note:n1", entries[0].Link)
	assert.False(t, entries[0].Read)

	entries, err = svc.Recent(ctx, "u3", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDispatchSkipsAuthor(t *testing.T) {
	svc := notify.NewService(testutil.NewTestStore(t), notify.CleanupPolicy{}, zerolog.Nop())
	d := fanout.NewDispatcher(svc, zerolog.Nop())
	ctx := context.Background()

	note := model.Note{
		ID:       "n1",
		AuthorID: "u1",
		Content:  "reminder for " + mention.Encode("Jane", "u1"),
	}

	assert.Equal(t, 0, d.Dispatch(ctx, note, "Jane"))

	entries, err := svc.Recent(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDispatchOncePerMemberPerSave(t *testing.T) {
	svc := notify.NewService(testutil.NewTestStore(t), notify.CleanupPolicy{}, zerolog.Nop())
	d := fanout.NewDispatcher(svc, zerolog.Nop())
	ctx := context.Background()

	note := model.Note{
		ID:       "n1",
		AuthorID: "u1",
		Content:  mention.Encode("Bob", "u2") + " twice: " + mention.Encode("Bob", "u2"),
	}

	assert.Equal(t, 1, d.Dispatch(ctx, note, "Jane"))

	entries, err := svc.Recent(ctx, "u2", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDispatchOneFailureDoesNotAbortRest(t *testing.T) {
	failing := failingRecipientStore{Store: testutil.NewTestStore(t), failFor: "u3"}
	svc := notify.NewService(failing, notify.CleanupPolicy{}, zerolog.Nop())
	d := fanout.NewDispatcher(svc, zerolog.Nop())
	ctx := context.Background()

	// u3 sits between u2 and u4 so a failure mid-loop must not stop
	// delivery to the recipients after it.
	note := model.Note{
		ID:       "n1",
		AuthorID: "u1",
		Content: "ping " + mention.Encode("Bob", "u2") +
			" " + mention.Encode("Carol", "u3") +
			" " + mention.Encode("Dave", "u4"),
	}

	delivered := d.Dispatch(ctx, note, "Jane")
	assert.Equal(t, 2, delivered)

	for _, recipientID := range []string{"u2", "u4"} {
		entries, err := svc.Recent(ctx, recipientID, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "recipient %s", recipientID)
	}

	entries, err := svc.Recent(ctx, "u3", 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDispatchNoMentions(t *testing.T) {
	svc := notify.NewService(testutil.NewTestStore(t), notify.CleanupPolicy{}, zerolog.Nop())
	d := fanout.NewDispatcher(svc, zerolog.Nop())

	note := model.Note{ID: "n1", AuthorID: "u1", Content: "no mentions here"}
	assert.Equal(t, 0, d.Dispatch(context.Background(), note, "Jane"))
}
