package testutil

import (
	"context"
	"testing"

	"github.com/nhle/teamboard/internal/model"
	"github.com/nhle/teamboard/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// SeedMember inserts a member and returns it.
func SeedMember(t *testing.T, s store.Store, id, name string) model.Member {
	t.Helper()

	member := model.Member{ID: id, Name: name}
	if err := s.CreateMember(context.Background(), member); err != nil {
		t.Fatalf("seeding member %s: %v", id, err)
	}
	return member
}

// SeedNote inserts a note and returns it.
func SeedNote(t *testing.T, s store.Store, id, authorID, content string) model.Note {
	t.Helper()

	note := model.Note{ID: id, Content: content, AuthorID: authorID}
	if err := s.CreateNote(context.Background(), note); err != nil {
		t.Fatalf("seeding note %s: %v", id, err)
	}
	return note
}
