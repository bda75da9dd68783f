package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/teamboard/internal/model"
	"github.com/nhle/teamboard/tests/testutil"
)

func TestMemberCRUD(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateMember(ctx, model.Member{
		ID: "u1", Name: "Jane", Email: "jane@example.com", Role: "Engineer", Admin: true,
	}))

	member, err := s.GetMemberByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", member.Name)
	assert.True(t, member.Admin)

	member.Role = "Lead"
	member.Admin = false
	require.NoError(t, s.UpdateMember(ctx, *member))

	member, err = s.GetMemberByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Lead", member.Role)
	assert.False(t, member.Admin)

	require.NoError(t, s.DeleteMember(ctx, "u1"))
	_, err = s.GetMemberByID(ctx, "u1")
	assert.Error(t, err)
}

func TestCreateMemberGeneratesID(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateMember(ctx, model.Member{Name: "Bob"}))

	members, err := s.GetMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.NotEmpty(t, members[0].ID)
}

func TestGetMembersOrderedByName(t *testing.T) {
	s := testutil.NewTestStore(t)

	testutil.SeedMember(t, s, "u1", "Zoe")
	testutil.SeedMember(t, s, "u2", "Amy")
	testutil.SeedMember(t, s, "u3", "Mia")

	members, err := s.GetMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, "Amy", members[0].Name)
	assert.Equal(t, "Mia", members[1].Name)
	assert.Equal(t, "Zoe", members[2].Name)
}

func TestDeleteMemberKeepsNotes(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	testutil.SeedMember(t, s, "u1", "Jane")
	testutil.SeedNote(t, s, "n1", "u1", "written by jane")

	require.NoError(t, s.DeleteMember(ctx, "u1"))

	note, err := s.GetNoteByID(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "u1", note.AuthorID)
}
