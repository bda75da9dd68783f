package mention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMembers() []Candidate {
	return []Candidate{
		{ID: "u1", Name: "Jane"},
		{ID: "u2", Name: "James"},
		{ID: "u3", Name: "Amy"},
	}
}

func TestComposerStartsIdle(t *testing.T) {
	c := NewComposer(testMembers())
	assert.Equal(t, StateIdle, c.State())
}

func TestComposerEntersComposingAtTrigger(t *testing.T) {
	c := NewComposer(testMembers())

	text := "Hello @ja"
	c.UpdateText(text, len(text))

	assert.Equal(t, StateComposing, c.State())
	assert.Equal(t, "ja", c.Query())
}

func TestComposerBoundaryEndsComposition(t *testing.T) {
	c := NewComposer(testMembers())

	c.UpdateText("Hello @ja", 9)
	require.Equal(t, StateComposing, c.State())

	// A space after the query puts the cursor past a boundary.
	c.UpdateText("Hello @ja ", 10)
	assert.Equal(t, StateIdle, c.State())
}

func TestComposerCursorBeforeTriggerIsIdle(t *testing.T) {
	c := NewComposer(testMembers())

	c.UpdateText("Hello @ja", 3)
	assert.Equal(t, StateIdle, c.State())
}

func TestComposerFiltersCaseInsensitive(t *testing.T) {
	c := NewComposer(testMembers())

	c.UpdateText("@JA", 3)

	require.Equal(t, StateComposing, c.State())
	require.Len(t, c.Candidates(), 2)
	assert.Equal(t, "Jane", c.Candidates()[0].Name)
	assert.Equal(t, "James", c.Candidates()[1].Name)
}

func TestComposerEmptyQueryOffersAll(t *testing.T) {
	c := NewComposer(testMembers())

	c.UpdateText("@", 1)
	assert.Len(t, c.Candidates(), 3)
}

func TestComposerCapsCandidates(t *testing.T) {
	members := make([]Candidate, MaxCandidates+4)
	for i := range members {
		members[i] = Candidate{ID: string(rune('a' + i)), Name: "Member"}
	}
	c := NewComposer(members)

	c.UpdateText("@mem", 4)
	assert.Len(t, c.Candidates(), MaxCandidates)
}

func TestComposerHighlightWraps(t *testing.T) {
	c := NewComposer(testMembers())
	c.UpdateText("@ja", 3)
	require.Len(t, c.Candidates(), 2)

	assert.Equal(t, 0, c.HighlightIndex())
	c.MoveHighlight(1)
	assert.Equal(t, 1, c.HighlightIndex())
	c.MoveHighlight(1)
	assert.Equal(t, 0, c.HighlightIndex())
	c.MoveHighlight(-1)
	assert.Equal(t, 1, c.HighlightIndex())
}

func TestComposerHighlightResetsWhenSetChanges(t *testing.T) {
	c := NewComposer(testMembers())

	c.UpdateText("@ja", 3)
	c.MoveHighlight(1)
	require.Equal(t, 1, c.HighlightIndex())

	// Narrowing the query changes the candidate set.
	c.UpdateText("@jan", 4)
	require.Len(t, c.Candidates(), 1)
	assert.Equal(t, 0, c.HighlightIndex())
}

func TestComposerCommitReplacesSpan(t *testing.T) {
	c := NewComposer(testMembers())

	text := "Hello @ja"
	c.UpdateText(text, len(text))

	newText, newCursor, ok := c.Commit(text, len(text))
	require.True(t, ok)
	assert.Equal(t, "Hello @[Jane](u1) ", newText)
	assert.Equal(t, len(newText), newCursor)
	assert.Equal(t, StateIdle, c.State())
}

func TestComposerCommitMidText(t *testing.T) {
	c := NewComposer(testMembers())

	text := "ask @am about it"
	cursor := len("ask @am")
	c.UpdateText(text, cursor)
	require.Equal(t, "am", c.Query())

	// "am" is a substring of both James and Amy; pick Amy.
	require.Len(t, c.Candidates(), 2)
	c.MoveHighlight(1)

	newText, newCursor, ok := c.Commit(text, cursor)
	require.True(t, ok)
	assert.Equal(t, "ask @[Amy](u3)  about it", newText)
	assert.Equal(t, len("ask @[Amy](u3) "), newCursor)
}

func TestComposerCommitWithoutCandidates(t *testing.T) {
	c := NewComposer(testMembers())

	text := "@zzz"
	c.UpdateText(text, len(text))
	require.Empty(t, c.Candidates())

	newText, newCursor, ok := c.Commit(text, len(text))
	assert.False(t, ok)
	assert.Equal(t, text, newText)
	assert.Equal(t, len(text), newCursor)
}

func TestComposerCancelKeepsText(t *testing.T) {
	c := NewComposer(testMembers())

	c.UpdateText("@ja", 3)
	require.Equal(t, StateComposing, c.State())

	c.Cancel()
	assert.Equal(t, StateIdle, c.State())
	assert.Empty(t, c.Candidates())
}

func TestComposerSetMembersRefilters(t *testing.T) {
	c := NewComposer(nil)

	c.UpdateText("@ja", 3)
	require.Equal(t, StateComposing, c.State())
	require.Empty(t, c.Candidates())

	c.SetMembers(testMembers())
	assert.Len(t, c.Candidates(), 2)
}
