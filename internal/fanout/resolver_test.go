package fanout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/teamboard/internal/mention"
)

func TestResolveExcludesAuthor(t *testing.T) {
	content := "hey " + mention.Encode("Bob", "u2") + " and " + mention.Encode("Jane", "u1")

	assert.Equal(t, []string{"u2"}, Resolve(content, "u1"))
}

func TestResolveSelfMentionOnly(t *testing.T) {
	content := "note to self " + mention.Encode("Jane", "u1")

	assert.Empty(t, Resolve(content, "u1"))
}

func TestResolveDeduplicates(t *testing.T) {
	content := mention.Encode("Bob", "u2") + " again " + mention.Encode("Bobby", "u2")

	assert.Equal(t, []string{"u2"}, Resolve(content, "u1"))
}

func TestResolveNoMentions(t *testing.T) {
	assert.Empty(t, Resolve("plain text", "u1"))
}

func TestResolvePreservesFirstOccurrenceOrder(t *testing.T) {
	content := mention.Encode("C", "u3") + " " + mention.Encode("B", "u2") + " " + mention.Encode("C", "u3")

	assert.Equal(t, []string{"u3", "u2"}, Resolve(content, "u1"))
}
