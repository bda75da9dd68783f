package mention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	assert.Equal(t, "@[Jane Doe](u1)", Encode("Jane Doe", "u1"))
}

func TestEncodeStripsDelimiters(t *testing.T) {
	// Brackets and parens in the display name would break the token
	// grammar, so Encode removes them.
	assert.Equal(t, "@[Jane](u1)", Encode("Ja[n]e(", "u1"))
	assert.Equal(t, "@[Jane Doe](u1)", Encode("Jane\nDoe", "u1"))
}

func TestDecodeRoundTrip(t *testing.T) {
	content := "Hey " + Encode("Jane", "u1") + ", see this!"

	segments := Decode(content)
	require.Len(t, segments, 3)

	assert.Equal(t, Segment{Kind: SegmentText, Text: "Hey "}, segments[0])
	assert.Equal(t, Segment{Kind: SegmentMention, Name: "Jane", TargetID: "u1"}, segments[1])
	assert.Equal(t, Segment{Kind: SegmentText, Text: ", see this!"}, segments[2])
}

func TestDecodePlainText(t *testing.T) {
	segments := Decode("no mentions here")
	require.Len(t, segments, 1)
	assert.Equal(t, SegmentText, segments[0].Kind)
	assert.Equal(t, "no mentions here", segments[0].Text)
}

func TestDecodeEmpty(t *testing.T) {
	assert.Nil(t, Decode(""))
}

func TestDecodeMalformedTokensStayLiteral(t *testing.T) {
	cases := []string{
		"@[Jane](",
		"@[Jane]",
		"@[Jane](u1",
		"@[Jane]u1)",
		"@[Jane](id with space)",
		"@[Jane](a[b)",
		"email@example.com (see below)",
	}

	for _, content := range cases {
		segments := Decode(content)
		require.Len(t, segments, 1, "content %q", content)
		assert.Equal(t, SegmentText, segments[0].Kind, "content %q", content)
		assert.Equal(t, content, segments[0].Text, "content %q", content)
	}
}

func TestDecodeAdjacentMentions(t *testing.T) {
	content := Encode("A", "1") + Encode("B", "2")

	segments := Decode(content)
	require.Len(t, segments, 2)
	assert.Equal(t, "1", segments[0].TargetID)
	assert.Equal(t, "2", segments[1].TargetID)
}

func TestExtractTargetIDs(t *testing.T) {
	content := "ping @[Jane](u1) and @[Bob](u2), again @[Jane Doe](u1)"

	ids := ExtractTargetIDs(content)
	assert.Equal(t, []string{"u1", "u2"}, ids)
}

func TestExtractTargetIDsNoMentions(t *testing.T) {
	assert.Nil(t, ExtractTargetIDs("plain text"))
	assert.Nil(t, ExtractTargetIDs(""))
}
