// Package mention implements the canonical encoding of @-mentions and
// the interactive composer state machine used to insert them.
//
// A mention is persisted as the token "@[displayName](targetID)". The
// display name is a snapshot taken at insert time; the target id is the
// durable member identity. Decoding is total: anything that does not
// match the full token grammar is literal text.
package mention

import "strings"

// SegmentKind distinguishes literal text from mention tokens in
// decoded content.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentMention
)

// Segment is one run of decoded content: either literal text or a
// single mention.
type Segment struct {
	Kind SegmentKind

	// Text is the literal run (SegmentText only).
	Text string

	// Name and TargetID describe the mention (SegmentMention only).
	Name     string
	TargetID string
}

// Encode renders a (displayName, targetID) pair as a canonical mention
// token. Characters that would make the token ambiguous are stripped
// from the name; ids are opaque and passed through unchanged.
func Encode(displayName, targetID string) string {
	name := strings.NewReplacer("[", "", "]", "", "(", "", ")", "", "\n", " ").Replace(displayName)
	return "@[" + name + "](" + targetID + ")"
}

// Decode splits canonical content into an ordered sequence of literal
// and mention segments. It never fails: token-like substrings with a
// missing or malformed id degrade to literal text. Content without
// mentions decodes to a single literal segment.
func Decode(content string) []Segment {
	if content == "" {
		return nil
	}

	var segments []Segment
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, Segment{Kind: SegmentText, Text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(content); {
		name, id, width := scanToken(content[i:])
		if width == 0 {
			literal.WriteByte(content[i])
			i++
			continue
		}
		flush()
		segments = append(segments, Segment{Kind: SegmentMention, Name: name, TargetID: id})
		i += width
	}
	flush()

	return segments
}

// ExtractTargetIDs returns the target ids mentioned in content,
// deduplicated, preserving the order of first occurrence. Content
// without mentions yields nil.
func ExtractTargetIDs(content string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, seg := range Decode(content) {
		if seg.Kind != SegmentMention || seen[seg.TargetID] {
			continue
		}
		seen[seg.TargetID] = true
		result = append(result, seg.TargetID)
	}
	return result
}

// scanToken attempts to read a full mention token at the start of s.
// It returns the display name, target id, and the token's byte width,
// or width 0 when s does not start with a well-formed token.
func scanToken(s string) (name, id string, width int) {
	if len(s) < len("@[](x)") || s[0] != '@' || s[1] != '[' {
		return "", "", 0
	}

	nameEnd := strings.Index(s[2:], "]")
	if nameEnd < 0 {
		return "", "", 0
	}
	nameEnd += 2

	if nameEnd+1 >= len(s) || s[nameEnd+1] != '(' {
		return "", "", 0
	}

	idStart := nameEnd + 2
	idEnd := strings.Index(s[idStart:], ")")
	if idEnd < 0 {
		return "", "", 0
	}
	idEnd += idStart

	name = s[2:nameEnd]
	id = s[idStart:idEnd]

	// A token without an id is not a mention; ids containing
	// whitespace or brackets are literal text that merely looks
	// similar (e.g. "(see below)").
	if id == "" || strings.ContainsAny(id, " \t\n[]()") || strings.Contains(name, "\n") {
		return "", "", 0
	}

	return name, id, idEnd + 1
}
