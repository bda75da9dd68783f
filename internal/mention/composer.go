package mention

import "strings"

// State identifies the composer's current mode.
type State int

const (
	// StateIdle means no mention is being composed at the cursor.
	StateIdle State = iota

	// StateComposing means the cursor sits inside an "@query" span and
	// a candidate list is being offered.
	StateComposing
)

// MaxCandidates caps the number of candidates offered at once.
const MaxCandidates = 8

// Candidate is a member offered for completion.
type Candidate struct {
	ID   string
	Name string
}

// Composer is the mention composition state machine. It is a plain
// value-typed machine driven by the text field that owns it: every
// transition is synchronous and total, and all positions are byte
// offsets into the text it was last shown.
type Composer struct {
	members    []Candidate
	state      State
	queryStart int
	query      string
	candidates []Candidate
	highlight  int
}

// NewComposer creates an idle composer over the given member directory.
func NewComposer(members []Candidate) *Composer {
	return &Composer{members: members}
}

// SetMembers replaces the member directory. If a composition is in
// progress the candidate list is refiltered against the new directory.
func (c *Composer) SetMembers(members []Candidate) {
	c.members = members
	if c.state == StateComposing {
		c.refilter()
	}
}

// State returns the current composer state.
func (c *Composer) State() State { return c.state }

// Query returns the text between the trigger '@' and the cursor.
func (c *Composer) Query() string { return c.query }

// Candidates returns the current filtered candidate list.
func (c *Composer) Candidates() []Candidate { return c.candidates }

// HighlightIndex returns the index of the highlighted candidate.
func (c *Composer) HighlightIndex() int { return c.highlight }

// Highlighted returns the highlighted candidate, if any.
func (c *Composer) Highlighted() (Candidate, bool) {
	if c.state != StateComposing || len(c.candidates) == 0 {
		return Candidate{}, false
	}
	return c.candidates[c.highlight], true
}

// UpdateText recomputes the mention range after a text or cursor
// change. Scanning runs backward from the cursor until a boundary
// (space, tab, newline) or the trigger '@' is found; the trigger wins
// only if it comes first. cursor is a byte offset into text and is
// clamped to its bounds.
func (c *Composer) UpdateText(text string, cursor int) {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(text) {
		cursor = len(text)
	}

	start := -1
	for i := cursor - 1; i >= 0; i-- {
		ch := text[i]
		if ch == ' ' || ch == '\t' || ch == '\n' {
			break
		}
		if ch == '@' {
			start = i
			break
		}
	}

	if start < 0 {
		c.toIdle()
		return
	}

	c.state = StateComposing
	c.queryStart = start
	c.query = text[start+1 : cursor]
	c.refilter()
}

// MoveHighlight advances (delta > 0) or retreats (delta < 0) the
// highlight cyclically. No-op while idle or with no candidates.
func (c *Composer) MoveHighlight(delta int) {
	n := len(c.candidates)
	if c.state != StateComposing || n == 0 {
		return
	}
	c.highlight = ((c.highlight+delta)%n + n) % n
}

// Cancel discards the in-progress composition, leaving the text as-is.
func (c *Composer) Cancel() {
	c.toIdle()
}

// Commit replaces the span [queryStart, cursor) with the canonical
// token for the highlighted candidate plus a trailing space, and
// returns the new text and the byte offset just after that space.
// It returns ok=false (text unchanged) when there is nothing to commit.
func (c *Composer) Commit(text string, cursor int) (newText string, newCursor int, ok bool) {
	cand, ok := c.Highlighted()
	if !ok {
		return text, cursor, false
	}
	if cursor < c.queryStart || cursor > len(text) {
		return text, cursor, false
	}

	token := Encode(cand.Name, cand.ID) + " "
	newText = text[:c.queryStart] + token + text[cursor:]
	newCursor = c.queryStart + len(token)
	c.toIdle()
	return newText, newCursor, true
}

func (c *Composer) toIdle() {
	c.state = StateIdle
	c.queryStart = 0
	c.query = ""
	c.candidates = nil
	c.highlight = 0
}

// refilter rebuilds the candidate list for the current query. The
// highlight resets to 0 whenever the filtered set changes.
func (c *Composer) refilter() {
	q := strings.ToLower(c.query)

	var filtered []Candidate
	for _, m := range c.members {
		if q == "" || strings.Contains(strings.ToLower(m.Name), q) {
			filtered = append(filtered, m)
			if len(filtered) == MaxCandidates {
				break
			}
		}
	}

	if !sameCandidates(c.candidates, filtered) {
		c.highlight = 0
	}
	c.candidates = filtered

	if c.highlight >= len(c.candidates) {
		c.highlight = 0
	}
}

func sameCandidates(a, b []Candidate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
