package notefeed

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/teamboard/internal/mention"
	"github.com/nhle/teamboard/internal/model"
	"github.com/nhle/teamboard/internal/theme"
)

// previewLength caps how much note content a feed line shows.
const previewLength = 80

// noteItem wraps a model.Note so it can be used in a bubbles/list.
type noteItem struct {
	note       model.Note
	authorName string
}

// FilterValue returns the string used for fuzzy filtering.
func (i noteItem) FilterValue() string { return i.note.Content }

// noteDelegate implements list.ItemDelegate for rendering feed lines.
type noteDelegate struct{}

// Height returns the number of lines each item takes.
func (d noteDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d noteDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d noteDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single feed line: pin marker, author, decoded content
// preview with mentions highlighted, relative age.
func (d noteDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(noteItem)
	if !ok {
		return
	}

	pin := "  "
	if ni.note.Pinned {
		pin = theme.PinStyle.Render("📌 ")
	}

	author := ni.authorName
	if author == "" {
		author = "unknown"
	}
	authorBadge := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorBlue).
		Render(author)

	preview := renderPreview(ni.note.Content)
	age := theme.HelpStyle.Render(relativeTime(ni.note.CreatedAt))

	line := fmt.Sprintf("%s%s  %s  %s", pin, authorBadge, preview, age)

	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render(line))
		return
	}
	fmt.Fprint(w, theme.ListItemStyle.Render(line))
}

// renderPreview decodes canonical content and renders a single-line
// preview: literal runs as-is, mentions as their highlighted display
// name. Malformed tokens come back as literal text from the codec, so
// rendering is total.
func renderPreview(content string) string {
	var b strings.Builder
	remaining := previewLength

	for _, seg := range mention.Decode(content) {
		if remaining <= 0 {
			b.WriteString("…")
			break
		}
		switch seg.Kind {
		case mention.SegmentMention:
			name := truncate("@"+seg.Name, remaining)
			b.WriteString(theme.MentionStyle.Render(name))
			remaining -= len([]rune(name))
		default:
			text := truncate(strings.ReplaceAll(seg.Text, "\n", " "), remaining)
			b.WriteString(text)
			remaining -= len([]rune(text))
		}
	}

	return b.String()
}

// truncate caps s at max runes. Styling happens after truncation so an
// escape sequence is never cut mid-way.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// relativeTime formats a timestamp as a short age like "5m" or "2d".
func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
