// Package digest renders a recipient's unread notifications as a
// plain-text email message. Messages are written to an outbox
// directory for a local MTA to pick up; the client never speaks SMTP
// itself.
package digest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/nhle/teamboard/internal/model"
)

// Writer renders notification digests into an outbox directory.
type Writer struct {
	outboxDir string
	from      string
}

// NewWriter creates a digest writer. from is the address used in the
// From header of every digest.
func NewWriter(outboxDir, from string) *Writer {
	return &Writer{outboxDir: outboxDir, from: from}
}

// Write renders the given notifications as one email to the recipient
// and stores it in the outbox. It returns the written file path. A
// recipient without an email address or an empty entry list yields an
// error; callers should skip those instead.
func (w *Writer) Write(recipient model.Member, entries []model.Notification) (string, error) {
	if recipient.Email == "" {
		return "", fmt.Errorf("member %s has no email address", recipient.ID)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("nothing to digest for %s", recipient.ID)
	}

	if err := os.MkdirAll(w.outboxDir, 0o755); err != nil {
		return "", fmt.Errorf("creating outbox directory: %w", err)
	}

	name := fmt.Sprintf("digest-%s-%d.eml", recipient.ID, time.Now().UnixNano())
	path := filepath.Join(w.outboxDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating digest file: %w", err)
	}
	defer f.Close()

	if err := w.render(f, recipient, entries); err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}

// render writes a complete RFC 5322 message to out.
func (w *Writer) render(out io.Writer, recipient model.Member, entries []model.Notification) error {
	var h mail.Header
	h.SetDate(time.Now())
	h.SetSubject(fmt.Sprintf("You have %d unread notifications", len(entries)))
	h.SetAddressList("From", []*mail.Address{{Name: "Teamboard", Address: w.from}})
	h.SetAddressList("To", []*mail.Address{{Name: recipient.Name, Address: recipient.Email}})

	mw, err := mail.CreateSingleInlineWriter(out, h)
	if err != nil {
		return fmt.Errorf("creating message writer: %w", err)
	}
	defer mw.Close()

	if _, err := fmt.Fprintf(mw, "Hi %s,\n\nUnread notifications:\n\n", recipient.Name); err != nil {
		return fmt.Errorf("writing digest body: %w", err)
	}
	for _, n := range entries {
		line := fmt.Sprintf("  - [%s] %s (%s)\n",
			n.CreatedAt.Local().Format("Jan 2 15:04"), n.Title, n.Type)
		if _, err := io.WriteString(mw, line); err != nil {
			return fmt.Errorf("writing digest body: %w", err)
		}
	}
	if _, err := io.WriteString(mw, "\nOpen teamboard to catch up.\n"); err != nil {
		return fmt.Errorf("writing digest body: %w", err)
	}

	return nil
}
