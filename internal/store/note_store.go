package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/teamboard/internal/model"
)

// CreateNote inserts a new note. If the note has no ID, a new UUID is
// generated.
func (s *SQLiteStore) CreateNote(ctx context.Context, n model.Note) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (id, content, author_id, pinned, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.Content, n.AuthorID, boolToInt(n.Pinned), now, now,
	)
	if err != nil {
		return fmt.Errorf("creating note %s: %w", n.ID, err)
	}
	return nil
}

// UpdateNoteContent replaces a note's content. Last write wins; pin
// state and authorship are untouched.
func (s *SQLiteStore) UpdateNoteContent(ctx context.Context, id, content string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE notes SET content = ?, updated_at = ? WHERE id = ?`,
		content, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating note %s: %w", id, err)
	}
	return nil
}

// DeleteNote removes a note by ID.
func (s *SQLiteStore) DeleteNote(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting note %s: %w", id, err)
	}
	return nil
}

// GetNoteByID retrieves a single note by its ID.
func (s *SQLiteStore) GetNoteByID(ctx context.Context, id string) (*model.Note, error) {
	var (
		n         model.Note
		pinnedInt int
		createdAt time.Time
		updatedAt time.Time
	)

	row := s.db.QueryRowxContext(ctx, "SELECT * FROM notes WHERE id = ?", id)
	err := row.Scan(&n.ID, &n.Content, &n.AuthorID, &pinnedInt, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting note %s: %w", id, err)
	}

	n.Pinned = pinnedInt != 0
	n.CreatedAt = createdAt
	n.UpdatedAt = updatedAt
	return &n, nil
}

// GetNotes retrieves notes matching the filter, pinned note first,
// then newest first.
func (s *SQLiteStore) GetNotes(ctx context.Context, filter NoteFilter) ([]model.Note, error) {
	var conditions []string
	var args []interface{}

	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "content LIKE ?")
		args = append(args, "%"+*filter.Query+"%")
	}

	query := "SELECT * FROM notes"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY pinned DESC, created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}

// SetPinned enforces the single-pin invariant as one transaction: every
// currently-pinned note other than noteID is unpinned, then noteID (if
// non-empty) is pinned. A reader can never observe two pinned notes.
func (s *SQLiteStore) SetPinned(ctx context.Context, noteID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning pin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE notes SET pinned = 0 WHERE pinned = 1 AND id != ?", noteID,
	); err != nil {
		return fmt.Errorf("unpinning notes: %w", err)
	}

	if noteID != "" {
		if _, err := tx.ExecContext(ctx,
			"UPDATE notes SET pinned = 1 WHERE id = ?", noteID,
		); err != nil {
			return fmt.Errorf("pinning note %s: %w", noteID, err)
		}
	}

	return tx.Commit()
}

// scanNote scans a note row from a sqlx.Rows result set.
func scanNote(rows *sqlx.Rows) (model.Note, error) {
	var (
		n         model.Note
		pinnedInt int
		createdAt time.Time
		updatedAt time.Time
	)

	err := rows.Scan(&n.ID, &n.Content, &n.AuthorID, &pinnedInt, &createdAt, &updatedAt)
	if err != nil {
		return model.Note{}, fmt.Errorf("scanning note row: %w", err)
	}

	n.Pinned = pinnedInt != 0
	n.CreatedAt = createdAt
	n.UpdatedAt = updatedAt
	return n, nil
}
