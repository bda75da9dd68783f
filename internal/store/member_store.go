package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/teamboard/internal/model"
)

// CreateMember inserts a new member. If the member has no ID, a new
// UUID is generated.
func (s *SQLiteStore) CreateMember(ctx context.Context, m model.Member) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO members (id, name, email, role, admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Role, boolToInt(m.Admin), now, now,
	)
	if err != nil {
		return fmt.Errorf("creating member %s: %w", m.ID, err)
	}
	return nil
}

// UpdateMember updates an existing member's directory fields.
func (s *SQLiteStore) UpdateMember(ctx context.Context, m model.Member) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE members SET name = ?, email = ?, role = ?, admin = ?, updated_at = ?
		WHERE id = ?`,
		m.Name, m.Email, m.Role, boolToInt(m.Admin), time.Now().UTC(), m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating member %s: %w", m.ID, err)
	}
	return nil
}

// DeleteMember removes a member by ID. Mention tokens that reference
// the member stay valid in persisted content; only the directory entry
// goes away.
func (s *SQLiteStore) DeleteMember(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM members WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting member %s: %w", id, err)
	}
	return nil
}

// GetMembers retrieves all members ordered by name.
func (s *SQLiteStore) GetMembers(ctx context.Context) ([]model.Member, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM members ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// GetMemberByID retrieves a single member by ID.
func (s *SQLiteStore) GetMemberByID(ctx context.Context, id string) (*model.Member, error) {
	var (
		m         model.Member
		adminInt  int
		createdAt time.Time
		updatedAt time.Time
	)

	row := s.db.QueryRowxContext(ctx, "SELECT * FROM members WHERE id = ?", id)
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &adminInt, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting member %s: %w", id, err)
	}

	m.Admin = adminInt != 0
	m.CreatedAt = createdAt
	m.UpdatedAt = updatedAt
	return &m, nil
}

// scanMember scans a member row from a sqlx.Rows result set.
func scanMember(rows *sqlx.Rows) (model.Member, error) {
	var (
		m         model.Member
		adminInt  int
		createdAt time.Time
		updatedAt time.Time
	)

	err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &adminInt, &createdAt, &updatedAt)
	if err != nil {
		return model.Member{}, fmt.Errorf("scanning member row: %w", err)
	}

	m.Admin = adminInt != 0
	m.CreatedAt = createdAt
	m.UpdatedAt = updatedAt
	return m, nil
}
