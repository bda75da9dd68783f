package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/teamboard/internal/model"
)

// CreateNotification inserts a notification with a store-assigned
// timestamp and read=false. If the notification has no ID, a new UUID
// is generated. The stored record is returned.
func (s *SQLiteStore) CreateNotification(
	ctx context.Context,
	n model.Notification,
) (model.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.Read = false
	n.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, recipient_id, type, title, link, read, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)`,
		n.ID, n.RecipientID, string(n.Type), n.Title, n.Link, n.CreatedAt,
	)
	if err != nil {
		return model.Notification{}, fmt.Errorf("creating notification: %w", err)
	}

	return n, nil
}

// GetNotifications retrieves the recipient's notifications, newest
// first, capped at limit (no cap when limit <= 0). Insertion order
// breaks creation-time ties.
func (s *SQLiteStore) GetNotifications(
	ctx context.Context,
	recipientID string,
	limit int,
) ([]model.Notification, error) {
	query := `
		SELECT * FROM notifications WHERE recipient_id = ?
		ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{recipientID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying notifications for %s: %w", recipientID, err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// CountNotifications returns the size of the recipient's log.
func (s *SQLiteStore) CountNotifications(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM notifications WHERE recipient_id = ?", recipientID,
	)
	if err != nil {
		return 0, fmt.Errorf("counting notifications for %s: %w", recipientID, err)
	}
	return count, nil
}

// CountUnreadNotifications returns how many of the recipient's
// notifications are unread.
func (s *SQLiteStore) CountUnreadNotifications(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND read = 0", recipientID,
	)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications for %s: %w", recipientID, err)
	}
	return count, nil
}

// PruneNotifications deletes all but the newest keep entries of the
// recipient's log in a single transaction, oldest entries first.
// Returns the number of deleted entries.
func (s *SQLiteStore) PruneNotifications(
	ctx context.Context,
	recipientID string,
	keep int,
) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning prune transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM notifications WHERE recipient_id = ?", recipientID,
	); err != nil {
		return 0, fmt.Errorf("counting notifications for %s: %w", recipientID, err)
	}

	excess := count - keep
	if excess <= 0 {
		return 0, nil
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM notifications WHERE id IN (
			SELECT id FROM notifications WHERE recipient_id = ?
			ORDER BY created_at ASC, rowid ASC LIMIT ?
		)`,
		recipientID, excess,
	)
	if err != nil {
		return 0, fmt.Errorf("pruning notifications for %s: %w", recipientID, err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading prune row count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing prune for %s: %w", recipientID, err)
	}

	return int(deleted), nil
}

// MarkNotificationRead marks a single notification as read. Idempotent.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, recipientID, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE recipient_id = ? AND id = ?",
		recipientID, id,
	)
	if err != nil {
		return fmt.Errorf("marking notification %s as read: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead marks every unread notification of the
// recipient as read in one statement. Idempotent.
func (s *SQLiteStore) MarkAllNotificationsRead(ctx context.Context, recipientID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE recipient_id = ? AND read = 0",
		recipientID,
	)
	if err != nil {
		return fmt.Errorf("marking all notifications read for %s: %w", recipientID, err)
	}
	return nil
}

// DeleteAllNotifications removes the recipient's entire log. Succeeds
// trivially when the log is already empty.
func (s *SQLiteStore) DeleteAllNotifications(ctx context.Context, recipientID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE recipient_id = ?", recipientID,
	)
	if err != nil {
		return fmt.Errorf("deleting notifications for %s: %w", recipientID, err)
	}
	return nil
}

// scanNotification scans a notification row from a sqlx.Rows result set.
func scanNotification(rows *sqlx.Rows) (model.Notification, error) {
	var (
		n         model.Notification
		typeStr   string
		readInt   int
		createdAt time.Time
	)

	err := rows.Scan(
		&n.ID, &n.RecipientID, &typeStr, &n.Title, &n.Link,
		&readInt, &createdAt,
	)
	if err != nil {
		return model.Notification{}, fmt.Errorf("scanning notification row: %w", err)
	}

	n.Type = model.NotificationType(typeStr)
	n.Read = readInt != 0
	n.CreatedAt = createdAt

	return n, nil
}
