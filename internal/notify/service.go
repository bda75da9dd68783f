// Package notify manages per-recipient notification logs: appends with
// threshold-triggered eviction, read-state updates, and live
// subscriptions over the store's change stream.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nhle/teamboard/internal/model"
	"github.com/nhle/teamboard/internal/store"
)

// CleanupPolicy is the soft bound on a recipient's log: once its size
// exceeds Threshold after a write, it is pruned back to the Keep most
// recent entries. The bound is enforced opportunistically, not
// continuously; between writes the log may exceed Threshold.
type CleanupPolicy struct {
	Threshold int
	Keep      int
}

// DefaultCleanupPolicy matches the documented log bound.
var DefaultCleanupPolicy = CleanupPolicy{Threshold: 100, Keep: 50}

// Service owns notification log operations and fans out change
// snapshots to live subscriptions.
type Service struct {
	store  store.Store
	policy CleanupPolicy
	log    zerolog.Logger

	mu   sync.Mutex
	subs map[string][]*Subscription
}

// NewService creates a notification service over the given store. A
// zero-valued policy falls back to DefaultCleanupPolicy.
func NewService(s store.Store, policy CleanupPolicy, log zerolog.Logger) *Service {
	if policy.Threshold <= 0 || policy.Keep <= 0 {
		policy = DefaultCleanupPolicy
	}
	return &Service{
		store:  s,
		policy: policy,
		log:    log,
		subs:   make(map[string][]*Subscription),
	}
}

// Policy returns the active cleanup policy.
func (s *Service) Policy() CleanupPolicy { return s.policy }

// Append inserts a notification into its recipient's log, runs cleanup,
// and publishes the updated log to subscribers. The insert error is
// surfaced to the caller; a cleanup failure is logged but does not fail
// the append, since the bound is soft.
func (s *Service) Append(ctx context.Context, n model.Notification) (model.Notification, error) {
	stored, err := s.store.CreateNotification(ctx, n)
	if err != nil {
		return model.Notification{}, fmt.Errorf("appending notification: %w", err)
	}

	if err := s.Cleanup(ctx, stored.RecipientID); err != nil {
		s.log.Warn().Err(err).
			Str("recipient", stored.RecipientID).
			Msg("notification log cleanup failed")
	}

	s.publish(ctx, stored.RecipientID)
	return stored, nil
}

// Cleanup prunes the recipient's log if its size exceeds the policy
// threshold. Below the threshold it is a no-op.
func (s *Service) Cleanup(ctx context.Context, recipientID string) error {
	size, err := s.store.CountNotifications(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("sizing log for %s: %w", recipientID, err)
	}
	if size <= s.policy.Threshold {
		return nil
	}

	deleted, err := s.store.PruneNotifications(ctx, recipientID, s.policy.Keep)
	if err != nil {
		return fmt.Errorf("pruning log for %s: %w", recipientID, err)
	}

	s.log.Debug().
		Str("recipient", recipientID).
		Int("deleted", deleted).
		Int("kept", s.policy.Keep).
		Msg("notification log pruned")
	return nil
}

// MarkRead marks one notification as read and publishes the change.
// Idempotent.
func (s *Service) MarkRead(ctx context.Context, recipientID, id string) error {
	if err := s.store.MarkNotificationRead(ctx, recipientID, id); err != nil {
		return err
	}
	s.publish(ctx, recipientID)
	return nil
}

// MarkAllRead marks every unread notification as read. When nothing is
// unread no mutation is issued at all.
func (s *Service) MarkAllRead(ctx context.Context, recipientID string) error {
	unread, err := s.store.CountUnreadNotifications(ctx, recipientID)
	if err != nil {
		return err
	}
	if unread == 0 {
		return nil
	}

	if err := s.store.MarkAllNotificationsRead(ctx, recipientID); err != nil {
		return err
	}
	s.publish(ctx, recipientID)
	return nil
}

// DeleteAll removes the recipient's entire log, used for one-time
// resets such as first login. Succeeds trivially on an empty log.
func (s *Service) DeleteAll(ctx context.Context, recipientID string) error {
	size, err := s.store.CountNotifications(ctx, recipientID)
	if err != nil {
		return err
	}
	if size == 0 {
		return nil
	}

	if err := s.store.DeleteAllNotifications(ctx, recipientID); err != nil {
		return err
	}
	s.publish(ctx, recipientID)
	return nil
}

// Unread returns the recipient's current unread count.
func (s *Service) Unread(ctx context.Context, recipientID string) (int, error) {
	return s.store.CountUnreadNotifications(ctx, recipientID)
}

// Recent returns the recipient's newest notifications, newest first,
// capped at limit (policy Keep when limit <= 0).
func (s *Service) Recent(ctx context.Context, recipientID string, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = s.policy.Keep
	}
	return s.store.GetNotifications(ctx, recipientID, limit)
}
