package notify

import (
	"context"

	"github.com/nhle/teamboard/internal/model"
)

// Subscription is a live view over one recipient's notification log.
// Snapshots arrive on C, newest first, after every change the service
// applies. Close stops delivery and releases the watch; it is safe to
// call more than once.
type Subscription struct {
	svc         *Service
	recipientID string
	limit       int
	ch          chan []model.Notification
	closed      bool
}

// C returns the snapshot channel. The channel is closed by Close.
func (sub *Subscription) C() <-chan []model.Notification { return sub.ch }

// Close unregisters the subscription and closes its channel.
func (sub *Subscription) Close() {
	if sub.svc == nil {
		// Inert subscription; nothing registered.
		return
	}
	sub.svc.unsubscribe(sub)
}

// Subscribe registers a live subscription for the recipient's log,
// limited to limit entries (policy Keep when limit <= 0). The current
// snapshot is delivered immediately. An empty recipient id yields an
// inert subscription whose channel never fires.
func (s *Service) Subscribe(ctx context.Context, recipientID string, limit int) *Subscription {
	if limit <= 0 {
		limit = s.policy.Keep
	}

	if recipientID == "" {
		ch := make(chan []model.Notification)
		close(ch)
		return &Subscription{ch: ch}
	}

	sub := &Subscription{
		svc:         s,
		recipientID: recipientID,
		limit:       limit,
		// Buffered so a slow consumer drops snapshots instead of
		// blocking the writer; the next change re-delivers.
		ch: make(chan []model.Notification, 1),
	}

	s.mu.Lock()
	s.subs[recipientID] = append(s.subs[recipientID], sub)
	s.mu.Unlock()

	s.deliver(ctx, sub)
	return sub
}

// unsubscribe removes sub from the service and closes its channel.
func (s *Service) unsubscribe(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.closed {
		return
	}
	sub.closed = true

	list := s.subs[sub.recipientID]
	for i, candidate := range list {
		if candidate == sub {
			s.subs[sub.recipientID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(s.subs[sub.recipientID]) == 0 {
		delete(s.subs, sub.recipientID)
	}
	close(sub.ch)
}

// publish pushes a fresh snapshot to every subscription of the
// recipient.
func (s *Service) publish(ctx context.Context, recipientID string) {
	s.mu.Lock()
	list := make([]*Subscription, len(s.subs[recipientID]))
	copy(list, s.subs[recipientID])
	s.mu.Unlock()

	for _, sub := range list {
		s.deliver(ctx, sub)
	}
}

// deliver sends the current snapshot to one subscription without
// blocking. A stale snapshot sitting unconsumed in the buffer is
// replaced by the fresh one.
func (s *Service) deliver(ctx context.Context, sub *Subscription) {
	entries, err := s.store.GetNotifications(ctx, sub.recipientID, sub.limit)
	if err != nil {
		s.log.Warn().Err(err).
			Str("recipient", sub.recipientID).
			Msg("subscription snapshot failed")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.closed {
		return
	}

	select {
	case <-sub.ch:
	default:
	}
	select {
	case sub.ch <- entries:
	default:
	}
}
