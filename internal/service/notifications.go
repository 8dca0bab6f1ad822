package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ridhambansal/office-booking/internal/entity"
	"github.com/ridhambansal/office-booking/internal/session"
)

func (s *Service) UnreadNotifications(ctx context.Context, sess session.Session) ([]entity.Notification, error) {
	list, err := s.notifications.Unread(upstreamCtx(ctx, sess), sess.User.ID)
	if err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}

	if err := s.sessions.SetUnreadCount(ctx, sess.ID, len(list)); err != nil {
		slog.WarnContext(ctx, "cache unread count", "error", err)
	}

	return list, nil
}

func (s *Service) MarkNotificationRead(ctx context.Context, sess session.Session, notificationID int) error {
	err := s.notifications.MarkRead(upstreamCtx(ctx, sess), notificationID, sess.User.ID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	return nil
}

// UnreadCount answers from the session's cached count, kept fresh by the
// poller and by explicit notification fetches.
func (s *Service) UnreadCount(ctx context.Context, sess session.Session) (int, error) {
	fresh, err := s.sessions.Get(ctx, sess.ID)
	if err != nil {
		return 0, err
	}

	return fresh.UnreadCount, nil
}

// PollUnreadCounts is the background job body: it refreshes the cached unread
// count of every live session so the badge endpoint answers without an
// upstream round trip. Per-session failures are logged and skipped.
func (s *Service) PollUnreadCounts(ctx context.Context) error {
	sessions, err := s.sessions.ActiveSessions(ctx)
	if err != nil {
		return fmt.Errorf("list active sessions: %w", err)
	}

	for _, sess := range sessions {
		list, err := s.notifications.Unread(upstreamCtx(ctx, sess), sess.User.ID)
		if err != nil {
			slog.WarnContext(ctx, "poll unread notifications", "user_id", sess.User.ID, "error", err)
			continue
		}

		if err := s.sessions.SetUnreadCount(ctx, sess.ID, len(list)); err != nil {
			slog.WarnContext(ctx, "cache unread count", "session_id", sess.ID, "error", err)
		}
	}

	return nil
}
