package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"peerpath/internal/domain/notification"
)

// NotificationStoreForRead defines the store interface for read-state changes.
type NotificationStoreForRead interface {
	GetByID(ctx context.Context, id string) (notification.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// MarkNotificationReadDeps holds dependencies for the read-state orchestrators.
type MarkNotificationReadDeps struct {
	NotificationStore NotificationStoreForRead
}

var (
	ErrNotificationGone    = errors.New("notification not found")
	ErrNotYourNotification = errors.New("notification belongs to another user")
)

// ExecuteMarkNotificationRead flags one of the user's notifications as read.
// PRE: notificationID is non-empty; userID is the requesting user
// POST: The notification's is_read flag is set
// INVARIANT: A user can only mark their own notifications
func ExecuteMarkNotificationRead(ctx context.Context, notificationID, userID string, deps MarkNotificationReadDeps) error {
	n, err := deps.NotificationStore.GetByID(ctx, notificationID)
	if err != nil {
		return ErrNotificationGone
	}
	if n.UserID != userID {
		return ErrNotYourNotification
	}
	return deps.NotificationStore.MarkRead(ctx, notificationID)
}

// ExecuteMarkAllNotificationsRead clears the unread state for a user.
// PRE: userID is non-empty
// POST: The user has no unread notifications
func ExecuteMarkAllNotificationsRead(ctx context.Context, userID string, deps MarkNotificationReadDeps) error {
	if err := deps.NotificationStore.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	slog.Info("notification_event", "event", "all_read", "user_id", userID)
	return nil
}
