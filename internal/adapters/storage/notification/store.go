package notification

import (
	"context"

	domain "peerpath/internal/domain/notification"
)

// Store persists Notification state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Notification, error)
	Save(ctx context.Context, value domain.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}
