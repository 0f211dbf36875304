package booking

import (
	"context"

	domain "peerpath/internal/domain/booking"
)

// Store persists Booking state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Booking, error)
	GetByUserAndSession(ctx context.Context, userID, sessionID string) (domain.Booking, error)
	Save(ctx context.Context, value domain.Booking) error
	Delete(ctx context.Context, id string) error
	DeleteBySession(ctx context.Context, sessionID string) error
	CountBySession(ctx context.Context, sessionID string) (int, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Booking, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	SessionID        string
	AttendanceStatus string
	Limit            int
	Offset           int
}
