package payment

import (
	"context"

	domain "peerpath/internal/domain/payment"
)

// Store persists Payment state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Payment, error)
	GetByUserAndSession(ctx context.Context, userID, sessionID string) (domain.Payment, error)
	Save(ctx context.Context, value domain.Payment) error
	DeleteBySession(ctx context.Context, sessionID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Payment, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Payment, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	PaymentStatus string
	Limit         int
	Offset        int
}
