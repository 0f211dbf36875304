package session

import (
	"context"

	domain "peerpath/internal/domain/session"
)

// Store persists Session state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Session, error)
	Save(ctx context.Context, value domain.Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Session, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Type     string
	FromDate string // YYYY-MM-DD inclusive lower bound
	Limit    int
	Offset   int
}
