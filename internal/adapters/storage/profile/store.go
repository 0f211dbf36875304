package profile

import (
	"context"

	domain "peerpath/internal/domain/profile"
)

// Store persists Profile state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (domain.Profile, error)
	Save(ctx context.Context, value domain.Profile) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Profile, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Role   string
	Limit  int
	Offset int
}
