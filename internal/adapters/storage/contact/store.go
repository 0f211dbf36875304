package contact

import (
	"context"

	domain "peerpath/internal/domain/contact"
)

// Store persists contact form submissions.
type Store interface {
	Save(ctx context.Context, value domain.Message) error
	List(ctx context.Context, limit int) ([]domain.Message, error)
}
