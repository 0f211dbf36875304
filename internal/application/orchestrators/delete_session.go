package orchestrators

import (
	"context"
	"log/slog"
)

// SessionStoreForDelete defines the session store interface needed by DeleteSession.
type SessionStoreForDelete interface {
	Delete(ctx context.Context, id string) error
}

// BookingStoreForDelete defines the booking store interface needed by DeleteSession.
type BookingStoreForDelete interface {
	DeleteBySession(ctx context.Context, sessionID string) error
}

// PaymentStoreForDelete defines the payment store interface needed by DeleteSession.
type PaymentStoreForDelete interface {
	DeleteBySession(ctx context.Context, sessionID string) error
}

// DeleteSessionDeps holds dependencies for DeleteSession.
type DeleteSessionDeps struct {
	SessionStore SessionStoreForDelete
	BookingStore BookingStoreForDelete
	PaymentStore PaymentStoreForDelete
}

// ExecuteDeleteSession removes a session and everything hanging off it.
// The cascade order is payments, then bookings, then the session itself:
// payments reference the session directly, so deleting them first avoids
// orphaned payment rows pointing at a deleted session.
// PRE: sessionID is non-empty
// POST: No payment, booking, or session row references sessionID
func ExecuteDeleteSession(ctx context.Context, sessionID string, deps DeleteSessionDeps) error {
	if err := deps.PaymentStore.DeleteBySession(ctx, sessionID); err != nil {
		return err
	}
	if err := deps.BookingStore.DeleteBySession(ctx, sessionID); err != nil {
		return err
	}
	if err := deps.SessionStore.Delete(ctx, sessionID); err != nil {
		return err
	}

	slog.Info("session_event", "event", "session_deleted", "session_id", sessionID)
	return nil
}
