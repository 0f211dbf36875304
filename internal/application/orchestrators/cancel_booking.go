package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"peerpath/internal/domain/booking"
	"peerpath/internal/domain/notification"
)

// BookingStoreForCancel defines the booking store interface needed by CancelBooking.
type BookingStoreForCancel interface {
	GetByID(ctx context.Context, id string) (booking.Booking, error)
	Delete(ctx context.Context, id string) error
}

// CancelBookingInput carries input for the cancel orchestrator.
type CancelBookingInput struct {
	BookingID string
	UserID    string // requesting user; empty means an admin acting on any booking
	Reason    string
}

// CancelBookingDeps holds dependencies for CancelBooking.
type CancelBookingDeps struct {
	BookingStore      BookingStoreForCancel
	SessionStore      SessionLookupStore
	ProfileStore      ProfileLookupStore
	NotificationStore NotificationSaveStore
	GenerateID        func() string
	Now               func() time.Time
}

// ExecuteCancelBooking removes a booking and notifies its owner.
// A student may cancel only their own booking; an admin (empty UserID)
// may cancel any.
// PRE: BookingID is non-empty
// POST: Booking row deleted; cancellation notification queued for the owner
func ExecuteCancelBooking(ctx context.Context, input CancelBookingInput, deps CancelBookingDeps) error {
	genID := deps.GenerateID
	if genID == nil {
		genID = func() string { return uuid.New().String() }
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	b, err := deps.BookingStore.GetByID(ctx, input.BookingID)
	if err != nil {
		return ErrBookingGone
	}
	if input.UserID != "" && b.UserID != input.UserID {
		return ErrNotYourBooking
	}

	if err := deps.BookingStore.Delete(ctx, input.BookingID); err != nil {
		return err
	}

	slog.Info("booking_event", "event", "booking_cancelled",
		"booking_id", b.ID, "user_id", b.UserID, "session_id", b.SessionID)

	// Session and profile lookups only flesh out the notification copy.
	title, date := "your session", ""
	if sess, err := deps.SessionStore.GetByID(ctx, b.SessionID); err == nil {
		title, date = sess.Title, sess.DisplayDate()
	}
	name := ""
	if p, err := deps.ProfileStore.GetByID(ctx, b.UserID); err == nil {
		name = p.FullName
	}

	n := notification.Cancellation(b.UserID, name, title, date, input.Reason)
	n.ID = genID()
	n.RelatedSessionID = b.SessionID
	n.CreatedAt = now()
	if err := deps.NotificationStore.Save(ctx, n); err != nil {
		slog.Error("notification_save_failed", "error", err, "type", n.Type)
	}

	return nil
}
