package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"peerpath/internal/domain/booking"
	"peerpath/internal/domain/notification"
	"peerpath/internal/domain/payment"
)

// BookingStoreForAttendance defines the booking store interface needed by UpdateAttendance.
type BookingStoreForAttendance interface {
	GetByID(ctx context.Context, id string) (booking.Booking, error)
	Save(ctx context.Context, b booking.Booking) error
}

// PaymentStoreForAttendance defines the payment store interface needed by UpdateAttendance.
type PaymentStoreForAttendance interface {
	GetByUserAndSession(ctx context.Context, userID, sessionID string) (payment.Payment, error)
	Save(ctx context.Context, p payment.Payment) error
}

// UpdateAttendanceInput carries input for the attendance orchestrator.
type UpdateAttendanceInput struct {
	BookingID string
	Status    string
}

// UpdateAttendanceResult reports what the transition did.
type UpdateAttendanceResult struct {
	Booking        booking.Booking
	PaymentCreated bool
}

// UpdateAttendanceDeps holds dependencies for UpdateAttendance.
type UpdateAttendanceDeps struct {
	BookingStore      BookingStoreForAttendance
	PaymentStore      PaymentStoreForAttendance
	SessionStore      SessionLookupStore
	ProfileStore      ProfileLookupStore
	NotificationStore NotificationSaveStore
	GenerateID        func() string
	Now               func() time.Time
}

// ExecuteUpdateAttendance changes a booking's attendance status.
// The first transition to attended creates a pending payment for the
// session's price, guarded by a pre-check read on (user_id, session_id).
// The read and insert are not atomic; no other transition ever creates
// a payment. The status update is not rolled back if the payment insert
// fails.
// PRE: BookingID is non-empty; Status is a valid attendance status
// POST: Booking status updated; at most one payment exists for the pair;
// attendance notification queued for the student
func ExecuteUpdateAttendance(ctx context.Context, input UpdateAttendanceInput, deps UpdateAttendanceDeps) (UpdateAttendanceResult, error) {
	genID := deps.GenerateID
	if genID == nil {
		genID = func() string { return uuid.New().String() }
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	if !booking.IsValidStatus(input.Status) {
		return UpdateAttendanceResult{}, booking.ErrInvalidStatus
	}

	b, err := deps.BookingStore.GetByID(ctx, input.BookingID)
	if err != nil {
		return UpdateAttendanceResult{}, ErrBookingGone
	}

	b.AttendanceStatus = input.Status
	if err := deps.BookingStore.Save(ctx, b); err != nil {
		return UpdateAttendanceResult{}, err
	}

	slog.Info("booking_event", "event", "attendance_updated",
		"booking_id", b.ID, "user_id", b.UserID, "status", input.Status)

	result := UpdateAttendanceResult{Booking: b}

	sess, sessErr := deps.SessionStore.GetByID(ctx, b.SessionID)

	if input.Status == booking.StatusAttended {
		_, err := deps.PaymentStore.GetByUserAndSession(ctx, b.UserID, b.SessionID)
		switch {
		case err == nil:
			// Payment already exists; a repeat transition creates nothing.
		case errors.Is(err, sql.ErrNoRows):
			amount := 0
			if sessErr == nil {
				amount = sess.Price
			}
			p := payment.Payment{
				ID:            genID(),
				UserID:        b.UserID,
				SessionID:     b.SessionID,
				Amount:        amount,
				PaymentStatus: payment.StatusPending,
				CreatedAt:     now(),
			}
			if err := deps.PaymentStore.Save(ctx, p); err != nil {
				slog.Error("payment_create_failed", "error", err, "booking_id", b.ID)
			} else {
				result.PaymentCreated = true
				slog.Info("payment_event", "event", "payment_created",
					"payment_id", p.ID, "user_id", p.UserID, "session_id", p.SessionID, "amount", p.Amount)
			}
		default:
			slog.Error("payment_precheck_failed", "error", err, "booking_id", b.ID)
		}
	}

	title, date := "your session", ""
	if sessErr == nil {
		title, date = sess.Title, sess.DisplayDate()
	}
	name := ""
	if p, err := deps.ProfileStore.GetByID(ctx, b.UserID); err == nil {
		name = p.FullName
	}

	n := notification.AttendanceUpdate(b.UserID, name, title, date, input.Status)
	n.ID = genID()
	n.RelatedBookingID = b.ID
	n.RelatedSessionID = b.SessionID
	n.CreatedAt = now()
	if err := deps.NotificationStore.Save(ctx, n); err != nil {
		slog.Error("notification_save_failed", "error", err, "type", n.Type)
	}

	return result, nil
}
