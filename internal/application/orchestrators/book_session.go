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
	"peerpath/internal/domain/profile"
	"peerpath/internal/domain/session"
	storeprofile "peerpath/internal/adapters/storage/profile"
)

// SessionLookupStore defines the session store interface needed for booking.
type SessionLookupStore interface {
	GetByID(ctx context.Context, id string) (session.Session, error)
}

// BookingStoreForBooking defines the booking store interface needed by BookSession.
type BookingStoreForBooking interface {
	GetByUserAndSession(ctx context.Context, userID, sessionID string) (booking.Booking, error)
	CountBySession(ctx context.Context, sessionID string) (int, error)
	Save(ctx context.Context, b booking.Booking) error
}

// NotificationSaveStore defines the notification store interface for dispatch.
type NotificationSaveStore interface {
	Save(ctx context.Context, n notification.Notification) error
}

// ProfileLookupStore defines the profile store interface needed by BookSession.
type ProfileLookupStore interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
	List(ctx context.Context, filter storeprofile.ListFilter) ([]profile.Profile, error)
}

// BookSessionInput carries input for the booking orchestrator.
type BookSessionInput struct {
	UserID    string
	SessionID string
}

// BookSessionResult carries the created booking.
type BookSessionResult struct {
	Booking booking.Booking
}

// BookSessionDeps holds dependencies for BookSession.
type BookSessionDeps struct {
	SessionStore      SessionLookupStore
	BookingStore      BookingStoreForBooking
	NotificationStore NotificationSaveStore
	ProfileStore      ProfileLookupStore
	GenerateID        func() string
	Now               func() time.Time
}

var (
	ErrSessionFull    = errors.New("this session is fully booked")
	ErrAlreadyBooked  = errors.New("you have already booked this session")
	ErrSessionGone    = errors.New("session not found")
	ErrBookingGone    = errors.New("booking not found")
	ErrNotYourBooking = errors.New("booking belongs to another user")
)

// ExecuteBookSession books a user onto a session.
// The capacity check is a fresh count read immediately before the insert;
// it is not transactional with it, so concurrent bookings can over-fill a
// session. The UNIQUE(user_id, session_id) constraint still prevents the
// same user booking twice.
// PRE: UserID and SessionID are non-empty
// POST: Booking created with status booked; confirmation queued for the
// student and an alert for every admin
func ExecuteBookSession(ctx context.Context, input BookSessionInput, deps BookSessionDeps) (BookSessionResult, error) {
	genID, now := deps.generators()

	sess, err := deps.SessionStore.GetByID(ctx, input.SessionID)
	if err != nil {
		return BookSessionResult{}, ErrSessionGone
	}

	if _, err := deps.BookingStore.GetByUserAndSession(ctx, input.UserID, input.SessionID); err == nil {
		return BookSessionResult{}, ErrAlreadyBooked
	} else if !errors.Is(err, sql.ErrNoRows) {
		return BookSessionResult{}, err
	}

	count, err := deps.BookingStore.CountBySession(ctx, input.SessionID)
	if err != nil {
		return BookSessionResult{}, err
	}
	if sess.Capacity-count <= 0 {
		return BookSessionResult{}, ErrSessionFull
	}

	b := booking.Booking{
		ID:               genID(),
		UserID:           input.UserID,
		SessionID:        input.SessionID,
		AttendanceStatus: booking.StatusBooked,
		CreatedAt:        now(),
	}
	if err := b.Validate(); err != nil {
		return BookSessionResult{}, err
	}
	if err := deps.BookingStore.Save(ctx, b); err != nil {
		return BookSessionResult{}, err
	}

	slog.Info("booking_event", "event", "session_booked",
		"booking_id", b.ID, "user_id", input.UserID, "session_id", input.SessionID,
		"spots_left", sess.Capacity-count-1)

	// In-app notifications are best effort: a failed insert never unwinds
	// the booking.
	student, err := deps.ProfileStore.GetByID(ctx, input.UserID)
	if err != nil {
		student = profile.Profile{ID: input.UserID}
	}

	confirm := notification.BookingConfirmation(
		input.UserID, student.FullName, sess.Title, sess.DisplayDate(), sess.DisplayTime())
	confirm.ID = genID()
	confirm.RelatedBookingID = b.ID
	confirm.RelatedSessionID = sess.ID
	confirm.CreatedAt = now()
	if err := deps.NotificationStore.Save(ctx, confirm); err != nil {
		slog.Error("notification_save_failed", "error", err, "type", confirm.Type)
	}

	admins, err := deps.ProfileStore.List(ctx, storeprofile.ListFilter{Role: profile.RoleAdmin})
	if err != nil {
		slog.Error("admin_list_failed", "error", err)
	}
	for _, admin := range admins {
		alert := notification.AdminAlert(admin.ID, student.FullName, sess.Title, sess.DisplayDate())
		alert.ID = genID()
		alert.RelatedBookingID = b.ID
		alert.RelatedSessionID = sess.ID
		alert.CreatedAt = now()
		if err := deps.NotificationStore.Save(ctx, alert); err != nil {
			slog.Error("notification_save_failed", "error", err, "type", alert.Type)
		}
	}

	return BookSessionResult{Booking: b}, nil
}

// generators returns the injected ID and clock functions, falling back to
// uuid and wall-clock time.
func (d BookSessionDeps) generators() (func() string, func() time.Time) {
	genID := d.GenerateID
	if genID == nil {
		genID = func() string { return uuid.New().String() }
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return genID, now
}
