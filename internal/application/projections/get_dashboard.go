package projections

import (
	"context"
	"sync"
	"time"

	"peerpath/internal/domain/booking"
	"peerpath/internal/domain/notification"
	"peerpath/internal/domain/payment"
	"peerpath/internal/domain/profile"
	"peerpath/internal/domain/session"
)

// DashboardNotificationStore defines the notification store interface needed
// by the dashboard projection.
type DashboardNotificationStore interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]notification.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
}

// BookingWithSession pairs a booking with its session for rendering.
// Session is nil when the session row is gone.
type BookingWithSession struct {
	ID               string
	AttendanceStatus string
	Notes            string
	NotesUpdatedAt   time.Time
	BookedAt         time.Time
	Session          *session.Session
}

// PaymentWithSession pairs a payment with its session title for rendering.
type PaymentWithSession struct {
	Payment      payment.Payment
	SessionTitle string
}

// GetDashboardQuery carries input for the student dashboard projection.
type GetDashboardQuery struct {
	UserID string
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	ProfileStore      ProfileStore
	SessionStore      SessionStore
	BookingStore      BookingStore
	PaymentStore      PaymentStore
	NotificationStore DashboardNotificationStore
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Profile profile.Profile

	UpcomingSessions []SessionCard
	Bookings         []BookingWithSession
	Payments         []PaymentWithSession
	Notifications    []notification.Notification
	UnreadCount      int

	// Stats
	TotalBookings int
	AttendedCount int
	PendingAmount int // whole dollars owing
	PaidAmount    int // whole dollars settled
}

// QueryGetDashboard aggregates everything the student dashboard shows.
// The independent reads are issued concurrently and the page proceeds once
// all have settled; a failed sub-query leaves its section empty rather than
// failing the page. Only a missing profile is fatal.
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps, now time.Time) (DashboardResult, error) {
	prof, err := deps.ProfileStore.GetByID(ctx, query.UserID)
	if err != nil {
		return DashboardResult{}, err
	}
	result := DashboardResult{Profile: prof}

	var wg sync.WaitGroup
	wg.Add(4)

	// Upcoming sessions with availability and the viewer's booked flags
	go func() {
		defer wg.Done()
		cards, err := QueryGetSessionList(ctx, GetSessionListQuery{UserID: query.UserID}, GetSessionListDeps{
			SessionStore: deps.SessionStore,
			BookingStore: deps.BookingStore,
		}, now)
		if err == nil {
			result.UpcomingSessions = cards
		}
	}()

	// The student's bookings, joined with their sessions
	go func() {
		defer wg.Done()
		bookings, err := deps.BookingStore.ListByUser(ctx, query.UserID)
		if err != nil {
			return
		}
		result.TotalBookings = len(bookings)
		for _, b := range bookings {
			bws := BookingWithSession{
				ID:               b.ID,
				AttendanceStatus: b.AttendanceStatus,
				Notes:            b.Notes,
				NotesUpdatedAt:   b.NotesUpdatedAt,
				BookedAt:         b.CreatedAt,
			}
			if sess, err := deps.SessionStore.GetByID(ctx, b.SessionID); err == nil {
				s := sess
				bws.Session = &s
			}
			if b.AttendanceStatus == booking.StatusAttended {
				result.AttendedCount++
			}
			result.Bookings = append(result.Bookings, bws)
		}
	}()

	// The student's payments with session titles and totals
	go func() {
		defer wg.Done()
		payments, err := deps.PaymentStore.ListByUser(ctx, query.UserID)
		if err != nil {
			return
		}
		result.PendingAmount = payment.SumByStatus(payments, payment.StatusPending)
		result.PaidAmount = payment.SumByStatus(payments, payment.StatusPaid)
		for _, p := range payments {
			pws := PaymentWithSession{Payment: p}
			if sess, err := deps.SessionStore.GetByID(ctx, p.SessionID); err == nil {
				pws.SessionTitle = sess.Title
			}
			result.Payments = append(result.Payments, pws)
		}
	}()

	// Notification feed
	go func() {
		defer wg.Done()
		if notifications, err := deps.NotificationStore.ListByUser(ctx, query.UserID, 50); err == nil {
			result.Notifications = notifications
		}
		if count, err := deps.NotificationStore.CountUnread(ctx, query.UserID); err == nil {
			result.UnreadCount = count
		}
	}()

	wg.Wait()
	return result, nil
}
