package projections

import (
	"context"
	"time"

	storeBooking "peerpath/internal/adapters/storage/booking"
	storeSession "peerpath/internal/adapters/storage/session"
	"peerpath/internal/domain/booking"
	"peerpath/internal/domain/session"
)

// SessionCard represents an upcoming session ready for rendering, with
// availability computed against current bookings.
type SessionCard struct {
	Session        session.Session
	SpotsRemaining int
	IsFull         bool
	IsBooked       bool // true when the viewing user already holds a spot
}

// GetSessionListQuery carries query parameters for the session browser.
type GetSessionListQuery struct {
	Type       string // group, one-on-one, extended (empty = all)
	DateFilter string // today, this-week, this-month (empty = all upcoming)
	UserID     string // empty for anonymous visitors
}

// GetSessionListDeps holds dependencies for GetSessionList.
type GetSessionListDeps struct {
	SessionStore SessionStore
	BookingStore BookingStore
}

// QueryGetSessionList retrieves upcoming sessions with availability.
// PRE: Valid query parameters
// POST: Returns sessions from today onward, filtered by type and date window,
// each with spots remaining and the viewer's booked flag
func QueryGetSessionList(ctx context.Context, query GetSessionListQuery, deps GetSessionListDeps, now time.Time) ([]SessionCard, error) {
	sessions, err := deps.SessionStore.List(ctx, storeSession.ListFilter{
		FromDate: now.Format("2006-01-02"),
		Type:     query.Type,
		Limit:    200,
	})
	if err != nil {
		return nil, err
	}
	sessions = session.FilterByDate(sessions, query.DateFilter, now)

	allBookings, err := deps.BookingStore.List(ctx, storeBooking.ListFilter{Limit: 2000})
	if err != nil {
		return nil, err
	}

	var userBookings []booking.Booking
	if query.UserID != "" {
		userBookings, err = deps.BookingStore.ListByUser(ctx, query.UserID)
		if err != nil {
			return nil, err
		}
	}

	cards := make([]SessionCard, 0, len(sessions))
	for _, s := range sessions {
		cards = append(cards, SessionCard{
			Session:        s,
			SpotsRemaining: booking.SpotsRemaining(s.ID, sessions, allBookings),
			IsFull:         booking.IsFull(s.ID, sessions, allBookings),
			IsBooked:       booking.IsBooked(s.ID, userBookings),
		})
	}
	return cards, nil
}
