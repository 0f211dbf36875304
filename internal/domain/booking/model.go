package booking

import (
	"errors"
	"time"

	"peerpath/internal/domain/session"
)

// Attendance status constants.
const (
	StatusBooked    = "booked"
	StatusAttended  = "attended"
	StatusNoShow    = "no-show"
	StatusCancelled = "cancelled"
)

// ValidStatuses contains all valid attendance statuses.
var ValidStatuses = []string{StatusBooked, StatusAttended, StatusNoShow, StatusCancelled}

// Domain errors
var (
	ErrEmptyUserID    = errors.New("booking must be associated with a user")
	ErrEmptySessionID = errors.New("booking must be associated with a session")
	ErrInvalidStatus  = errors.New("attendance status must be one of: booked, attended, no-show, cancelled")
)

// Booking links one user to one session. A user holds at most one booking
// per session (UNIQUE constraint at the storage level).
type Booking struct {
	ID               string
	UserID           string
	SessionID        string
	AttendanceStatus string // booked, attended, no-show, cancelled
	Notes            string // admin-authored feedback shown to the student
	NotesUpdatedAt   time.Time
	CreatedAt        time.Time
}

// Validate checks if the Booking has valid data.
// PRE: Booking struct is populated
// POST: Returns nil if valid, error otherwise
func (b *Booking) Validate() error {
	if b.UserID == "" {
		return ErrEmptyUserID
	}
	if b.SessionID == "" {
		return ErrEmptySessionID
	}
	if !IsValidStatus(b.AttendanceStatus) {
		return ErrInvalidStatus
	}
	return nil
}

// IsValidStatus reports whether status is a known attendance status.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CountForSession returns how many bookings reference the given session.
// INVARIANT: No list entry is mutated
func CountForSession(bookings []Booking, sessionID string) int {
	n := 0
	for _, b := range bookings {
		if b.SessionID == sessionID {
			n++
		}
	}
	return n
}

// SpotsRemaining returns the session's capacity minus its booking count.
// The raw difference is returned: an over-booked session (bookings past
// capacity due to a race) yields a negative value. A session absent from
// the list yields 0.
// PRE: sessions and bookings are already-fetched lists
func SpotsRemaining(sessionID string, sessions []session.Session, bookings []Booking) int {
	for _, s := range sessions {
		if s.ID == sessionID {
			return s.Capacity - CountForSession(bookings, sessionID)
		}
	}
	return 0
}

// IsFull reports whether the session has no spots remaining.
// POST: true when SpotsRemaining <= 0
func IsFull(sessionID string, sessions []session.Session, bookings []Booking) bool {
	return SpotsRemaining(sessionID, sessions, bookings) <= 0
}

// IsBooked reports whether any booking in the given user's list references
// the session.
// PRE: userBookings holds only the current user's bookings
func IsBooked(sessionID string, userBookings []Booking) bool {
	for _, b := range userBookings {
		if b.SessionID == sessionID {
			return true
		}
	}
	return false
}
