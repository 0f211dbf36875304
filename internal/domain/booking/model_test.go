package booking_test

import (
	"testing"

	"peerpath/internal/domain/booking"
	"peerpath/internal/domain/session"
)

// TestBooking_Validate tests validation of Booking.
func TestBooking_Validate(t *testing.T) {
	tests := []struct {
		name    string
		b       booking.Booking
		wantErr error
	}{
		{
			name:    "valid booking",
			b:       booking.Booking{ID: "1", UserID: "u1", SessionID: "s1", AttendanceStatus: booking.StatusBooked},
			wantErr: nil,
		},
		{
			name:    "missing user",
			b:       booking.Booking{ID: "2", SessionID: "s1", AttendanceStatus: booking.StatusBooked},
			wantErr: booking.ErrEmptyUserID,
		},
		{
			name:    "missing session",
			b:       booking.Booking{ID: "3", UserID: "u1", AttendanceStatus: booking.StatusBooked},
			wantErr: booking.ErrEmptySessionID,
		},
		{
			name:    "unknown status",
			b:       booking.Booking{ID: "4", UserID: "u1", SessionID: "s1", AttendanceStatus: "maybe"},
			wantErr: booking.ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.b.Validate(); err != tt.wantErr {
				t.Errorf("Booking.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func bookingsFor(sessionID string, n int) []booking.Booking {
	out := make([]booking.Booking, n)
	for i := range out {
		out[i] = booking.Booking{SessionID: sessionID, AttendanceStatus: booking.StatusBooked}
	}
	return out
}

// TestSpotsRemaining tests capacity arithmetic, including the over-booked case.
func TestSpotsRemaining(t *testing.T) {
	sessions := []session.Session{{ID: "s1", Capacity: 10}}

	tests := []struct {
		name     string
		bookings int
		want     int
		wantFull bool
	}{
		{"no bookings", 0, 10, false},
		{"seven of ten", 7, 3, false},
		{"exactly full", 10, 0, true},
		{"over-booked race", 11, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs := bookingsFor("s1", tt.bookings)
			if got := booking.SpotsRemaining("s1", sessions, bs); got != tt.want {
				t.Errorf("SpotsRemaining() = %d, want %d", got, tt.want)
			}
			if got := booking.IsFull("s1", sessions, bs); got != tt.wantFull {
				t.Errorf("IsFull() = %v, want %v", got, tt.wantFull)
			}
		})
	}

	t.Run("unknown session", func(t *testing.T) {
		if got := booking.SpotsRemaining("missing", sessions, nil); got != 0 {
			t.Errorf("SpotsRemaining(missing) = %d, want 0", got)
		}
	})

	t.Run("counts only matching session", func(t *testing.T) {
		bs := append(bookingsFor("s1", 2), bookingsFor("other", 5)...)
		if got := booking.SpotsRemaining("s1", sessions, bs); got != 8 {
			t.Errorf("SpotsRemaining() = %d, want 8", got)
		}
	})
}

// TestIsBooked tests membership in a user's booking list.
func TestIsBooked(t *testing.T) {
	userBookings := []booking.Booking{
		{SessionID: "s1"},
		{SessionID: "s2"},
	}

	if !booking.IsBooked("s1", userBookings) {
		t.Error("IsBooked(s1) = false, want true")
	}
	if booking.IsBooked("s3", userBookings) {
		t.Error("IsBooked(s3) = true, want false")
	}
	if booking.IsBooked("s1", nil) {
		t.Error("IsBooked() on empty list = true, want false")
	}
}
