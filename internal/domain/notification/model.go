package notification

import (
	"errors"
	"fmt"
	"time"
)

// Template type constants — the fixed taxonomy of in-app messages.
const (
	TypeBookingConfirmation = "booking_confirmation"
	TypeReminder            = "reminder"
	TypeCancellation        = "cancellation"
	TypeAttendanceUpdate    = "attendance_update"
	TypeAdminAlert          = "admin_alert"
)

// ValidTypes contains all valid notification types.
var ValidTypes = []string{
	TypeBookingConfirmation,
	TypeReminder,
	TypeCancellation,
	TypeAttendanceUpdate,
	TypeAdminAlert,
}

// Domain errors
var (
	ErrEmptyUserID  = errors.New("notification must be associated with a user")
	ErrEmptyTitle   = errors.New("notification title cannot be empty")
	ErrEmptyMessage = errors.New("notification message cannot be empty")
	ErrInvalidType  = errors.New("unknown notification type")
)

// Notification is an in-app message stored for a user. EmailSent stays
// false until outbound delivery for notifications is implemented; today
// only the contact form sends real email.
type Notification struct {
	ID               string
	UserID           string
	Type             string
	Title            string
	Message          string
	RelatedBookingID string
	RelatedSessionID string
	IsRead           bool
	EmailSent        bool
	CreatedAt        time.Time
}

// Validate checks if the Notification has valid data.
// PRE: Notification struct is populated
// POST: Returns nil if valid, error otherwise
func (n *Notification) Validate() error {
	if n.UserID == "" {
		return ErrEmptyUserID
	}
	if n.Title == "" {
		return ErrEmptyTitle
	}
	if n.Message == "" {
		return ErrEmptyMessage
	}
	if !isValidType(n.Type) {
		return ErrInvalidType
	}
	return nil
}

// MarkRead flags the notification as read.
// POST: IsRead is true
func (n *Notification) MarkRead() {
	n.IsRead = true
}

// BookingConfirmation builds the message sent to a student after booking.
func BookingConfirmation(userID, userName, sessionTitle, sessionDate, sessionTime string) Notification {
	return Notification{
		UserID: userID,
		Type:   TypeBookingConfirmation,
		Title:  "Booking Confirmed!",
		Message: fmt.Sprintf(
			"Hi %s, your booking for %q on %s at %s has been confirmed. We look forward to seeing you!",
			userName, sessionTitle, sessionDate, sessionTime),
	}
}

// Reminder builds the 24-hour reminder message. Nothing dispatches this
// automatically yet; there is no scheduler.
func Reminder(userID, userName, sessionTitle, sessionDate, sessionTime string) Notification {
	return Notification{
		UserID: userID,
		Type:   TypeReminder,
		Title:  "Session Reminder - Tomorrow!",
		Message: fmt.Sprintf(
			"Hi %s, this is a reminder that you have %q tomorrow (%s) at %s. See you there!",
			userName, sessionTitle, sessionDate, sessionTime),
	}
}

// Cancellation builds the message sent when a booking is cancelled.
func Cancellation(userID, userName, sessionTitle, sessionDate, reason string) Notification {
	if reason == "" {
		reason = "user request"
	}
	return Notification{
		UserID: userID,
		Type:   TypeCancellation,
		Title:  "Booking Cancelled",
		Message: fmt.Sprintf(
			"Hi %s, your booking for %q on %s has been cancelled (%s). If you have any questions, please contact us.",
			userName, sessionTitle, sessionDate, reason),
	}
}

// attendanceStatusLines maps an attendance status to its follow-up sentence.
var attendanceStatusLines = map[string]string{
	"attended":  "Thank you for attending! We hope you found it valuable.",
	"no-show":   "We noticed you were unable to attend. Please let us know if you need to reschedule.",
	"cancelled": "Your session was marked as cancelled.",
}

// AttendanceUpdate builds the message sent when an admin changes a
// booking's attendance status.
func AttendanceUpdate(userID, userName, sessionTitle, sessionDate, status string) Notification {
	msg := fmt.Sprintf(
		"Hi %s, your attendance for %q on %s has been marked as %q.",
		userName, sessionTitle, sessionDate, status)
	if line, ok := attendanceStatusLines[status]; ok {
		msg += " " + line
	}
	return Notification{
		UserID:  userID,
		Type:    TypeAttendanceUpdate,
		Title:   fmt.Sprintf("Attendance Updated - %s", status),
		Message: msg,
	}
}

// AdminAlert builds the message sent to an admin when a student books.
func AdminAlert(adminID, userName, sessionTitle, sessionDate string) Notification {
	return Notification{
		UserID:  adminID,
		Type:    TypeAdminAlert,
		Title:   "New Booking Received",
		Message: fmt.Sprintf("%s has booked %q on %s.", userName, sessionTitle, sessionDate),
	}
}

func isValidType(t string) bool {
	for _, v := range ValidTypes {
		if t == v {
			return true
		}
	}
	return false
}
