package notification_test

import (
	"strings"
	"testing"

	"peerpath/internal/domain/notification"
)

// TestNotification_Validate tests validation of Notification.
func TestNotification_Validate(t *testing.T) {
	tests := []struct {
		name    string
		n       notification.Notification
		wantErr error
	}{
		{
			name: "valid notification",
			n: notification.Notification{
				UserID: "u1", Type: notification.TypeReminder,
				Title: "Session Reminder", Message: "See you tomorrow",
			},
			wantErr: nil,
		},
		{
			name:    "missing user",
			n:       notification.Notification{Type: notification.TypeReminder, Title: "t", Message: "m"},
			wantErr: notification.ErrEmptyUserID,
		},
		{
			name:    "missing title",
			n:       notification.Notification{UserID: "u1", Type: notification.TypeReminder, Message: "m"},
			wantErr: notification.ErrEmptyTitle,
		},
		{
			name:    "missing message",
			n:       notification.Notification{UserID: "u1", Type: notification.TypeReminder, Title: "t"},
			wantErr: notification.ErrEmptyMessage,
		},
		{
			name:    "unknown type",
			n:       notification.Notification{UserID: "u1", Type: "postcard", Title: "t", Message: "m"},
			wantErr: notification.ErrInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.n.Validate(); err != tt.wantErr {
				t.Errorf("Notification.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestTemplates tests the fixed message templates.
func TestTemplates(t *testing.T) {
	t.Run("booking confirmation", func(t *testing.T) {
		n := notification.BookingConfirmation("u1", "Jordan", "Algebra Intensive", "Mar 14, 2026", "3:30 PM")
		if n.Type != notification.TypeBookingConfirmation {
			t.Errorf("Type = %q", n.Type)
		}
		if n.Title != "Booking Confirmed!" {
			t.Errorf("Title = %q", n.Title)
		}
		for _, want := range []string{"Jordan", "Algebra Intensive", "Mar 14, 2026", "3:30 PM"} {
			if !strings.Contains(n.Message, want) {
				t.Errorf("Message missing %q: %s", want, n.Message)
			}
		}
		if n.EmailSent {
			t.Error("EmailSent = true, notifications never send email")
		}
		if err := n.Validate(); err != nil {
			t.Errorf("template does not validate: %v", err)
		}
	})

	t.Run("cancellation default reason", func(t *testing.T) {
		n := notification.Cancellation("u1", "Jordan", "Algebra Intensive", "Mar 14, 2026", "")
		if !strings.Contains(n.Message, "user request") {
			t.Errorf("Message missing default reason: %s", n.Message)
		}
	})

	t.Run("attendance update per status", func(t *testing.T) {
		tests := []struct {
			status   string
			wantLine string
		}{
			{"attended", "Thank you for attending"},
			{"no-show", "unable to attend"},
			{"cancelled", "marked as cancelled"},
		}
		for _, tt := range tests {
			n := notification.AttendanceUpdate("u1", "Jordan", "Algebra Intensive", "Mar 14, 2026", tt.status)
			if n.Type != notification.TypeAttendanceUpdate {
				t.Errorf("Type = %q", n.Type)
			}
			if !strings.Contains(n.Title, tt.status) {
				t.Errorf("Title %q missing status %q", n.Title, tt.status)
			}
			if !strings.Contains(n.Message, tt.wantLine) {
				t.Errorf("Message for %q missing %q: %s", tt.status, tt.wantLine, n.Message)
			}
		}
	})

	t.Run("admin alert", func(t *testing.T) {
		n := notification.AdminAlert("admin-1", "Jordan", "Algebra Intensive", "Mar 14, 2026")
		if n.UserID != "admin-1" || n.Type != notification.TypeAdminAlert {
			t.Errorf("AdminAlert = %+v", n)
		}
		if n.Title != "New Booking Received" {
			t.Errorf("Title = %q", n.Title)
		}
	})
}

// TestNotification_MarkRead tests the read flag.
func TestNotification_MarkRead(t *testing.T) {
	n := notification.Reminder("u1", "Jordan", "Algebra Intensive", "Mar 14, 2026", "3:30 PM")
	if n.IsRead {
		t.Error("new notification already read")
	}
	n.MarkRead()
	if !n.IsRead {
		t.Error("MarkRead() did not set IsRead")
	}
}
