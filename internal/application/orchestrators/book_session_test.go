package orchestrators

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"peerpath/internal/domain/booking"
	"peerpath/internal/domain/notification"
	"peerpath/internal/domain/payment"
	"peerpath/internal/domain/profile"
	"peerpath/internal/domain/session"
	storeprofile "peerpath/internal/adapters/storage/profile"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// seqID returns a generator producing test-id-001, test-id-002, ...
func seqID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("test-id-%03d", n)
	}
}

// --- shared mock stores ---

type mockSessionStore struct {
	sessions map[string]session.Session
	deleted  []string
}

func newMockSessionStore(sessions ...session.Session) *mockSessionStore {
	m := &mockSessionStore{sessions: make(map[string]session.Session)}
	for _, s := range sessions {
		m.sessions[s.ID] = s
	}
	return m
}

func (m *mockSessionStore) GetByID(_ context.Context, id string) (session.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return session.Session{}, sql.ErrNoRows
	}
	return s, nil
}

func (m *mockSessionStore) Save(_ context.Context, s session.Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *mockSessionStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockBookingStore struct {
	bookings map[string]booking.Booking
}

func newMockBookingStore(bookings ...booking.Booking) *mockBookingStore {
	m := &mockBookingStore{bookings: make(map[string]booking.Booking)}
	for _, b := range bookings {
		m.bookings[b.ID] = b
	}
	return m
}

func (m *mockBookingStore) GetByID(_ context.Context, id string) (booking.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return booking.Booking{}, sql.ErrNoRows
	}
	return b, nil
}

func (m *mockBookingStore) GetByUserAndSession(_ context.Context, userID, sessionID string) (booking.Booking, error) {
	for _, b := range m.bookings {
		if b.UserID == userID && b.SessionID == sessionID {
			return b, nil
		}
	}
	return booking.Booking{}, sql.ErrNoRows
}

func (m *mockBookingStore) CountBySession(_ context.Context, sessionID string) (int, error) {
	n := 0
	for _, b := range m.bookings {
		if b.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (m *mockBookingStore) Save(_ context.Context, b booking.Booking) error {
	m.bookings[b.ID] = b
	return nil
}

func (m *mockBookingStore) Delete(_ context.Context, id string) error {
	delete(m.bookings, id)
	return nil
}

func (m *mockBookingStore) DeleteBySession(_ context.Context, sessionID string) error {
	for id, b := range m.bookings {
		if b.SessionID == sessionID {
			delete(m.bookings, id)
		}
	}
	return nil
}

type mockPaymentStore struct {
	payments map[string]payment.Payment
	saves    int
}

func newMockPaymentStore(payments ...payment.Payment) *mockPaymentStore {
	m := &mockPaymentStore{payments: make(map[string]payment.Payment)}
	for _, p := range payments {
		m.payments[p.ID] = p
	}
	return m
}

func (m *mockPaymentStore) GetByID(_ context.Context, id string) (payment.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return payment.Payment{}, sql.ErrNoRows
	}
	return p, nil
}

func (m *mockPaymentStore) GetByUserAndSession(_ context.Context, userID, sessionID string) (payment.Payment, error) {
	for _, p := range m.payments {
		if p.UserID == userID && p.SessionID == sessionID {
			return p, nil
		}
	}
	return payment.Payment{}, sql.ErrNoRows
}

func (m *mockPaymentStore) Save(_ context.Context, p payment.Payment) error {
	m.payments[p.ID] = p
	m.saves++
	return nil
}

func (m *mockPaymentStore) DeleteBySession(_ context.Context, sessionID string) error {
	for id, p := range m.payments {
		if p.SessionID == sessionID {
			delete(m.payments, id)
		}
	}
	return nil
}

type mockNotificationStore struct {
	saved []notification.Notification
}

func (m *mockNotificationStore) Save(_ context.Context, n notification.Notification) error {
	m.saved = append(m.saved, n)
	return nil
}

func (m *mockNotificationStore) byType(t string) []notification.Notification {
	var out []notification.Notification
	for _, n := range m.saved {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

type mockProfileStore struct {
	profiles map[string]profile.Profile
}

func newMockProfileStore(profiles ...profile.Profile) *mockProfileStore {
	m := &mockProfileStore{profiles: make(map[string]profile.Profile)}
	for _, p := range profiles {
		m.profiles[p.ID] = p
	}
	return m
}

func (m *mockProfileStore) GetByID(_ context.Context, id string) (profile.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return profile.Profile{}, sql.ErrNoRows
	}
	return p, nil
}

func (m *mockProfileStore) GetByEmail(_ context.Context, email string) (profile.Profile, error) {
	for _, p := range m.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return profile.Profile{}, sql.ErrNoRows
}

func (m *mockProfileStore) Save(_ context.Context, p profile.Profile) error {
	m.profiles[p.ID] = p
	return nil
}

func (m *mockProfileStore) List(_ context.Context, filter storeprofile.ListFilter) ([]profile.Profile, error) {
	var out []profile.Profile
	for _, p := range m.profiles {
		if filter.Role == "" || p.Role == filter.Role {
			out = append(out, p)
		}
	}
	return out, nil
}

func testSession() session.Session {
	return session.Session{
		ID:          "sess-1",
		Title:       "Algebra Intensive",
		Description: "Quadratics and factoring.",
		Date:        "2026-03-14",
		Time:        "15:30",
		Type:        session.TypeGroup,
		Price:       15,
		Capacity:    2,
	}
}

func bookSessionDeps(sessions *mockSessionStore, bookings *mockBookingStore, notifs *mockNotificationStore, profiles *mockProfileStore) BookSessionDeps {
	return BookSessionDeps{
		SessionStore:      sessions,
		BookingStore:      bookings,
		NotificationStore: notifs,
		ProfileStore:      profiles,
		GenerateID:        seqID(),
		Now:               fixedNow,
	}
}

// --- ExecuteBookSession tests ---

// TestExecuteBookSession_Success tests the happy path with notifications.
func TestExecuteBookSession_Success(t *testing.T) {
	sessions := newMockSessionStore(testSession())
	bookings := newMockBookingStore()
	notifs := &mockNotificationStore{}
	profiles := newMockProfileStore(
		profile.Profile{ID: "user-1", FullName: "Jordan Lee", Email: "j@x.com", Role: profile.RoleStudent},
		profile.Profile{ID: "admin-1", FullName: "Admin", Email: "a@x.com", Role: profile.RoleAdmin},
		profile.Profile{ID: "admin-2", FullName: "Admin Two", Email: "a2@x.com", Role: profile.RoleAdmin},
	)

	result, err := ExecuteBookSession(context.Background(),
		BookSessionInput{UserID: "user-1", SessionID: "sess-1"},
		bookSessionDeps(sessions, bookings, notifs, profiles))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Booking.AttendanceStatus != booking.StatusBooked {
		t.Errorf("status = %q, want booked", result.Booking.AttendanceStatus)
	}
	if len(bookings.bookings) != 1 {
		t.Errorf("bookings stored = %d, want 1", len(bookings.bookings))
	}

	confirms := notifs.byType(notification.TypeBookingConfirmation)
	if len(confirms) != 1 {
		t.Fatalf("confirmations = %d, want 1", len(confirms))
	}
	if confirms[0].UserID != "user-1" {
		t.Errorf("confirmation user = %q", confirms[0].UserID)
	}
	if confirms[0].EmailSent {
		t.Error("EmailSent = true, want false")
	}

	alerts := notifs.byType(notification.TypeAdminAlert)
	if len(alerts) != 2 {
		t.Errorf("admin alerts = %d, want 2 (one per admin)", len(alerts))
	}
}

// TestExecuteBookSession_AlreadyBooked tests the duplicate guard.
func TestExecuteBookSession_AlreadyBooked(t *testing.T) {
	sessions := newMockSessionStore(testSession())
	bookings := newMockBookingStore(booking.Booking{
		ID: "b1", UserID: "user-1", SessionID: "sess-1", AttendanceStatus: booking.StatusBooked,
	})
	notifs := &mockNotificationStore{}
	profiles := newMockProfileStore()

	_, err := ExecuteBookSession(context.Background(),
		BookSessionInput{UserID: "user-1", SessionID: "sess-1"},
		bookSessionDeps(sessions, bookings, notifs, profiles))
	if err != ErrAlreadyBooked {
		t.Errorf("error = %v, want ErrAlreadyBooked", err)
	}
	if len(notifs.saved) != 0 {
		t.Errorf("notifications saved on failure: %d", len(notifs.saved))
	}
}

// TestExecuteBookSession_Full tests the capacity guard at and past the limit.
func TestExecuteBookSession_Full(t *testing.T) {
	tests := []struct {
		name     string
		existing int
	}{
		{"exactly full", 2},
		{"over-booked", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := newMockSessionStore(testSession()) // capacity 2
			bookings := newMockBookingStore()
			for i := 0; i < tt.existing; i++ {
				bookings.bookings[fmt.Sprintf("b%d", i)] = booking.Booking{
					ID: fmt.Sprintf("b%d", i), UserID: fmt.Sprintf("other-%d", i),
					SessionID: "sess-1", AttendanceStatus: booking.StatusBooked,
				}
			}

			_, err := ExecuteBookSession(context.Background(),
				BookSessionInput{UserID: "user-1", SessionID: "sess-1"},
				bookSessionDeps(sessions, bookings, &mockNotificationStore{}, newMockProfileStore()))
			if err != ErrSessionFull {
				t.Errorf("error = %v, want ErrSessionFull", err)
			}
		})
	}
}

// TestExecuteBookSession_MissingSession tests booking a deleted session.
func TestExecuteBookSession_MissingSession(t *testing.T) {
	_, err := ExecuteBookSession(context.Background(),
		BookSessionInput{UserID: "user-1", SessionID: "gone"},
		bookSessionDeps(newMockSessionStore(), newMockBookingStore(), &mockNotificationStore{}, newMockProfileStore()))
	if err != ErrSessionGone {
		t.Errorf("error = %v, want ErrSessionGone", err)
	}
}

// --- ExecuteCancelBooking tests ---

// TestExecuteCancelBooking_Owner tests a student cancelling their own booking.
func TestExecuteCancelBooking_Owner(t *testing.T) {
	sessions := newMockSessionStore(testSession())
	bookings := newMockBookingStore(booking.Booking{
		ID: "b1", UserID: "user-1", SessionID: "sess-1", AttendanceStatus: booking.StatusBooked,
	})
	notifs := &mockNotificationStore{}
	profiles := newMockProfileStore(profile.Profile{ID: "user-1", FullName: "Jordan Lee", Email: "j@x.com", Role: profile.RoleStudent})

	err := ExecuteCancelBooking(context.Background(),
		CancelBookingInput{BookingID: "b1", UserID: "user-1"},
		CancelBookingDeps{
			BookingStore:      bookings,
			SessionStore:      sessions,
			ProfileStore:      profiles,
			NotificationStore: notifs,
			GenerateID:        seqID(),
			Now:               fixedNow,
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings.bookings) != 0 {
		t.Error("booking not deleted")
	}
	if got := notifs.byType(notification.TypeCancellation); len(got) != 1 {
		t.Errorf("cancellation notifications = %d, want 1", len(got))
	}
}

// TestExecuteCancelBooking_WrongUser tests the ownership guard.
func TestExecuteCancelBooking_WrongUser(t *testing.T) {
	bookings := newMockBookingStore(booking.Booking{
		ID: "b1", UserID: "user-1", SessionID: "sess-1", AttendanceStatus: booking.StatusBooked,
	})

	err := ExecuteCancelBooking(context.Background(),
		CancelBookingInput{BookingID: "b1", UserID: "intruder"},
		CancelBookingDeps{
			BookingStore:      bookings,
			SessionStore:      newMockSessionStore(),
			ProfileStore:      newMockProfileStore(),
			NotificationStore: &mockNotificationStore{},
		})
	if err != ErrNotYourBooking {
		t.Errorf("error = %v, want ErrNotYourBooking", err)
	}
	if len(bookings.bookings) != 1 {
		t.Error("booking deleted despite ownership failure")
	}
}
