package projections

import (
	"context"
	"sync"
	"time"

	storeBooking "peerpath/internal/adapters/storage/booking"
	storePayment "peerpath/internal/adapters/storage/payment"
	storeProfile "peerpath/internal/adapters/storage/profile"
	storeSession "peerpath/internal/adapters/storage/session"
	"peerpath/internal/application/listutil"
	"peerpath/internal/domain/booking"
	"peerpath/internal/domain/payment"
	"peerpath/internal/domain/profile"
	"peerpath/internal/domain/report"
	"peerpath/internal/domain/session"
)

// SessionWithCount pairs a session with its booking count for the admin list.
type SessionWithCount struct {
	Session     session.Session
	BookedCount int
}

// UserWithCount pairs a profile with its booking count for the admin list.
type UserWithCount struct {
	Profile     profile.Profile
	BookedCount int
}

// GetAdminConsoleQuery carries filters for the admin console projection.
type GetAdminConsoleQuery struct {
	Search           string // free-text match on student name, email, session title
	SessionType      string // group, one-on-one, extended (empty = all)
	AttendanceStatus string // booked, attended, no-show, cancelled (empty = all)
	PaymentStatus    string // pending, paid (empty = all)
}

// GetAdminConsoleDeps holds dependencies for the admin console projection.
type GetAdminConsoleDeps struct {
	SessionStore SessionStore
	BookingStore BookingStore
	PaymentStore PaymentStore
	ProfileStore ProfileStore
}

// AdminConsoleResult carries everything the admin console shows.
type AdminConsoleResult struct {
	Sessions []SessionWithCount
	Users    []UserWithCount
	Bookings []report.BookingRecord
	Payments []report.PaymentRecord

	// Stats
	TotalStudents  int
	TotalBookings  int
	AttendedCount  int
	PendingRevenue int // whole dollars
	PaidRevenue    int // whole dollars
}

// QueryGetAdminConsole aggregates sessions, bookings, and payments with
// their student and session rows joined in memory.
// PRE: Caller is an admin
// POST: Returns filtered lists; records whose student or session row is gone
// keep nil joins rather than being dropped
func QueryGetAdminConsole(ctx context.Context, query GetAdminConsoleQuery, deps GetAdminConsoleDeps) (AdminConsoleResult, error) {
	// The four tab reads are independent; issue them concurrently and
	// proceed once all have settled.
	var (
		wg       sync.WaitGroup
		sessions []session.Session
		bookings []booking.Booking
		payments []payment.Payment
		profiles []profile.Profile
		errs     [4]error
	)
	wg.Add(4)
	go func() {
		defer wg.Done()
		// Unfiltered: the session rows also join onto bookings and
		// payments whose sessions may not match the type filter.
		sessions, errs[0] = deps.SessionStore.List(ctx, storeSession.ListFilter{Limit: 500})
	}()
	go func() {
		defer wg.Done()
		bookings, errs[1] = deps.BookingStore.List(ctx, storeBooking.ListFilter{AttendanceStatus: query.AttendanceStatus, Limit: 5000})
	}()
	go func() {
		defer wg.Done()
		payments, errs[2] = deps.PaymentStore.List(ctx, storePayment.ListFilter{PaymentStatus: query.PaymentStatus, Limit: 5000})
	}()
	go func() {
		defer wg.Done()
		profiles, errs[3] = deps.ProfileStore.List(ctx, storeProfile.ListFilter{Limit: 5000})
	}()
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return AdminConsoleResult{}, err
		}
	}

	profileMap := make(map[string]profile.Profile, len(profiles))
	students := 0
	for _, p := range profiles {
		profileMap[p.ID] = p
		if p.Role == profile.RoleStudent {
			students++
		}
	}
	sessionMap := make(map[string]session.Session, len(sessions))
	for _, s := range sessions {
		sessionMap[s.ID] = s
	}

	result := AdminConsoleResult{
		TotalStudents:  students,
		PendingRevenue: payment.SumByStatus(payments, payment.StatusPending),
		PaidRevenue:    payment.SumByStatus(payments, payment.StatusPaid),
	}

	for _, s := range sessions {
		if query.SessionType != "" && s.Type != query.SessionType {
			continue
		}
		result.Sessions = append(result.Sessions, SessionWithCount{
			Session:     s,
			BookedCount: booking.CountForSession(bookings, s.ID),
		})
	}

	bookingsByUser := make(map[string]int)
	for _, b := range bookings {
		bookingsByUser[b.UserID]++
	}
	for _, p := range profiles {
		if p.Role != profile.RoleStudent {
			continue
		}
		if !listutil.MatchesSearch(query.Search, p.FullName, p.Email) {
			continue
		}
		result.Users = append(result.Users, UserWithCount{
			Profile:     p,
			BookedCount: bookingsByUser[p.ID],
		})
	}

	for _, b := range bookings {
		rec := report.BookingRecord{Booking: b}
		if p, ok := profileMap[b.UserID]; ok {
			pc := p
			rec.Profile = &pc
		}
		if s, ok := sessionMap[b.SessionID]; ok {
			sc := s
			rec.Session = &sc
		}
		if !bookingMatchesSearch(rec, query.Search) {
			continue
		}
		if b.AttendanceStatus == booking.StatusAttended {
			result.AttendedCount++
		}
		result.TotalBookings++
		result.Bookings = append(result.Bookings, rec)
	}

	for _, p := range payments {
		rec := report.PaymentRecord{Payment: p}
		if prof, ok := profileMap[p.UserID]; ok {
			pc := prof
			rec.Profile = &pc
		}
		if s, ok := sessionMap[p.SessionID]; ok {
			sc := s
			rec.Session = &sc
		}
		if !paymentMatchesSearch(rec, query.Search) {
			continue
		}
		result.Payments = append(result.Payments, rec)
	}

	return result, nil
}

func bookingMatchesSearch(rec report.BookingRecord, search string) bool {
	if search == "" {
		return true
	}
	var name, email, title string
	if rec.Profile != nil {
		name, email = rec.Profile.FullName, rec.Profile.Email
	}
	if rec.Session != nil {
		title = rec.Session.Title
	}
	return listutil.MatchesSearch(search, name, email, title)
}

func paymentMatchesSearch(rec report.PaymentRecord, search string) bool {
	if search == "" {
		return true
	}
	var name, email, title string
	if rec.Profile != nil {
		name, email = rec.Profile.FullName, rec.Profile.Email
	}
	if rec.Session != nil {
		title = rec.Session.Title
	}
	return listutil.MatchesSearch(search, name, email, title)
}

// MonthlyReport builds the month-to-date metrics CSV from the console's
// joined records.
func (r AdminConsoleResult) MonthlyReport(now time.Time) string {
	return report.MonthlyCSV(r.Bookings, r.Payments, now)
}
