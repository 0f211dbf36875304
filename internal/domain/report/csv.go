package report

import (
	"fmt"
	"strings"
	"time"

	"peerpath/internal/domain/booking"
	"peerpath/internal/domain/payment"
	"peerpath/internal/domain/profile"
	"peerpath/internal/domain/session"
)

// Row is one flat record handed to the CSV formatter. Exporters
// pre-substitute fallbacks ("N/A" or empty string) so a missing key
// only occurs on caller error.
type Row map[string]string

// Format renders rows as CSV text under the given ordered headers.
// PRE: headers is the ordered column list; rows may be empty
// POST: returns 1+len(rows) lines, or "" when headers is empty
// INVARIANT: rows and headers are never reordered or filtered
//
// The header line is comma-joined and unquoted. Every data field is
// wrapped in double quotes unconditionally, with embedded quotes
// doubled. A key absent from a row renders as the literal text
// "undefined".
func Format(rows []Row, headers []string) string {
	if len(headers) == 0 {
		return ""
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(headers, ","))

	for _, row := range rows {
		fields := make([]string, len(headers))
		for i, h := range headers {
			value, ok := row[h]
			if !ok {
				value = "undefined"
			}
			fields[i] = `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
		}
		lines = append(lines, strings.Join(fields, ","))
	}

	return strings.Join(lines, "\n")
}

// BookingRecord is a booking joined with its profile and session for
// export. Either join side may be nil when the referenced row is gone.
type BookingRecord struct {
	Booking booking.Booking
	Profile *profile.Profile
	Session *session.Session
}

// PaymentRecord is a payment joined with its profile and session.
type PaymentRecord struct {
	Payment payment.Payment
	Profile *profile.Profile
	Session *session.Session
}

var bookingHeaders = []string{
	"User Name",
	"User Email",
	"Session Title",
	"Session Date",
	"Session Time",
	"Session Type",
	"Attendance Status",
	"Notes",
	"Booked At",
}

var paymentHeaders = []string{
	"User Name",
	"User Email",
	"Session Title",
	"Session Date",
	"Amount",
	"Payment Status",
	"Created At",
}

// BookingsCSV renders the admin bookings export.
// POST: one data line per record, missing join sides rendered as "N/A"
func BookingsCSV(records []BookingRecord) string {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row := Row{
			"User Name":         "N/A",
			"User Email":        "N/A",
			"Session Title":     "N/A",
			"Session Date":      "N/A",
			"Session Time":      "N/A",
			"Session Type":      "N/A",
			"Attendance Status": fallback(r.Booking.AttendanceStatus, "N/A"),
			"Notes":             r.Booking.Notes,
			"Booked At":         "N/A",
		}
		if r.Profile != nil {
			row["User Name"] = fallback(r.Profile.FullName, "N/A")
			row["User Email"] = fallback(r.Profile.Email, "N/A")
		}
		if r.Session != nil {
			row["Session Title"] = fallback(r.Session.Title, "N/A")
			row["Session Date"] = r.Session.DisplayDate()
			row["Session Time"] = fallback(r.Session.Time, "N/A")
			row["Session Type"] = fallback(r.Session.Type, "N/A")
		}
		if !r.Booking.CreatedAt.IsZero() {
			row["Booked At"] = r.Booking.CreatedAt.Format("Jan 2, 2006 3:04 PM")
		}
		rows = append(rows, row)
	}
	return Format(rows, bookingHeaders)
}

// PaymentsCSV renders the admin payments export.
func PaymentsCSV(records []PaymentRecord) string {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row := Row{
			"User Name":      "N/A",
			"User Email":     "N/A",
			"Session Title":  "N/A",
			"Session Date":   "N/A",
			"Amount":         fmt.Sprintf("$%d", r.Payment.Amount),
			"Payment Status": fallback(r.Payment.PaymentStatus, "N/A"),
			"Created At":     "N/A",
		}
		if r.Profile != nil {
			row["User Name"] = fallback(r.Profile.FullName, "N/A")
			row["User Email"] = fallback(r.Profile.Email, "N/A")
		}
		if r.Session != nil {
			row["Session Title"] = fallback(r.Session.Title, "N/A")
			row["Session Date"] = r.Session.DisplayDate()
		}
		if !r.Payment.CreatedAt.IsZero() {
			row["Created At"] = r.Payment.CreatedAt.Format("Jan 2, 2006 3:04 PM")
		}
		rows = append(rows, row)
	}
	return Format(rows, paymentHeaders)
}

// MonthlyCSV renders the aggregate metric report for the calendar
// month containing now. Bookings and payments are filtered by their
// session's date; records whose session is missing are excluded.
// POST: exactly 8 metric rows in fixed order
func MonthlyCSV(bookings []BookingRecord, payments []PaymentRecord, now time.Time) string {
	month, year := now.Month(), now.Year()

	inMonth := func(s *session.Session) bool {
		if s == nil {
			return false
		}
		d := s.ParsedDate()
		if d.IsZero() {
			return false
		}
		return d.Month() == month && d.Year() == year
	}

	var total, attended, cancelled, noShow int
	for _, r := range bookings {
		if !inMonth(r.Session) {
			continue
		}
		total++
		switch r.Booking.AttendanceStatus {
		case booking.StatusAttended:
			attended++
		case booking.StatusCancelled:
			cancelled++
		case booking.StatusNoShow:
			noShow++
		}
	}

	var paid, pending int
	for _, r := range payments {
		if !inMonth(r.Session) {
			continue
		}
		switch r.Payment.PaymentStatus {
		case payment.StatusPaid:
			paid += r.Payment.Amount
		case payment.StatusPending:
			pending += r.Payment.Amount
		}
	}

	// Rate is "0%" with no decimal when there are no bookings.
	rate := "0%"
	if total > 0 {
		rate = fmt.Sprintf("%.1f%%", float64(attended)/float64(total)*100)
	}

	rows := []Row{
		{"Metric": "Total Bookings", "Value": fmt.Sprintf("%d", total)},
		{"Metric": "Attended Sessions", "Value": fmt.Sprintf("%d", attended)},
		{"Metric": "Cancelled Sessions", "Value": fmt.Sprintf("%d", cancelled)},
		{"Metric": "No-Show Sessions", "Value": fmt.Sprintf("%d", noShow)},
		{"Metric": "Attendance Rate", "Value": rate},
		{"Metric": "Total Revenue (Paid)", "Value": fmt.Sprintf("$%d", paid)},
		{"Metric": "Pending Revenue", "Value": fmt.Sprintf("$%d", pending)},
		{"Metric": "Total Revenue", "Value": fmt.Sprintf("$%d", paid+pending)},
	}

	return Format(rows, []string{"Metric", "Value"})
}

// BookingsFilename names the bookings export for download.
// POST: bookings_<YYYY-MM-DD>.csv
func BookingsFilename(now time.Time) string {
	return fmt.Sprintf("bookings_%s.csv", now.Format("2006-01-02"))
}

// PaymentsFilename names the payments export for download.
func PaymentsFilename(now time.Time) string {
	return fmt.Sprintf("payments_%s.csv", now.Format("2006-01-02"))
}

// MonthlyFilename names the monthly report for download.
// POST: monthly_report_<MonthName>_<Year>.csv
func MonthlyFilename(now time.Time) string {
	return fmt.Sprintf("monthly_report_%s_%d.csv", now.Format("January"), now.Year())
}

func fallback(value, fb string) string {
	if value == "" {
		return fb
	}
	return value
}
