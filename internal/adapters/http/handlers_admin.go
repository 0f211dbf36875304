package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"peerpath/internal/application/orchestrators"
	"peerpath/internal/application/projections"
	paymentDomain "peerpath/internal/domain/payment"
)

// adminConsoleTabs are the console views, in display order.
var adminConsoleTabs = []string{"sessions", "users", "bookings", "payments"}

// handleAdminConsole handles GET /admin — the tabbed console.
func handleAdminConsole(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	tab := r.URL.Query().Get("tab")
	valid := false
	for _, t := range adminConsoleTabs {
		if tab == t {
			valid = true
			break
		}
	}
	if !valid {
		tab = "sessions"
	}

	query := projections.GetAdminConsoleQuery{
		Search:           r.URL.Query().Get("q"),
		SessionType:      r.URL.Query().Get("type"),
		AttendanceStatus: r.URL.Query().Get("attendance"),
		PaymentStatus:    r.URL.Query().Get("payment"),
	}
	result, err := projections.QueryGetAdminConsole(ctx, query, adminConsoleDeps())
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "admin_console.html", map[string]any{
			"Tab":              tab,
			"Tabs":             adminConsoleTabs,
			"Console":          result,
			"Search":           query.Search,
			"TypeFilter":       query.SessionType,
			"AttendanceFilter": query.AttendanceStatus,
			"PaymentFilter":    query.PaymentStatus,
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleAdminSaveSession handles POST /admin/sessions — create or update.
func handleAdminSaveSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	isHTML := isHTMLRequest(r)

	input := orchestrators.SaveSessionInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.ID = r.FormValue("ID")
		input.Title = r.FormValue("Title")
		input.Description = r.FormValue("Description")
		input.Date = r.FormValue("Date")
		input.Time = r.FormValue("Time")
		input.Type = r.FormValue("Type")
		input.Price, _ = strconv.Atoi(r.FormValue("Price"))
		input.Capacity, _ = strconv.Atoi(r.FormValue("Capacity"))
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	if _, err := orchestrators.ExecuteSaveSession(ctx, input, orchestrators.SaveSessionDeps{
		SessionStore: stores.SessionStore,
	}); err != nil {
		internalError(w, err)
		return
	}

	if isHTML {
		http.Redirect(w, r, "/admin?tab=sessions", http.StatusSeeOther)
	} else {
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleAdminDeleteSession handles POST /admin/sessions/delete.
// Cascade: payments, then bookings, then the session.
func handleAdminDeleteSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	isHTML := isHTMLRequest(r)

	var sessionID string
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		sessionID = r.FormValue("SessionID")
	} else {
		var body struct{ SessionID string }
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		sessionID = body.SessionID
	}
	if sessionID == "" {
		http.Error(w, "SessionID is required", http.StatusBadRequest)
		return
	}

	if err := orchestrators.ExecuteDeleteSession(ctx, sessionID, orchestrators.DeleteSessionDeps{
		SessionStore: stores.SessionStore,
		BookingStore: stores.BookingStore,
		PaymentStore: stores.PaymentStore,
	}); err != nil {
		internalError(w, err)
		return
	}

	if isHTML {
		http.Redirect(w, r, "/admin?tab=sessions", http.StatusSeeOther)
	} else {
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleAdminAttendance handles POST /admin/bookings/attendance.
func handleAdminAttendance(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	isHTML := isHTMLRequest(r)

	input := orchestrators.UpdateAttendanceInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.BookingID = r.FormValue("BookingID")
		input.Status = r.FormValue("Status")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	_, err := orchestrators.ExecuteUpdateAttendance(ctx, input, orchestrators.UpdateAttendanceDeps{
		BookingStore:      stores.BookingStore,
		PaymentStore:      stores.PaymentStore,
		SessionStore:      stores.SessionStore,
		ProfileStore:      stores.ProfileStore,
		NotificationStore: stores.NotificationStore,
	})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrBookingGone):
			http.Error(w, "Booking not found.", http.StatusNotFound)
		default:
			internalError(w, err)
		}
		return
	}

	if isHTML {
		http.Redirect(w, r, "/admin?tab=bookings", http.StatusSeeOther)
	} else {
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleAdminNotes handles POST /admin/bookings/notes.
func handleAdminNotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	isHTML := isHTMLRequest(r)

	input := orchestrators.UpdateNotesInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.BookingID = r.FormValue("BookingID")
		input.Notes = r.FormValue("Notes")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	if err := orchestrators.ExecuteUpdateNotes(ctx, input, orchestrators.UpdateNotesDeps{
		BookingStore: stores.BookingStore,
	}); err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrBookingGone):
			http.Error(w, "Booking not found.", http.StatusNotFound)
		default:
			internalError(w, err)
		}
		return
	}

	if isHTML {
		http.Redirect(w, r, "/admin?tab=bookings", http.StatusSeeOther)
	} else {
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleAdminMarkPaid handles POST /admin/payments/paid.
func handleAdminMarkPaid(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	isHTML := isHTMLRequest(r)

	var paymentID string
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		paymentID = r.FormValue("PaymentID")
	} else {
		var body struct{ PaymentID string }
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		paymentID = body.PaymentID
	}

	err := orchestrators.ExecuteMarkPaymentPaid(ctx, paymentID, orchestrators.MarkPaymentPaidDeps{
		PaymentStore: stores.PaymentStore,
	})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrPaymentGone):
			http.Error(w, "Payment not found.", http.StatusNotFound)
		case errors.Is(err, paymentDomain.ErrAlreadyPaid):
			http.Error(w, "Payment is already marked paid.", http.StatusConflict)
		default:
			internalError(w, err)
		}
		return
	}

	if isHTML {
		http.Redirect(w, r, "/admin?tab=payments", http.StatusSeeOther)
	} else {
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleAdminPerf handles GET /admin/perf — the query/request timing page.
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if perfCollector == nil {
		http.Error(w, "perf collection disabled", http.StatusServiceUnavailable)
		return
	}

	window := 15 * time.Minute
	if v := r.URL.Query().Get("window"); v != "" {
		if mins, err := strconv.Atoi(v); err == nil && mins > 0 {
			window = time.Duration(mins) * time.Minute
		}
	}
	snap := perfCollector.Snapshot(timeNow().Add(-window), 20)

	if isHTMLRequest(r) {
		renderTemplate(w, r, "admin_perf.html", map[string]any{
			"Snapshot":   snap,
			"WindowMins": int(window.Minutes()),
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func adminConsoleDeps() projections.GetAdminConsoleDeps {
	return projections.GetAdminConsoleDeps{
		SessionStore: stores.SessionStore,
		BookingStore: stores.BookingStore,
		PaymentStore: stores.PaymentStore,
		ProfileStore: stores.ProfileStore,
	}
}
