package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"peerpath/internal/adapters/http/middleware"
	"peerpath/internal/application/orchestrators"
	"peerpath/internal/application/projections"
	profileDomain "peerpath/internal/domain/profile"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

const templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func isFormRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	email := ""
	name := ""
	if ok {
		role = sess.Role
		email = sess.Email
		name = sess.FullName
	}

	funcMap := template.FuncMap{
		"currentRole":  func() string { return role },
		"currentEmail": func() string { return email },
		"currentName":  func() string { return name },
		"isLoggedIn":   func() bool { return role != "" },
		"isAdmin":      func() bool { return role == profileDomain.RoleAdmin },
		"csrfToken":    func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"fmtDateTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006 3:04 PM")
		},
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// --- Public pages ---

// handleHome handles GET /
func handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	renderTemplate(w, r, "home.html", nil)
}

// handleAbout handles GET /about
func handleAbout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	renderTemplate(w, r, "about.html", nil)
}

// handleWhyUs handles GET /why-us
func handleWhyUs(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	renderTemplate(w, r, "why_us.html", nil)
}

// handleSessionsPage handles GET /sessions — the public session browser
// with pricing cards and live availability.
func handleSessionsPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	query := projections.GetSessionListQuery{
		Type:       r.URL.Query().Get("type"),
		DateFilter: r.URL.Query().Get("date"),
	}
	if sess, ok := middleware.GetSessionFromContext(ctx); ok {
		query.UserID = sess.UserID
	}
	cards, err := projections.QueryGetSessionList(ctx, query, projections.GetSessionListDeps{
		SessionStore: stores.SessionStore,
		BookingStore: stores.BookingStore,
	}, timeNow())
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "sessions.html", map[string]any{
			"Sessions":   cards,
			"TypeFilter": query.Type,
			"DateFilter": query.DateFilter,
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cards)
}

// handleContact handles GET (form) and POST (submit) for /contact.
func handleContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	isHTML := isHTMLRequest(r)

	if r.Method == "GET" {
		renderTemplate(w, r, "contact.html", map[string]any{})
		return
	}

	if r.Method == "POST" {
		input := orchestrators.SubmitContactInput{}
		if isFormRequest(r) {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input.Name = r.FormValue("Name")
			input.Email = r.FormValue("Email")
			input.Subject = r.FormValue("Subject")
			input.Message = r.FormValue("Message")
		} else {
			if err := strictDecode(r, &input); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
		}

		err := orchestrators.ExecuteSubmitContact(ctx, input, orchestrators.SubmitContactDeps{
			ContactStore: stores.ContactStore,
			EmailSender:  emailSender,
			RelayTo:      contactRelayTo,
		})
		if err != nil {
			if isHTML {
				renderTemplate(w, r, "contact.html", map[string]any{
					"Error": "Sorry, your message could not be sent. Please try again.",
					"Name":  input.Name, "Email": input.Email,
					"Subject": input.Subject, "Message": input.Message,
				})
				return
			}
			internalError(w, err)
			return
		}

		if isHTML {
			renderTemplate(w, r, "contact.html", map[string]any{
				"Success": "Thanks for reaching out! We'll get back to you soon.",
			})
		} else {
			w.WriteHeader(http.StatusNoContent)
		}
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// --- Auth ---

// handleLogin handles GET (form) and POST (credentials) for /login.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	isHTML := isHTMLRequest(r)

	if r.Method == "GET" {
		if _, ok := middleware.GetSessionFromContext(ctx); ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", nil)
		return
	}

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.LoginInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Email = r.FormValue("Email")
		input.Password = r.FormValue("Password")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	result, err := orchestrators.ExecuteLogin(ctx, input, orchestrators.LoginDeps{
		ProfileStore: stores.ProfileStore,
	})
	if err != nil {
		msg := "Invalid email or password."
		if errors.Is(err, orchestrators.ErrAccountLocked) {
			msg = "Account locked after too many failed attempts. Try again later."
		}
		if isHTML {
			renderTemplate(w, r, "login.html", map[string]any{"Error": msg, "Email": input.Email})
			return
		}
		http.Error(w, msg, http.StatusUnauthorized)
		return
	}

	token, err := sessions.Create(result.UserID, result.Email, result.FullName, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	target := "/dashboard"
	if result.Role == profileDomain.RoleAdmin {
		target = "/admin"
	}
	if isHTML {
		http.Redirect(w, r, target, http.StatusSeeOther)
	} else {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"redirect": target})
	}
}

// handleSignup handles GET (form) and POST (new profile) for /signup.
func handleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	isHTML := isHTMLRequest(r)

	if r.Method == "GET" {
		renderTemplate(w, r, "signup.html", nil)
		return
	}

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.SignupInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.FullName = r.FormValue("FullName")
		input.Email = r.FormValue("Email")
		input.Password = r.FormValue("Password")
		input.Phone = r.FormValue("Phone")
		input.School = r.FormValue("School")
		input.Grade = r.FormValue("Grade")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	result, err := orchestrators.ExecuteSignup(ctx, input, orchestrators.SignupDeps{
		ProfileStore: stores.ProfileStore,
	})
	if err != nil {
		msg := "Could not create your account. Please check the form and try again."
		if errors.Is(err, orchestrators.ErrEmailTaken) {
			msg = "An account with that email already exists."
		} else if errors.Is(err, profileDomain.ErrPasswordTooShort) {
			msg = "Password must be at least 8 characters."
		}
		if isHTML {
			renderTemplate(w, r, "signup.html", map[string]any{
				"Error": msg, "FullName": input.FullName, "Email": input.Email,
				"Phone": input.Phone, "School": input.School, "Grade": input.Grade,
			})
			return
		}
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	token, err := sessions.Create(result.UserID, result.Email, result.FullName, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	if isHTML {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	} else {
		w.WriteHeader(http.StatusCreated)
	}
}

// handleLogout handles POST /logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if cookie, err := r.Cookie("peerpath_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// --- Student dashboard ---

// handleDashboard handles GET /dashboard.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	result, err := projections.QueryGetDashboard(ctx, projections.GetDashboardQuery{UserID: sess.UserID}, projections.GetDashboardDeps{
		ProfileStore:      stores.ProfileStore,
		SessionStore:      stores.SessionStore,
		BookingStore:      stores.BookingStore,
		PaymentStore:      stores.PaymentStore,
		NotificationStore: stores.NotificationStore,
	}, timeNow())
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "dashboard.html", map[string]any{
			"Dashboard": result,
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleBookSession handles POST /bookings.
func handleBookSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	isHTML := isHTMLRequest(r)
	sess, _ := middleware.GetSessionFromContext(ctx)

	input := orchestrators.BookSessionInput{UserID: sess.UserID}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.SessionID = r.FormValue("SessionID")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.UserID = sess.UserID
	}

	_, err := orchestrators.ExecuteBookSession(ctx, input, bookSessionDeps())
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrSessionFull):
			http.Error(w, "This session is full.", http.StatusConflict)
		case errors.Is(err, orchestrators.ErrAlreadyBooked):
			http.Error(w, "You have already booked this session.", http.StatusConflict)
		case errors.Is(err, orchestrators.ErrSessionGone):
			http.Error(w, "Session not found.", http.StatusNotFound)
		default:
			internalError(w, err)
		}
		return
	}

	if isHTML {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	} else {
		w.WriteHeader(http.StatusCreated)
	}
}

// handleCancelBooking handles POST /bookings/cancel. Students can only
// cancel their own bookings; admins cancel anyone's from the console.
func handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	isHTML := isHTMLRequest(r)
	sess, _ := middleware.GetSessionFromContext(ctx)

	input := orchestrators.CancelBookingInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.BookingID = r.FormValue("BookingID")
		input.Reason = r.FormValue("Reason")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}
	if sess.Role != profileDomain.RoleAdmin {
		input.UserID = sess.UserID
	}

	err := orchestrators.ExecuteCancelBooking(ctx, input, cancelBookingDeps())
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrNotYourBooking):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, orchestrators.ErrBookingGone):
			http.Error(w, "Booking not found.", http.StatusNotFound)
		default:
			internalError(w, err)
		}
		return
	}

	if isHTML {
		target := "/dashboard"
		if sess.Role == profileDomain.RoleAdmin {
			target = "/admin?tab=bookings"
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	} else {
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleProfile handles GET (view) and POST (update) for /profile.
func handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	isHTML := isHTMLRequest(r)
	sess, _ := middleware.GetSessionFromContext(ctx)

	if r.Method == "GET" {
		prof, err := stores.ProfileStore.GetByID(ctx, sess.UserID)
		if err != nil {
			internalError(w, err)
			return
		}
		if isHTML {
			renderTemplate(w, r, "profile.html", map[string]any{"Profile": prof})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(prof)
		return
	}

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.UpdateProfileInput{UserID: sess.UserID}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.FullName = r.FormValue("FullName")
		input.Phone = r.FormValue("Phone")
		input.ParentContact = r.FormValue("ParentContact")
		input.GradeLevel = r.FormValue("GradeLevel")
		input.School = r.FormValue("School")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.UserID = sess.UserID
	}

	if err := orchestrators.ExecuteUpdateProfile(ctx, input, orchestrators.UpdateProfileDeps{
		ProfileStore: stores.ProfileStore,
	}); err != nil {
		internalError(w, err)
		return
	}

	if isHTML {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
	} else {
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleChangePassword handles POST /profile/password.
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	isHTML := isHTMLRequest(r)
	sess, _ := middleware.GetSessionFromContext(ctx)

	input := orchestrators.ChangePasswordInput{UserID: sess.UserID}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.CurrentPassword = r.FormValue("CurrentPassword")
		input.NewPassword = r.FormValue("NewPassword")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.UserID = sess.UserID
	}

	err := orchestrators.ExecuteChangePassword(ctx, input, orchestrators.ChangePasswordDeps{
		ProfileStore: stores.ProfileStore,
	})
	if err != nil {
		msg := "Could not change your password."
		switch {
		case errors.Is(err, orchestrators.ErrCurrentPasswordWrong):
			msg = "Current password is incorrect."
		case errors.Is(err, orchestrators.ErrNewPasswordSame):
			msg = "New password must be different from the current one."
		case errors.Is(err, profileDomain.ErrPasswordTooShort):
			msg = "Password must be at least 8 characters."
		}
		if isHTML {
			prof, perr := stores.ProfileStore.GetByID(ctx, sess.UserID)
			if perr != nil {
				internalError(w, perr)
				return
			}
			renderTemplate(w, r, "profile.html", map[string]any{
				"Profile": prof, "PasswordError": msg,
			})
			return
		}
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	if isHTML {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
	} else {
		w.WriteHeader(http.StatusNoContent)
	}
}

// --- Notifications ---

// handleNotificationRead handles POST /notifications/read.
func handleNotificationRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	var notificationID string
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		notificationID = r.FormValue("NotificationID")
	} else {
		var body struct{ NotificationID string }
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		notificationID = body.NotificationID
	}

	err := orchestrators.ExecuteMarkNotificationRead(ctx, notificationID, sess.UserID,
		orchestrators.MarkNotificationReadDeps{NotificationStore: stores.NotificationStore})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrNotYourNotification):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, orchestrators.ErrNotificationGone):
			http.Error(w, "Notification not found.", http.StatusNotFound)
		default:
			internalError(w, err)
		}
		return
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	} else {
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleNotificationsReadAll handles POST /notifications/read-all.
func handleNotificationsReadAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	if err := orchestrators.ExecuteMarkAllNotificationsRead(ctx, sess.UserID, orchestrators.MarkNotificationReadDeps{
		NotificationStore: stores.NotificationStore,
	}); err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	} else {
		w.WriteHeader(http.StatusNoContent)
	}
}

// --- shared orchestrator deps ---

func bookSessionDeps() orchestrators.BookSessionDeps {
	return orchestrators.BookSessionDeps{
		SessionStore:      stores.SessionStore,
		BookingStore:      stores.BookingStore,
		NotificationStore: stores.NotificationStore,
		ProfileStore:      stores.ProfileStore,
	}
}

func cancelBookingDeps() orchestrators.CancelBookingDeps {
	return orchestrators.CancelBookingDeps{
		BookingStore:      stores.BookingStore,
		SessionStore:      stores.SessionStore,
		ProfileStore:      stores.ProfileStore,
		NotificationStore: stores.NotificationStore,
	}
}
