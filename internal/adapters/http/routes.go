package web

import (
	"net/http"

	"peerpath/internal/adapters/http/middleware"
)

// registerRoutes wires every handler onto the mux. Auth guards wrap the
// handler rather than living inside it so the route table reads as the
// access-control policy.
func registerRoutes(mux *http.ServeMux) {
	// Public pages
	mux.HandleFunc("/", handleHome)
	mux.HandleFunc("/about", handleAbout)
	mux.HandleFunc("/why-us", handleWhyUs)
	mux.HandleFunc("/sessions", handleSessionsPage)
	mux.HandleFunc("/contact", handleContact)

	// Auth
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/signup", handleSignup)
	mux.HandleFunc("/logout", handleLogout)

	// Student area
	mux.Handle("/dashboard", middleware.RequireAuth(http.HandlerFunc(handleDashboard)))
	mux.Handle("/profile", middleware.RequireAuth(http.HandlerFunc(handleProfile)))
	mux.Handle("/profile/password", middleware.RequireAuth(http.HandlerFunc(handleChangePassword)))
	mux.Handle("/bookings", middleware.RequireAuth(http.HandlerFunc(handleBookSession)))
	mux.Handle("/bookings/cancel", middleware.RequireAuth(http.HandlerFunc(handleCancelBooking)))
	mux.Handle("/notifications/read", middleware.RequireAuth(http.HandlerFunc(handleNotificationRead)))
	mux.Handle("/notifications/read-all", middleware.RequireAuth(http.HandlerFunc(handleNotificationsReadAll)))

	// Admin console
	mux.Handle("/admin", middleware.RequireAdmin(http.HandlerFunc(handleAdminConsole)))
	mux.Handle("/admin/sessions", middleware.RequireAdmin(http.HandlerFunc(handleAdminSaveSession)))
	mux.Handle("/admin/sessions/delete", middleware.RequireAdmin(http.HandlerFunc(handleAdminDeleteSession)))
	mux.Handle("/admin/bookings/attendance", middleware.RequireAdmin(http.HandlerFunc(handleAdminAttendance)))
	mux.Handle("/admin/bookings/notes", middleware.RequireAdmin(http.HandlerFunc(handleAdminNotes)))
	mux.Handle("/admin/payments/paid", middleware.RequireAdmin(http.HandlerFunc(handleAdminMarkPaid)))
	mux.Handle("/admin/messages", middleware.RequireAdmin(http.HandlerFunc(handleAdminMessages)))
	mux.Handle("/admin/perf", middleware.RequireAdmin(http.HandlerFunc(handleAdminPerf)))

	// CSV exports
	mux.Handle("/admin/export/bookings", middleware.RequireAdmin(http.HandlerFunc(handleExportBookings)))
	mux.Handle("/admin/export/payments", middleware.RequireAdmin(http.HandlerFunc(handleExportPayments)))
	mux.Handle("/admin/export/monthly", middleware.RequireAdmin(http.HandlerFunc(handleExportMonthly)))
}
