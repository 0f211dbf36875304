package web

import (
	"net/http"

	"peerpath/internal/application/projections"
	"peerpath/internal/domain/report"
)

// writeCSV sends a CSV body as a download attachment.
func writeCSV(w http.ResponseWriter, filename, body string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write([]byte(body))
}

// handleExportBookings handles GET /admin/export/bookings.
func handleExportBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	result, err := projections.QueryGetAdminConsole(r.Context(), projections.GetAdminConsoleQuery{}, adminConsoleDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeCSV(w, report.BookingsFilename(timeNow()), report.BookingsCSV(result.Bookings))
}

// handleExportPayments handles GET /admin/export/payments.
func handleExportPayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	result, err := projections.QueryGetAdminConsole(r.Context(), projections.GetAdminConsoleQuery{}, adminConsoleDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeCSV(w, report.PaymentsFilename(timeNow()), report.PaymentsCSV(result.Payments))
}

// handleExportMonthly handles GET /admin/export/monthly — the
// month-to-date metrics report.
func handleExportMonthly(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	result, err := projections.QueryGetAdminConsole(r.Context(), projections.GetAdminConsoleQuery{}, adminConsoleDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	now := timeNow()
	writeCSV(w, report.MonthlyFilename(now), result.MonthlyReport(now))
}
