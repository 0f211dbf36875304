package browser_test

import (
	"testing"

	"github.com/playwright-community/playwright-go"
)

// TestBookingFlow walks the main student journey: browse sessions, book
// one, see it on the dashboard, then cancel it.
func TestBookingFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)
	app.loginStudent(t, page)

	// Browse sessions and book the seeded workshop
	if _, err := page.Goto(app.BaseURL + "/sessions"); err != nil {
		t.Fatalf("failed to navigate to sessions: %v", err)
	}
	card := page.Locator(".session-card").First()
	if err := card.WaitFor(playwright.LocatorWaitForOptions{Timeout: playwright.Float(5000)}); err != nil {
		t.Fatalf("no session card rendered: %v", err)
	}
	if err := card.Locator("button.cta").Click(); err != nil {
		t.Fatalf("failed to click book: %v", err)
	}
	if err := page.WaitForURL(app.BaseURL+"/dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("booking did not redirect to dashboard: %v", err)
	}

	// The booking appears on the dashboard
	row := page.Locator("table.bookings tbody tr").First()
	if err := row.WaitFor(playwright.LocatorWaitForOptions{Timeout: playwright.Float(5000)}); err != nil {
		t.Fatalf("booking row missing from dashboard: %v", err)
	}
	text, err := row.TextContent()
	if err != nil {
		t.Fatalf("failed to read booking row: %v", err)
	}
	if text == "" {
		t.Fatal("booking row is empty")
	}

	// Back on the session list the card shows as booked
	if _, err := page.Goto(app.BaseURL + "/sessions"); err != nil {
		t.Fatalf("failed to revisit sessions: %v", err)
	}
	if err := page.Locator(".booked-label").First().WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Errorf("booked label missing after booking: %v", err)
	}

	// Cancel from the dashboard
	if _, err := page.Goto(app.BaseURL + "/dashboard"); err != nil {
		t.Fatalf("failed to return to dashboard: %v", err)
	}
	if err := page.Locator("table.bookings button.danger").First().Click(); err != nil {
		t.Fatalf("failed to click cancel: %v", err)
	}
	if err := page.WaitForURL(app.BaseURL+"/dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("cancel did not land back on dashboard: %v", err)
	}
	count, err := page.Locator("table.bookings tbody tr").Count()
	if err != nil {
		t.Fatalf("failed to count booking rows: %v", err)
	}
	if count != 0 {
		t.Errorf("got %d booking rows after cancel, want 0", count)
	}
}
