package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	web "peerpath/internal/adapters/http"
	"peerpath/internal/adapters/http/middleware"
	"peerpath/internal/adapters/http/perf"
	"peerpath/internal/adapters/storage"
	bookingStore "peerpath/internal/adapters/storage/booking"
	contactStore "peerpath/internal/adapters/storage/contact"
	notificationStore "peerpath/internal/adapters/storage/notification"
	paymentStore "peerpath/internal/adapters/storage/payment"
	profileStore "peerpath/internal/adapters/storage/profile"
	sessionStore "peerpath/internal/adapters/storage/session"
	"peerpath/internal/application/orchestrators"
)

const (
	adminEmail      = "admin@test.com"
	adminPassword   = "TestPass123!"
	studentEmail    = "student@test.com"
	studentPassword = "TestPass123!"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL   string
	DB        *sql.DB
	Server    *http.Server
	PW        *playwright.Playwright
	Browser   playwright.Browser
	Stores    *web.Stores
	StudentID string
	tmpDir    string
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	// Create temp directory for the database
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Run migrations
	if err := storage.MigrateDB(db, dbPath); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	// Create stores
	profiles := profileStore.NewSQLiteStore(db)
	sessions := sessionStore.NewSQLiteStore(db)
	stores := &web.Stores{
		ProfileStore:      profiles,
		SessionStore:      sessions,
		BookingStore:      bookingStore.NewSQLiteStore(db),
		PaymentStore:      paymentStore.NewSQLiteStore(db),
		NotificationStore: notificationStore.NewSQLiteStore(db),
		ContactStore:      contactStore.NewSQLiteStore(db),
	}

	// Seed the admin and a student account
	ctx := context.Background()
	seedDeps := orchestrators.SeedAdminDeps{ProfileStore: profiles}
	if err := orchestrators.ExecuteSeedAdmin(ctx, seedDeps, adminEmail, adminPassword); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	student, err := orchestrators.ExecuteSignup(ctx, orchestrators.SignupInput{
		FullName: "Test Student",
		Email:    studentEmail,
		Password: studentPassword,
		School:   "Wellington High",
		Grade:    "Year 12",
	}, orchestrators.SignupDeps{ProfileStore: profiles})
	if err != nil {
		t.Fatalf("failed to seed student: %v", err)
	}

	// Seed an upcoming session a week out
	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	if _, err := orchestrators.ExecuteSaveSession(ctx, orchestrators.SaveSessionInput{
		Title:       "NCEA Calculus Workshop",
		Description: "Bring your own problem sets.",
		Date:        date,
		Time:        "16:00",
		Type:        "group",
		Price:       15,
		Capacity:    10,
	}, orchestrators.SaveSessionDeps{SessionStore: sessions}); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Change to project root so relative template/static paths work
	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	// Add test port to CSRF trusted origins before creating mux
	middleware.ExtraTrustedOrigins = append(middleware.ExtraTrustedOrigins,
		fmt.Sprintf("127.0.0.1:%d", port),
		fmt.Sprintf("localhost:%d", port),
	)

	// Browser tests fire many requests in quick succession
	web.RateLimitPerSecond = 1000

	// Start HTTP server
	collector := perf.NewCollector(perf.DefaultRingSize)
	mux := web.NewMux("static", stores, collector)
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	// Start Playwright
	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL:   baseURL,
		DB:        db,
		Server:    srv,
		PW:        pw,
		Browser:   browser,
		Stores:    stores,
		StudentID: student.UserID,
		tmpDir:    tmpDir,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login fills the login form and waits for the post-login landing page.
// Admins land on /admin, students on /dashboard.
func (a *testApp) login(t *testing.T, page playwright.Page, email, password, landing string) {
	t.Helper()
	_, err := page.Goto(a.BaseURL + "/login")
	if err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=Email]").Fill(email); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=Password]").Fill(password); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+landing, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to %s: %v", landing, err)
	}
}

// loginAdmin logs in with the seeded admin account.
func (a *testApp) loginAdmin(t *testing.T, page playwright.Page) {
	a.login(t, page, adminEmail, adminPassword, "/admin")
}

// loginStudent logs in with the seeded student account.
func (a *testApp) loginStudent(t *testing.T, page playwright.Page) {
	a.login(t, page, studentEmail, studentPassword, "/dashboard")
}

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
