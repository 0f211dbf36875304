package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "peerpath/internal/adapters/email"
	web "peerpath/internal/adapters/http"
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

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("PEERPATH_DB", "peerpath.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.MigrateDB(db, dbPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	profiles := profileStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		ProfileStore:      profiles,
		SessionStore:      sessionStore.NewSQLiteStore(timedDB),
		BookingStore:      bookingStore.NewSQLiteStore(timedDB),
		PaymentStore:      paymentStore.NewSQLiteStore(timedDB),
		NotificationStore: notificationStore.NewSQLiteStore(timedDB),
		ContactStore:      contactStore.NewSQLiteStore(timedDB),
	}

	// Seed the admin account so the console is reachable on a fresh install
	adminEmail := envOrDefault("PEERPATH_ADMIN_EMAIL", "hello@peerpath.nz")
	adminPassword := envOrDefault("PEERPATH_ADMIN_PASSWORD", "Tuakana teina")
	seedDeps := orchestrators.SeedAdminDeps{ProfileStore: profiles}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Configure email sender for contact form relay
	resendKey := os.Getenv("PEERPATH_RESEND_KEY")
	emailFrom := envOrDefault("PEERPATH_RESEND_FROM", "PeerPath <noreply@peerpath.nz>")
	relayTo := envOrDefault("PEERPATH_CONTACT_TO", "hello@peerpath.nz")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, relayTo)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, relayTo)
		if os.Getenv("PEERPATH_ENV") == "production" {
			log.Println("WARNING: PEERPATH_RESEND_KEY is not set — contact relay is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set PEERPATH_RESEND_KEY for real delivery)")
		}
	}

	mux := web.NewMux("static", stores, collector)

	addr := envOrDefault("PEERPATH_ADDR", ":8080")
	log.Printf("PeerPath %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("PEERPATH_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
