package storage

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// migration is one schema step. Steps run in order inside a single
// transaction per step and bump schema_version on success.
type migration struct {
	version int
	apply   func(tx *sql.Tx) error
}

var migrations = []migration{
	{1, migrateBaseline},
	{2, migrateIndexes},
}

// LatestSchemaVersion returns the version the migration chain ends at.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the current schema version, 0 for a database
// that has never been migrated.
// PRE: db is a valid database connection
// POST: Returns version >= 0
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect schema: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}

	var version int
	err = db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// MigrateDB brings the database up to the latest schema version.
// A file-backed database is copied to <path>.bak before any step runs.
// PRE: db is a valid database connection; path is its DSN path
// POST: SchemaVersion(db) == LatestSchemaVersion(); WAL and foreign keys enabled
func MigrateDB(db *sql.DB, path string) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	if current >= LatestSchemaVersion() {
		return nil
	}

	if err := backupFile(path); err != nil {
		return fmt.Errorf("failed to back up database before migration: %w", err)
	}

	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
		slog.Info("schema_migrated", "version", m.version)
	}

	return nil
}

func applyMigration(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := m.apply(tx); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))`,
		m.version); err != nil {
		return err
	}
	return tx.Commit()
}

// backupFile copies a file-backed database aside. In-memory and missing
// databases have nothing to back up.
func backupFile(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}
	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer src.Close()

	dst, err := os.Create(path + ".bak")
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// migrateBaseline creates the initial schema.
func migrateBaseline(tx *sql.Tx) error {
	schema := `
	CREATE TABLE IF NOT EXISTS profile (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL DEFAULT '',
		parent_contact TEXT NOT NULL DEFAULT '',
		grade_level TEXT NOT NULL DEFAULT '',
		school TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'student',
		password_hash TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS session (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		type TEXT NOT NULL,
		price INTEGER NOT NULL,
		capacity INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS booking (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		attendance_status TEXT NOT NULL DEFAULT 'booked',
		notes TEXT NOT NULL DEFAULT '',
		notes_updated_at TEXT,
		created_at TEXT NOT NULL,
		UNIQUE (user_id, session_id),
		FOREIGN KEY (user_id) REFERENCES profile(id),
		FOREIGN KEY (session_id) REFERENCES session(id)
	);

	CREATE TABLE IF NOT EXISTS payment (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		amount INTEGER NOT NULL,
		payment_status TEXT NOT NULL DEFAULT 'pending',
		created_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES profile(id)
	);

	CREATE TABLE IF NOT EXISTS notification (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		related_booking_id TEXT,
		related_session_id TEXT,
		is_read INTEGER NOT NULL DEFAULT 0,
		email_sent INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES profile(id)
	);

	CREATE TABLE IF NOT EXISTS contact_message (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		subject TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`
	_, err := tx.Exec(schema)
	return err
}

// migrateIndexes adds lookup indexes for the dashboard and console list views.
func migrateIndexes(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE INDEX IF NOT EXISTS idx_booking_session ON booking(session_id);
	CREATE INDEX IF NOT EXISTS idx_booking_user ON booking(user_id);
	CREATE INDEX IF NOT EXISTS idx_payment_session ON payment(session_id);
	CREATE INDEX IF NOT EXISTS idx_payment_user ON payment(user_id);
	CREATE INDEX IF NOT EXISTS idx_notification_user ON notification(user_id, is_read);
	CREATE INDEX IF NOT EXISTS idx_session_date ON session(date);
	`)
	return err
}
