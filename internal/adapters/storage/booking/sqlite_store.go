package booking

import (
	"context"
	"database/sql"
	"time"

	"peerpath/internal/adapters/storage"
	domain "peerpath/internal/domain/booking"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const bookingColumns = `id, user_id, session_id, attendance_status, notes, notes_updated_at, created_at`

// GetByID retrieves a booking by ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Booking, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM booking WHERE id = ?`, id)
	return scanBooking(row.Scan)
}

// GetByUserAndSession retrieves the booking linking a user to a session.
// PRE: userID and sessionID are non-empty
// POST: Returns the entity or sql.ErrNoRows when the user has not booked
func (s *SQLiteStore) GetByUserAndSession(ctx context.Context, userID, sessionID string) (domain.Booking, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM booking WHERE user_id = ? AND session_id = ?`,
		userID, sessionID)
	return scanBooking(row.Scan)
}

// Save inserts or updates a booking.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, b domain.Booking) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO booking (id, user_id, session_id, attendance_status, notes, notes_updated_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   user_id=excluded.user_id, session_id=excluded.session_id,
		   attendance_status=excluded.attendance_status, notes=excluded.notes,
		   notes_updated_at=excluded.notes_updated_at, created_at=excluded.created_at`,
		b.ID, b.UserID, b.SessionID, b.AttendanceStatus, b.Notes,
		nullableTime(b.NotesUpdatedAt), b.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a booking by ID.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM booking WHERE id = ?`, id)
	return err
}

// DeleteBySession removes all bookings for a session (cascade step).
// PRE: sessionID is non-empty; dependent payments already removed
// POST: No booking references sessionID
func (s *SQLiteStore) DeleteBySession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM booking WHERE session_id = ?`, sessionID)
	return err
}

// CountBySession returns the number of bookings referencing a session.
// This is the fresh read used for the capacity check immediately before
// a booking insert.
// PRE: sessionID is non-empty
// POST: Returns count >= 0
func (s *SQLiteStore) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM booking WHERE session_id = ?`, sessionID).Scan(&n)
	return n, err
}

// ListByUser returns all bookings belonging to a user, newest first.
// PRE: userID is non-empty
// POST: Returns the user's bookings ordered by created_at DESC
func (s *SQLiteStore) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM booking WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

// List returns bookings matching the filter, newest first.
// PRE: filter has valid parameters
// POST: Returns matching bookings ordered by created_at DESC
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM booking WHERE 1=1`
	args := []any{}

	if filter.SessionID != "" {
		query += ` AND session_id = ?`
		args = append(args, filter.SessionID)
	}
	if filter.AttendanceStatus != "" {
		query += ` AND attendance_status = ?`
		args = append(args, filter.AttendanceStatus)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func scanBookings(rows *sql.Rows) ([]domain.Booking, error) {
	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBooking(scan func(dest ...any) error) (domain.Booking, error) {
	var b domain.Booking
	var notesUpdatedAt sql.NullString
	var createdAt string

	err := scan(&b.ID, &b.UserID, &b.SessionID, &b.AttendanceStatus,
		&b.Notes, &notesUpdatedAt, &createdAt)
	if err != nil {
		return domain.Booking{}, err
	}
	if notesUpdatedAt.Valid {
		b.NotesUpdatedAt, _ = time.Parse(timeLayout, notesUpdatedAt.String)
	}
	b.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return b, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
