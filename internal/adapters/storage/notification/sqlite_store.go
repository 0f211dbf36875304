package notification

import (
	"context"
	"database/sql"
	"time"

	"peerpath/internal/adapters/storage"
	domain "peerpath/internal/domain/notification"
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

const notificationColumns = `id, user_id, type, title, message, related_booking_id,
		related_session_id, is_read, email_sent, created_at`

// GetByID retrieves a notification by ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Notification, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notification WHERE id = ?`, id)
	return scanNotification(row.Scan)
}

// Save inserts or updates a notification.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, n domain.Notification) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notification (id, user_id, type, title, message, related_booking_id,
		   related_session_id, is_read, email_sent, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   user_id=excluded.user_id, type=excluded.type, title=excluded.title,
		   message=excluded.message, related_booking_id=excluded.related_booking_id,
		   related_session_id=excluded.related_session_id, is_read=excluded.is_read,
		   email_sent=excluded.email_sent, created_at=excluded.created_at`,
		n.ID, n.UserID, n.Type, n.Title, n.Message,
		nullableString(n.RelatedBookingID), nullableString(n.RelatedSessionID),
		boolToInt(n.IsRead), boolToInt(n.EmailSent), n.CreatedAt.Format(timeLayout))
	return err
}

// ListByUser returns a user's notifications, newest first.
// PRE: userID is non-empty; limit > 0 caps the result
// POST: Returns notifications ordered by created_at DESC
func (s *SQLiteStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notification WHERE user_id = ? ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// CountUnread returns the number of unread notifications for a user.
// PRE: userID is non-empty
// POST: Returns count >= 0
func (s *SQLiteStore) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notification WHERE user_id = ? AND is_read = 0`, userID).Scan(&n)
	return n, err
}

// MarkRead flags a single notification as read.
// PRE: id is non-empty
// POST: is_read = 1 for the given id
func (s *SQLiteStore) MarkRead(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE notification SET is_read = 1 WHERE id = ?`, id)
	return err
}

// MarkAllRead flags every notification of a user as read.
// PRE: userID is non-empty
// POST: CountUnread(userID) == 0
func (s *SQLiteStore) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE notification SET is_read = 1 WHERE user_id = ?`, userID)
	return err
}

func scanNotification(scan func(dest ...any) error) (domain.Notification, error) {
	var n domain.Notification
	var relatedBooking, relatedSession sql.NullString
	var isRead, emailSent int
	var createdAt string

	err := scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
		&relatedBooking, &relatedSession, &isRead, &emailSent, &createdAt)
	if err != nil {
		return domain.Notification{}, err
	}
	n.RelatedBookingID = relatedBooking.String
	n.RelatedSessionID = relatedSession.String
	n.IsRead = isRead != 0
	n.EmailSent = emailSent != 0
	n.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return n, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
