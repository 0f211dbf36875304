package contact

import (
	"context"
	"time"

	"peerpath/internal/adapters/storage"
	domain "peerpath/internal/domain/contact"
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

// Save inserts a contact message. Messages are immutable once stored.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, m domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_message (id, name, email, subject, body, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Subject, m.Body, m.CreatedAt.Format(timeLayout))
	return err
}

// List returns stored contact messages, newest first.
// PRE: limit > 0 caps the result
// POST: Returns messages ordered by created_at DESC
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]domain.Message, error) {
	query := `SELECT id, name, email, subject, body, created_at FROM contact_message ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		var createdAt string
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		out = append(out, m)
	}
	return out, rows.Err()
}
