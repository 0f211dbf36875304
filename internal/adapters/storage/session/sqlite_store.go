package session

import (
	"context"
	"time"

	"peerpath/internal/adapters/storage"
	domain "peerpath/internal/domain/session"
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

const sessionColumns = `id, title, description, date, time, type, price, capacity, created_at`

// GetByID retrieves a session by ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM session WHERE id = ?`, id)
	return scanSession(row.Scan)
}

// Save inserts or updates a session.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, v domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (id, title, description, date, time, type, price, capacity, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, description=excluded.description, date=excluded.date,
		   time=excluded.time, type=excluded.type, price=excluded.price,
		   capacity=excluded.capacity, created_at=excluded.created_at`,
		v.ID, v.Title, v.Description, v.Date, v.Time, v.Type, v.Price, v.Capacity,
		v.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a session by ID.
// PRE: id is non-empty; dependent bookings and payments already removed
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = ?`, id)
	return err
}

// List returns sessions matching the filter, soonest first.
// PRE: filter has valid parameters
// POST: Returns matching sessions ordered by date then time
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM session WHERE 1=1`
	args := []any{}

	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, filter.Type)
	}
	if filter.FromDate != "" {
		query += ` AND date >= ?`
		args = append(args, filter.FromDate)
	}
	query += ` ORDER BY date, time`
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

	var out []domain.Session
	for rows.Next() {
		v, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanSession(scan func(dest ...any) error) (domain.Session, error) {
	var v domain.Session
	var createdAt string

	err := scan(&v.ID, &v.Title, &v.Description, &v.Date, &v.Time, &v.Type,
		&v.Price, &v.Capacity, &createdAt)
	if err != nil {
		return domain.Session{}, err
	}
	v.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return v, nil
}
