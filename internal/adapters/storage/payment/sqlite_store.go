package payment

import (
	"context"
	"database/sql"
	"time"

	"peerpath/internal/adapters/storage"
	domain "peerpath/internal/domain/payment"
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

const paymentColumns = `id, user_id, session_id, amount, payment_status, created_at`

// GetByID retrieves a payment by ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payment WHERE id = ?`, id)
	return scanPayment(row.Scan)
}

// GetByUserAndSession retrieves the payment for a (user, session) pair.
// This is the pre-check read guarding payment creation on the attended
// transition; it is not atomic with the insert that may follow.
// PRE: userID and sessionID are non-empty
// POST: Returns the entity or sql.ErrNoRows when none exists
func (s *SQLiteStore) GetByUserAndSession(ctx context.Context, userID, sessionID string) (domain.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payment WHERE user_id = ? AND session_id = ?`,
		userID, sessionID)
	return scanPayment(row.Scan)
}

// Save inserts or updates a payment.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, p domain.Payment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payment (id, user_id, session_id, amount, payment_status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   user_id=excluded.user_id, session_id=excluded.session_id, amount=excluded.amount,
		   payment_status=excluded.payment_status, created_at=excluded.created_at`,
		p.ID, p.UserID, p.SessionID, p.Amount, p.PaymentStatus,
		p.CreatedAt.Format(timeLayout))
	return err
}

// DeleteBySession removes all payments referencing a session (first
// cascade step of a session delete).
// PRE: sessionID is non-empty
// POST: No payment references sessionID
func (s *SQLiteStore) DeleteBySession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM payment WHERE session_id = ?`, sessionID)
	return err
}

// ListByUser returns all payments belonging to a user, newest first.
// PRE: userID is non-empty
// POST: Returns the user's payments ordered by created_at DESC
func (s *SQLiteStore) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payment WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

// List returns payments matching the filter, newest first.
// PRE: filter has valid parameters
// POST: Returns matching payments ordered by created_at DESC
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment WHERE 1=1`
	args := []any{}

	if filter.PaymentStatus != "" {
		query += ` AND payment_status = ?`
		args = append(args, filter.PaymentStatus)
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
	return scanPayments(rows)
}

func scanPayments(rows *sql.Rows) ([]domain.Payment, error) {
	var out []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayment(scan func(dest ...any) error) (domain.Payment, error) {
	var p domain.Payment
	var createdAt string

	err := scan(&p.ID, &p.UserID, &p.SessionID, &p.Amount, &p.PaymentStatus, &createdAt)
	if err != nil {
		return domain.Payment{}, err
	}
	p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return p, nil
}
