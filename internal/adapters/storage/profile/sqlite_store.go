package profile

import (
	"context"
	"database/sql"
	"time"

	"peerpath/internal/adapters/storage"
	domain "peerpath/internal/domain/profile"
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

const profileColumns = `id, full_name, email, phone, parent_contact, grade_level, school,
		role, password_hash, created_at, failed_logins, locked_until`

// GetByID retrieves a profile by ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profile WHERE id = ?`, id)
	return scanProfile(row)
}

// GetByEmail retrieves a profile by email address.
// PRE: email is non-empty
// POST: Returns the entity or sql.ErrNoRows if no account exists
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profile WHERE email = ?`, email)
	return scanProfile(row)
}

// Save inserts or updates a profile.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, p domain.Profile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profile (id, full_name, email, phone, parent_contact, grade_level, school,
		   role, password_hash, created_at, failed_logins, locked_until)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   full_name=excluded.full_name, email=excluded.email, phone=excluded.phone,
		   parent_contact=excluded.parent_contact, grade_level=excluded.grade_level,
		   school=excluded.school, role=excluded.role, password_hash=excluded.password_hash,
		   created_at=excluded.created_at, failed_logins=excluded.failed_logins,
		   locked_until=excluded.locked_until`,
		p.ID, p.FullName, p.Email, p.Phone, p.ParentContact, p.GradeLevel, p.School,
		p.Role, p.PasswordHash, p.CreatedAt.Format(timeLayout),
		p.FailedLogins, nullableTime(p.LockedUntil))
	return err
}

// Delete removes a profile by ID.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM profile WHERE id = ?`, id)
	return err
}

// List returns profiles matching the filter, ordered by name.
// PRE: filter has valid parameters
// POST: Returns matching profiles ordered by full_name
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profile WHERE 1=1`
	args := []any{}

	if filter.Role != "" {
		query += ` AND role = ?`
		args = append(args, filter.Role)
	}
	query += ` ORDER BY full_name COLLATE NOCASE`
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

	var out []domain.Profile
	for rows.Next() {
		p, err := scanProfileRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProfile(row *sql.Row) (domain.Profile, error) {
	var p domain.Profile
	var createdAt string
	var lockedUntil sql.NullString

	err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.Phone, &p.ParentContact,
		&p.GradeLevel, &p.School, &p.Role, &p.PasswordHash,
		&createdAt, &p.FailedLogins, &lockedUntil)
	if err != nil {
		return domain.Profile{}, err
	}
	p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if lockedUntil.Valid {
		p.LockedUntil, _ = time.Parse(timeLayout, lockedUntil.String)
	}
	return p, nil
}

func scanProfileRow(rows *sql.Rows) (domain.Profile, error) {
	var p domain.Profile
	var createdAt string
	var lockedUntil sql.NullString

	err := rows.Scan(&p.ID, &p.FullName, &p.Email, &p.Phone, &p.ParentContact,
		&p.GradeLevel, &p.School, &p.Role, &p.PasswordHash,
		&createdAt, &p.FailedLogins, &lockedUntil)
	if err != nil {
		return domain.Profile{}, err
	}
	p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if lockedUntil.Valid {
		p.LockedUntil, _ = time.Parse(timeLayout, lockedUntil.String)
	}
	return p, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
