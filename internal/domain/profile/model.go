package profile

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength    = 254
	MaxFullNameLength = 120
)

// Role constants
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleStudent, RoleAdmin}

// Domain errors
var (
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrEmptyFullName    = errors.New("full name cannot be empty")
	ErrInvalidRole      = errors.New("role must be one of: student, admin")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrWrongPassword    = errors.New("incorrect password")
)

// Profile holds identity and student details for one user.
// Auth credentials live on the same record: the account/profile split of
// the original has been folded into a single concept.
type Profile struct {
	ID            string
	FullName      string
	Email         string
	Phone         string
	ParentContact string
	GradeLevel    string
	School        string
	Role          string // student, admin
	PasswordHash  string
	CreatedAt     time.Time
	FailedLogins  int
	LockedUntil   time.Time
}

// Validate checks if the Profile has valid data.
// PRE: Profile struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Email) == "" {
		return ErrEmptyEmail
	}
	if len(p.Email) > MaxEmailLength {
		return errors.New("email cannot exceed 254 characters")
	}
	if !strings.Contains(p.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(p.FullName) == "" {
		return ErrEmptyFullName
	}
	if len(p.FullName) > MaxFullNameLength {
		return errors.New("full name cannot exceed 120 characters")
	}
	if !isValidRole(p.Role) {
		return ErrInvalidRole
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt with cost 12.
// PRE: plaintext is non-empty and >= 8 characters
// POST: PasswordHash is set to bcrypt hash
func (p *Profile) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < 8 {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: Profile fields are not mutated
func (p *Profile) CheckPassword(plaintext string) error {
	if p.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked returns true if the profile is currently locked out.
// INVARIANT: Profile fields are not mutated
func (p *Profile) IsLocked() bool {
	if p.LockedUntil.IsZero() {
		return false
	}
	return time.Now().Before(p.LockedUntil)
}

// RecordFailedLogin increments the failed login counter and locks the profile after 5 failures.
// PRE: Profile exists
// POST: FailedLogins incremented; LockedUntil set if >= 5 failures
func (p *Profile) RecordFailedLogin() {
	p.FailedLogins++
	if p.FailedLogins >= 5 {
		p.LockedUntil = time.Now().Add(15 * time.Minute)
	}
}

// ResetFailedLogins clears the failed login counter and lock.
// PRE: Profile exists
// POST: FailedLogins is 0, LockedUntil is zero
func (p *Profile) ResetFailedLogins() {
	p.FailedLogins = 0
	p.LockedUntil = time.Time{}
}

// IsAdmin returns true if the profile has the admin role.
// INVARIANT: Profile fields are not mutated
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func isValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
