package payment

import (
	"errors"
	"time"
)

// Payment status constants.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// ValidStatuses contains all valid payment statuses.
var ValidStatuses = []string{StatusPending, StatusPaid}

// Domain errors
var (
	ErrEmptyUserID    = errors.New("payment must be associated with a user")
	ErrEmptySessionID = errors.New("payment must be associated with a session")
	ErrInvalidStatus  = errors.New("payment status must be one of: pending, paid")
	ErrNegativeAmount = errors.New("payment amount cannot be negative")
	ErrAlreadyPaid    = errors.New("payment is already marked as paid")
)

// Payment records what a user owes (or has paid) for an attended session.
// A payment comes into existence only when a booking first reaches the
// attended status; no other transition creates one.
type Payment struct {
	ID            string
	UserID        string
	SessionID     string
	Amount        int // whole dollars
	PaymentStatus string
	CreatedAt     time.Time
}

// Validate checks if the Payment has valid data.
// PRE: Payment struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Payment) Validate() error {
	if p.UserID == "" {
		return ErrEmptyUserID
	}
	if p.SessionID == "" {
		return ErrEmptySessionID
	}
	if !isValidStatus(p.PaymentStatus) {
		return ErrInvalidStatus
	}
	if p.Amount < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// IsPending returns true if the payment is awaiting settlement.
// INVARIANT: Payment fields are not mutated
func (p *Payment) IsPending() bool {
	return p.PaymentStatus == StatusPending
}

// MarkPaid transitions the payment to paid status.
// PRE: Payment is in pending status
// POST: PaymentStatus is paid
func (p *Payment) MarkPaid() error {
	if p.PaymentStatus == StatusPaid {
		return ErrAlreadyPaid
	}
	p.PaymentStatus = StatusPaid
	return nil
}

// SumByStatus totals the amounts of payments in the given status.
// INVARIANT: No list entry is mutated
func SumByStatus(payments []Payment, status string) int {
	total := 0
	for _, p := range payments {
		if p.PaymentStatus == status {
			total += p.Amount
		}
	}
	return total
}

func isValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}
