package payment_test

import (
	"testing"

	"peerpath/internal/domain/payment"
)

// TestPayment_Validate tests validation of Payment.
func TestPayment_Validate(t *testing.T) {
	tests := []struct {
		name    string
		p       payment.Payment
		wantErr error
	}{
		{
			name:    "valid pending payment",
			p:       payment.Payment{ID: "1", UserID: "u1", SessionID: "s1", Amount: 25, PaymentStatus: payment.StatusPending},
			wantErr: nil,
		},
		{
			name:    "zero amount allowed",
			p:       payment.Payment{ID: "2", UserID: "u1", SessionID: "s1", Amount: 0, PaymentStatus: payment.StatusPaid},
			wantErr: nil,
		},
		{
			name:    "missing user",
			p:       payment.Payment{ID: "3", SessionID: "s1", PaymentStatus: payment.StatusPending},
			wantErr: payment.ErrEmptyUserID,
		},
		{
			name:    "missing session",
			p:       payment.Payment{ID: "4", UserID: "u1", PaymentStatus: payment.StatusPending},
			wantErr: payment.ErrEmptySessionID,
		},
		{
			name:    "unknown status",
			p:       payment.Payment{ID: "5", UserID: "u1", SessionID: "s1", PaymentStatus: "refunded"},
			wantErr: payment.ErrInvalidStatus,
		},
		{
			name:    "negative amount",
			p:       payment.Payment{ID: "6", UserID: "u1", SessionID: "s1", Amount: -1, PaymentStatus: payment.StatusPending},
			wantErr: payment.ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.p.Validate(); err != tt.wantErr {
				t.Errorf("Payment.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestPayment_MarkPaid tests the pending-to-paid transition.
func TestPayment_MarkPaid(t *testing.T) {
	p := payment.Payment{PaymentStatus: payment.StatusPending}

	if err := p.MarkPaid(); err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if p.PaymentStatus != payment.StatusPaid {
		t.Errorf("PaymentStatus = %q, want paid", p.PaymentStatus)
	}
	if p.IsPending() {
		t.Error("IsPending() = true after MarkPaid")
	}

	if err := p.MarkPaid(); err != payment.ErrAlreadyPaid {
		t.Errorf("second MarkPaid() error = %v, want ErrAlreadyPaid", err)
	}
}

// TestSumByStatus tests revenue totals.
func TestSumByStatus(t *testing.T) {
	payments := []payment.Payment{
		{Amount: 25, PaymentStatus: payment.StatusPaid},
		{Amount: 20, PaymentStatus: payment.StatusPaid},
		{Amount: 15, PaymentStatus: payment.StatusPending},
	}

	if got := payment.SumByStatus(payments, payment.StatusPaid); got != 45 {
		t.Errorf("SumByStatus(paid) = %d, want 45", got)
	}
	if got := payment.SumByStatus(payments, payment.StatusPending); got != 15 {
		t.Errorf("SumByStatus(pending) = %d, want 15", got)
	}
	if got := payment.SumByStatus(nil, payment.StatusPaid); got != 0 {
		t.Errorf("SumByStatus(empty) = %d, want 0", got)
	}
}
