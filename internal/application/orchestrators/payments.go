package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"peerpath/internal/domain/payment"
)

// PaymentStoreForMarkPaid defines the payment store interface needed by MarkPaymentPaid.
type PaymentStoreForMarkPaid interface {
	GetByID(ctx context.Context, id string) (payment.Payment, error)
	Save(ctx context.Context, p payment.Payment) error
}

// MarkPaymentPaidDeps holds dependencies for MarkPaymentPaid.
type MarkPaymentPaidDeps struct {
	PaymentStore PaymentStoreForMarkPaid
}

var ErrPaymentGone = errors.New("payment not found")

// ExecuteMarkPaymentPaid settles a pending payment.
// PRE: paymentID is non-empty
// POST: Payment status is paid
// INVARIANT: An already-paid payment is left unchanged
func ExecuteMarkPaymentPaid(ctx context.Context, paymentID string, deps MarkPaymentPaidDeps) error {
	p, err := deps.PaymentStore.GetByID(ctx, paymentID)
	if err != nil {
		return ErrPaymentGone
	}

	if err := p.MarkPaid(); err != nil {
		return err
	}
	if err := deps.PaymentStore.Save(ctx, p); err != nil {
		return err
	}

	slog.Info("payment_event", "event", "payment_settled",
		"payment_id", p.ID, "user_id", p.UserID, "amount", p.Amount)
	return nil
}
