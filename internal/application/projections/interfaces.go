package projections

import (
	"context"

	"peerpath/internal/adapters/storage/booking"
	"peerpath/internal/adapters/storage/payment"
	"peerpath/internal/adapters/storage/profile"
	"peerpath/internal/adapters/storage/session"
	domainBooking "peerpath/internal/domain/booking"
	domainPayment "peerpath/internal/domain/payment"
	domainProfile "peerpath/internal/domain/profile"
	domainSession "peerpath/internal/domain/session"
)

// SessionStore interface for session queries.
type SessionStore interface {
	GetByID(ctx context.Context, id string) (domainSession.Session, error)
	List(ctx context.Context, filter session.ListFilter) ([]domainSession.Session, error)
}

// BookingStore interface for booking queries.
type BookingStore interface {
	ListByUser(ctx context.Context, userID string) ([]domainBooking.Booking, error)
	List(ctx context.Context, filter booking.ListFilter) ([]domainBooking.Booking, error)
}

// PaymentStore interface for payment queries.
type PaymentStore interface {
	ListByUser(ctx context.Context, userID string) ([]domainPayment.Payment, error)
	List(ctx context.Context, filter payment.ListFilter) ([]domainPayment.Payment, error)
}

// ProfileStore interface for profile queries.
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (domainProfile.Profile, error)
	List(ctx context.Context, filter profile.ListFilter) ([]domainProfile.Profile, error)
}
