package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStore interface {
	Insert(ctx context.Context, booking *Booking) error
	GetOneByID(ctx context.Context, id primitive.ObjectID) (*Booking, error)
	GetByGuest(ctx context.Context, guestId primitive.ObjectID) ([]*Booking, error)
	GetByHost(ctx context.Context, hostId primitive.ObjectID) ([]*Booking, error)
	// UpdateStatusFrom flips bookingStatus from "from" to "to" in a single
	// conditional document update. When the booking is no longer in "from"
	// the update matches nothing and an invalid transition error is returned.
	UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, from, to BookingStatus, reason string) error
	// MarkPaymentPaid flips paymentStatus pending -> paid without touching
	// bookingStatus. Only matches pay-at-property bookings.
	MarkPaymentPaid(ctx context.Context, id primitive.ObjectID) error
	UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status PaymentStatus) error
}
