package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EarningStore interface {
	Insert(ctx context.Context, earning *Earning) error
	GetOneByID(ctx context.Context, id primitive.ObjectID) (*Earning, error)
	GetByHost(ctx context.Context, hostId primitive.ObjectID) ([]*Earning, error)
	GetByHostAndStatus(ctx context.Context, hostId primitive.ObjectID, status EarningStatus) ([]*Earning, error)
	GetOneByBooking(ctx context.Context, bookingId primitive.ObjectID) (*Earning, error)
	// MarkAvailableFrom flips status pending -> available conditionally, same
	// matched-count contract as the booking store.
	MarkAvailableFrom(ctx context.Context, id primitive.ObjectID) error
	MarkPaidOut(ctx context.Context, id primitive.ObjectID, payoutRef string, paidOutDate time.Time) error
	// UpdateAmount rewrites the amount of a single record; used when a payout
	// consumes part of an earning and the rest is split off.
	UpdateAmount(ctx context.Context, id primitive.ObjectID, amount float64) error
	// DeleteByBooking removes the booking's earning when the booking money
	// goes back to the guest. Only pending and available records match;
	// paid-out money is never clawed back. Missing records are a no-op.
	DeleteByBooking(ctx context.Context, bookingId primitive.ObjectID) error
	// ReleaseDue flips every pending earning of the host whose availableDate
	// has passed. Returns the number of flipped records.
	ReleaseDue(ctx context.Context, hostId primitive.ObjectID, now time.Time) (int64, error)
	// ReleaseAllPendingOnline bulk-flips pending earnings of online-payment
	// bookings regardless of availableDate. Used by the migration script only.
	ReleaseAllPendingOnline(ctx context.Context) (int64, error)
}
