package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingTransitions(t *testing.T) {
	allowed := []struct {
		from BookingStatus
		to   BookingStatus
	}{
		{BookingPending, BookingConfirmed},
		{BookingPending, BookingCancelled},
		{BookingPending, BookingRejected},
		{BookingConfirmed, BookingCompleted},
		{BookingConfirmed, BookingCancelled},
	}

	for _, tc := range allowed {
		assert.True(t, CanTransitionBooking(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	statuses := []BookingStatus{BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled, BookingRejected}

	// Terminal statuses never move again.
	for _, terminal := range []BookingStatus{BookingCompleted, BookingCancelled, BookingRejected} {
		for _, to := range statuses {
			assert.False(t, CanTransitionBooking(terminal, to), "%s -> %s should be forbidden", terminal, to)
		}
	}

	// No backward moves.
	assert.False(t, CanTransitionBooking(BookingConfirmed, BookingPending))
	assert.False(t, CanTransitionBooking(BookingPending, BookingCompleted))
	assert.False(t, CanTransitionBooking(BookingPending, BookingPending))

	// Unknown statuses go nowhere.
	assert.False(t, CanTransitionBooking(BookingStatus("archived"), BookingConfirmed))
}

func TestEarningTransitions(t *testing.T) {
	assert.True(t, CanTransitionEarning(EarningPending, EarningAvailable))
	assert.True(t, CanTransitionEarning(EarningAvailable, EarningPaidOut))

	assert.False(t, CanTransitionEarning(EarningPending, EarningPaidOut))
	assert.False(t, CanTransitionEarning(EarningAvailable, EarningPending))
	assert.False(t, CanTransitionEarning(EarningPaidOut, EarningAvailable))
	assert.False(t, CanTransitionEarning(EarningPaidOut, EarningPending))
	assert.False(t, CanTransitionEarning(EarningPending, EarningPending))
}

func TestPaymentMethods(t *testing.T) {
	assert.False(t, PayAtProperty.IsOnline())
	assert.True(t, PayByCard.IsOnline())
	assert.True(t, PayByGcash.IsOnline())
	assert.True(t, PayByMaya.IsOnline())

	assert.True(t, ValidPaymentMethod(PayAtProperty))
	assert.True(t, ValidPaymentMethod(PayByCard))
	assert.False(t, ValidPaymentMethod(PaymentMethod("check")))
	assert.False(t, ValidPaymentMethod(PaymentMethod("")))
}

func TestValidateUser(t *testing.T) {
	user := &User{
		FirstName: "Juan",
		LastName:  "Cruz",
		Email:     "juan@example.com",
		Username:  "juancruz",
	}
	assert.NoError(t, user.ValidateUser())

	user.FirstName = "Juan3"
	assert.Error(t, user.ValidateUser())

	user.FirstName = "Juan"
	user.Username = "juan cruz"
	assert.Error(t, user.ValidateUser())
}
