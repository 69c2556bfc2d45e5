package application

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"openspace_backend/domain"
	"openspace_backend/errors"
)

// The marketplace keeps 10% of each booking; the rest is the host payout.
const platformFeeRate = 0.10

// Pay-at-property payouts stay pending for a 72h hold after checkout.
const earningHoldPeriod = 72 * time.Hour

type BookingService struct {
	bookings domain.BookingStore
	rooms    domain.RoomStore
	earnings domain.EarningStore
	tracer   trace.Tracer
}

func NewBookingService(bookings domain.BookingStore, rooms domain.RoomStore, earnings domain.EarningStore, tracer trace.Tracer) *BookingService {
	return &BookingService{
		bookings: bookings,
		rooms:    rooms,
		earnings: earnings,
		tracer:   tracer,
	}
}

func (service *BookingService) Create(ctx context.Context, guestId primitive.ObjectID, booking *domain.Booking) (*domain.Booking, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.Create")
	defer span.End()

	room, err := service.rooms.GetOneByID(booking.RoomId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf(errors.RoomNotFound)
	}
	if room.Status != domain.RoomApproved {
		return nil, fmt.Errorf(errors.RoomNotApproved)
	}

	if !booking.CheckOut.After(booking.CheckIn) {
		return nil, fmt.Errorf(errors.CheckOutBeforeCheckIn)
	}
	if booking.CheckIn.Before(startOfToday()) {
		return nil, fmt.Errorf(errors.BookingInPast)
	}
	if booking.Guests <= 0 || booking.Guests > room.Capacity {
		return nil, fmt.Errorf(errors.TooManyGuests)
	}
	if !domain.ValidPaymentMethod(booking.PaymentMethod) {
		return nil, fmt.Errorf(errors.InvalidRequestFormatError)
	}

	nights := int(math.Ceil(booking.CheckOut.Sub(booking.CheckIn).Hours() / 24))
	if nights < 1 {
		nights = 1
	}

	booking.GuestId = guestId
	booking.HostId = room.HostId
	booking.TotalPrice = float64(nights) * room.PricePerNight
	booking.BookingStatus = domain.BookingPending
	booking.RejectReason = ""
	booking.CancellationReason = ""

	// Online methods settle at checkout; pay-at-property settles when the
	// host marks the payment as received.
	if booking.PaymentMethod.IsOnline() {
		booking.PaymentStatus = domain.PaymentPaid
	} else {
		booking.PaymentStatus = domain.PaymentPending
	}

	err = service.bookings.Insert(ctx, booking)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if booking.PaymentStatus == domain.PaymentPaid {
		err = service.createEarning(ctx, booking)
		if err != nil {
			log.Printf("Failed to create earning for booking %s: %s", booking.ID.Hex(), err)
		}
	}

	return booking, nil
}

func (service *BookingService) GetMyBookings(ctx context.Context, guestId primitive.ObjectID) ([]*domain.Booking, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.GetMyBookings")
	defer span.End()

	return service.bookings.GetByGuest(ctx, guestId)
}

func (service *BookingService) GetHostBookings(ctx context.Context, hostId primitive.ObjectID) ([]*domain.Booking, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.GetHostBookings")
	defer span.End()

	return service.bookings.GetByHost(ctx, hostId)
}

// Confirm moves a booking pending -> confirmed. Payment is untouched.
func (service *BookingService) Confirm(ctx context.Context, hostId, bookingId primitive.ObjectID) (*domain.Booking, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.Confirm")
	defer span.End()

	booking, err := service.hostBooking(ctx, hostId, bookingId)
	if err != nil {
		return nil, err
	}

	err = service.bookings.UpdateStatusFrom(ctx, bookingId, domain.BookingPending, domain.BookingConfirmed, "")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	booking.BookingStatus = domain.BookingConfirmed
	return booking, nil
}

func (service *BookingService) Reject(ctx context.Context, hostId, bookingId primitive.ObjectID, reason string) (*domain.Booking, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.Reject")
	defer span.End()

	if reason == "" {
		return nil, fmt.Errorf(errors.RejectReasonRequired)
	}

	booking, err := service.hostBooking(ctx, hostId, bookingId)
	if err != nil {
		return nil, err
	}

	err = service.bookings.UpdateStatusFrom(ctx, bookingId, domain.BookingPending, domain.BookingRejected, reason)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	service.removeEarning(ctx, booking)

	// Online bookings are charged at checkout, so a rejection must give the
	// money back.
	if booking.PaymentMethod.IsOnline() && booking.PaymentStatus == domain.PaymentPaid {
		if err := service.bookings.UpdatePaymentStatus(ctx, bookingId, domain.PaymentRefunded); err != nil {
			log.Printf("Failed to refund booking %s: %s", bookingId.Hex(), err)
		}
		booking.PaymentStatus = domain.PaymentRefunded
	}

	booking.BookingStatus = domain.BookingRejected
	booking.RejectReason = reason
	return booking, nil
}

// Complete moves a booking confirmed -> completed and runs the earnings
// availability accounting for the booking's earning record.
func (service *BookingService) Complete(ctx context.Context, hostId, bookingId primitive.ObjectID) (*domain.Booking, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.Complete")
	defer span.End()

	booking, err := service.hostBooking(ctx, hostId, bookingId)
	if err != nil {
		return nil, err
	}

	err = service.bookings.UpdateStatusFrom(ctx, bookingId, domain.BookingConfirmed, domain.BookingCompleted, "")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Online-paid earnings become available right away. Pay-at-property
	// earnings keep their hold and are released once the availableDate
	// passes.
	if booking.PaymentMethod.IsOnline() {
		earning, err := service.earnings.GetOneByBooking(ctx, bookingId)
		if err != nil {
			log.Println(err)
		} else if earning != nil && earning.Status == domain.EarningPending {
			if err := service.earnings.MarkAvailableFrom(ctx, earning.ID); err != nil {
				log.Printf("Failed to release earning %s: %s", earning.ID.Hex(), err)
			}
		}
	}

	booking.BookingStatus = domain.BookingCompleted
	return booking, nil
}

// MarkPaymentReceived flips paymentStatus pending -> paid for a
// pay-at-property booking without changing bookingStatus.
func (service *BookingService) MarkPaymentReceived(ctx context.Context, hostId, bookingId primitive.ObjectID) (*domain.Booking, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.MarkPaymentReceived")
	defer span.End()

	booking, err := service.hostBooking(ctx, hostId, bookingId)
	if err != nil {
		return nil, err
	}

	if booking.PaymentMethod != domain.PayAtProperty {
		return nil, fmt.Errorf(errors.NotPayAtProperty)
	}

	err = service.bookings.MarkPaymentPaid(ctx, bookingId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	booking.PaymentStatus = domain.PaymentPaid

	err = service.createEarning(ctx, booking)
	if err != nil {
		log.Printf("Failed to create earning for booking %s: %s", booking.ID.Hex(), err)
	}

	return booking, nil
}

func (service *BookingService) Cancel(ctx context.Context, guestId, bookingId primitive.ObjectID, reason string) (*domain.Booking, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.Cancel")
	defer span.End()

	booking, err := service.bookings.GetOneByID(ctx, bookingId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf(errors.BookingNotFound)
	}
	if booking.GuestId != guestId {
		return nil, fmt.Errorf(errors.NotBookingGuest)
	}

	if !domain.CanTransitionBooking(booking.BookingStatus, domain.BookingCancelled) {
		return nil, fmt.Errorf(errors.InvalidBookingTransition)
	}
	if time.Now().After(booking.CheckIn) {
		return nil, fmt.Errorf(errors.CancelAfterCheckIn)
	}

	err = service.bookings.UpdateStatusFrom(ctx, bookingId, booking.BookingStatus, domain.BookingCancelled, reason)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	service.removeEarning(ctx, booking)

	if booking.PaymentMethod.IsOnline() && booking.PaymentStatus == domain.PaymentPaid {
		if err := service.bookings.UpdatePaymentStatus(ctx, bookingId, domain.PaymentRefunded); err != nil {
			log.Printf("Failed to refund booking %s: %s", bookingId.Hex(), err)
		}
		booking.PaymentStatus = domain.PaymentRefunded
	}

	booking.BookingStatus = domain.BookingCancelled
	booking.CancellationReason = reason
	return booking, nil
}

func (service *BookingService) hostBooking(ctx context.Context, hostId, bookingId primitive.ObjectID) (*domain.Booking, error) {
	booking, err := service.bookings.GetOneByID(ctx, bookingId)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf(errors.BookingNotFound)
	}
	if booking.HostId != hostId {
		return nil, fmt.Errorf(errors.NotBookingHost)
	}
	return booking, nil
}

// One earning per paid booking. The ledger entry starts pending with the
// availableDate set to checkout plus the hold period.
func (service *BookingService) createEarning(ctx context.Context, booking *domain.Booking) error {
	existing, err := service.earnings.GetOneByBooking(ctx, booking.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	earning := &domain.Earning{
		BookingId:     booking.ID,
		HostId:        booking.HostId,
		Amount:        booking.TotalPrice * (1 - platformFeeRate),
		PaymentMethod: booking.PaymentMethod,
		Status:        domain.EarningPending,
		AvailableDate: booking.CheckOut.Add(earningHoldPeriod),
	}

	return service.earnings.Insert(ctx, earning)
}

// removeEarning takes the booking's ledger entry back out when the money is
// returned to the guest. Without it the 72h hold would lapse and ReleaseDue
// would make refunded money withdrawable.
func (service *BookingService) removeEarning(ctx context.Context, booking *domain.Booking) {
	if booking.PaymentStatus != domain.PaymentPaid {
		return
	}
	if err := service.earnings.DeleteByBooking(ctx, booking.ID); err != nil {
		log.Printf("Failed to remove earning for booking %s: %s", booking.ID.Hex(), err)
	}
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
