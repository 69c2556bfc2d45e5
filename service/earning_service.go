package application

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"openspace_backend/domain"
	"openspace_backend/errors"
)

type EarningService struct {
	earnings   domain.EarningStore
	settlement domain.SettlementClient
	tracer     trace.Tracer
}

func NewEarningService(earnings domain.EarningStore, settlement domain.SettlementClient, tracer trace.Tracer) *EarningService {
	return &EarningService{
		earnings:   earnings,
		settlement: settlement,
		tracer:     tracer,
	}
}

func (service *EarningService) GetEarnings(ctx context.Context, hostId primitive.ObjectID) ([]*domain.Earning, error) {
	ctx, span := service.tracer.Start(ctx, "EarningService.GetEarnings")
	defer span.End()

	return service.earnings.GetByHost(ctx, hostId)
}

// GetSummary aggregates the host ledger. The buckets always add up:
// total = pending + available + paidOut.
func (service *EarningService) GetSummary(ctx context.Context, hostId primitive.ObjectID) (*domain.EarningsSummary, error) {
	ctx, span := service.tracer.Start(ctx, "EarningService.GetSummary")
	defer span.End()

	earnings, err := service.earnings.GetByHost(ctx, hostId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	summary := &domain.EarningsSummary{}
	var lastPayoutDate time.Time
	var lastPayoutRef string

	for _, earning := range earnings {
		summary.Total += earning.Amount

		switch earning.Status {
		case domain.EarningPending:
			summary.Pending += earning.Amount
		case domain.EarningAvailable:
			summary.Available += earning.Amount
		case domain.EarningPaidOut:
			summary.PaidOut += earning.Amount
			if earning.PaidOutDate.After(lastPayoutDate) {
				lastPayoutDate = earning.PaidOutDate
				lastPayoutRef = earning.PayoutRef
			}
		}
	}

	if !lastPayoutDate.IsZero() {
		summary.LastPayoutDate = &lastPayoutDate
		// One payout can consume several earnings; they all share the ref.
		for _, earning := range earnings {
			if earning.Status == domain.EarningPaidOut && earning.PayoutRef == lastPayoutRef {
				summary.LastPayout += earning.Amount
			}
		}
	}

	return summary, nil
}

var (
	cardNumberRegex = regexp.MustCompile(`^[0-9]{13,19}$`)
	cardExpiryRegex = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	cardCvvRegex    = regexp.MustCompile(`^[0-9]{3,4}$`)
	mobileRegex     = regexp.MustCompile(`^09[0-9]{9}$`)
)

func validatePayoutRequest(request *domain.PayoutRequest) error {
	if request.Amount <= 0 {
		return fmt.Errorf(errors.InvalidPayoutAmount)
	}

	switch request.Method {
	case domain.PayByCard:
		if !cardNumberRegex.MatchString(request.CardNumber) ||
			!cardExpiryRegex.MatchString(request.CardExpiry) ||
			!cardCvvRegex.MatchString(request.CardCvv) {
			return fmt.Errorf(errors.InvalidCardDetails)
		}
	case domain.PayByGcash, domain.PayByMaya:
		if !mobileRegex.MatchString(request.MobileNumber) {
			return fmt.Errorf(errors.InvalidMobileNumber)
		}
	default:
		return fmt.Errorf(errors.InvalidPayoutMethod)
	}

	return nil
}

// RequestPayout consumes available earnings oldest-first until the requested
// amount is covered. When the amount lands inside a record the record is
// split: the consumed part is paid out, the remainder stays available.
func (service *EarningService) RequestPayout(ctx context.Context, hostId primitive.ObjectID, request *domain.PayoutRequest) (*domain.PayoutResult, error) {
	ctx, span := service.tracer.Start(ctx, "EarningService.RequestPayout")
	defer span.End()

	if err := validatePayoutRequest(request); err != nil {
		return nil, err
	}

	available, err := service.earnings.GetByHostAndStatus(ctx, hostId, domain.EarningAvailable)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var balance float64
	for _, earning := range available {
		balance += earning.Amount
	}
	if request.Amount > balance {
		return nil, fmt.Errorf(errors.InsufficientBalance)
	}

	payoutRef := uuid.New().String()

	err = service.settlement.Settle(ctx, payoutRef, request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Printf("Settlement failed for payout %s: %s", payoutRef, err)
		return nil, fmt.Errorf(errors.SettlementFailed)
	}

	paidOutDate := time.Now()
	remaining := request.Amount

	for _, earning := range available {
		if remaining <= 0 {
			break
		}

		if earning.Amount > remaining {
			leftover := earning.Amount - remaining

			err = service.earnings.UpdateAmount(ctx, earning.ID, remaining)
			if err != nil {
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}

			rest := &domain.Earning{
				BookingId:     earning.BookingId,
				HostId:        earning.HostId,
				Amount:        leftover,
				PaymentMethod: earning.PaymentMethod,
				Status:        domain.EarningAvailable,
				AvailableDate: earning.AvailableDate,
				CreatedAt:     earning.CreatedAt,
			}
			if err := service.earnings.Insert(ctx, rest); err != nil {
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
		}

		err = service.earnings.MarkPaidOut(ctx, earning.ID, payoutRef, paidOutDate)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		if earning.Amount > remaining {
			remaining = 0
		} else {
			remaining -= earning.Amount
		}
	}

	return &domain.PayoutResult{
		PayoutRef: payoutRef,
		Amount:    request.Amount,
		Method:    request.Method,
	}, nil
}

// ReleaseDueEarnings flips the host's pending earnings whose hold has
// expired. The admin release endpoint and the migration script call this.
func (service *EarningService) ReleaseDueEarnings(ctx context.Context, hostId primitive.ObjectID) (int64, error) {
	ctx, span := service.tracer.Start(ctx, "EarningService.ReleaseDueEarnings")
	defer span.End()

	return service.earnings.ReleaseDue(ctx, hostId, time.Now())
}
