package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"openspace_backend/domain"
	"openspace_backend/errors"
)

func newEarningService(earnings *mockEarningStore, settlement *mockSettlementClient) *EarningService {
	return NewEarningService(earnings, settlement, noopTracer())
}

func TestGetSummary_BucketsAddUp(t *testing.T) {
	earnings := new(mockEarningStore)
	settlement := new(mockSettlementClient)
	svc := newEarningService(earnings, settlement)
	ctx := context.Background()

	hostId := primitive.NewObjectID()
	paidOutDate := time.Now().Add(-24 * time.Hour)

	earnings.On("GetByHost", mock.Anything, hostId).Return([]*domain.Earning{
		{Amount: 500, Status: domain.EarningPending},
		{Amount: 300, Status: domain.EarningAvailable},
		{Amount: 200, Status: domain.EarningPaidOut, PaidOutDate: paidOutDate},
	}, nil)

	summary, err := svc.GetSummary(ctx, hostId)

	require.NoError(t, err)
	assert.Equal(t, float64(1000), summary.Total)
	assert.Equal(t, float64(500), summary.Pending)
	assert.Equal(t, float64(300), summary.Available)
	assert.Equal(t, float64(200), summary.PaidOut)
	assert.Equal(t, float64(200), summary.LastPayout)
	require.NotNil(t, summary.LastPayoutDate)
	assert.True(t, summary.LastPayoutDate.Equal(paidOutDate))
	assert.Equal(t, summary.Total, summary.Pending+summary.Available+summary.PaidOut)
}

func TestGetSummary_LastPayoutSpansMultipleEarnings(t *testing.T) {
	earnings := new(mockEarningStore)
	settlement := new(mockSettlementClient)
	svc := newEarningService(earnings, settlement)

	hostId := primitive.NewObjectID()
	olderDate := time.Now().Add(-72 * time.Hour)
	latestDate := time.Now().Add(-2 * time.Hour)

	// The latest payout consumed two earnings (300 + 200) under one ref.
	earnings.On("GetByHost", mock.Anything, hostId).Return([]*domain.Earning{
		{Amount: 150, Status: domain.EarningPaidOut, PayoutRef: "payout-old", PaidOutDate: olderDate},
		{Amount: 300, Status: domain.EarningPaidOut, PayoutRef: "payout-new", PaidOutDate: latestDate},
		{Amount: 200, Status: domain.EarningPaidOut, PayoutRef: "payout-new", PaidOutDate: latestDate},
		{Amount: 400, Status: domain.EarningAvailable},
	}, nil)

	summary, err := svc.GetSummary(context.Background(), hostId)

	require.NoError(t, err)
	assert.Equal(t, float64(650), summary.PaidOut)
	assert.Equal(t, float64(500), summary.LastPayout)
	require.NotNil(t, summary.LastPayoutDate)
	assert.True(t, summary.LastPayoutDate.Equal(latestDate))
}

func TestGetSummary_EmptyLedger(t *testing.T) {
	earnings := new(mockEarningStore)
	settlement := new(mockSettlementClient)
	svc := newEarningService(earnings, settlement)

	hostId := primitive.NewObjectID()
	earnings.On("GetByHost", mock.Anything, hostId).Return([]*domain.Earning{}, nil)

	summary, err := svc.GetSummary(context.Background(), hostId)

	require.NoError(t, err)
	assert.Zero(t, summary.Total)
	assert.Nil(t, summary.LastPayoutDate)
}

func TestRequestPayout_Validation(t *testing.T) {
	earnings := new(mockEarningStore)
	settlement := new(mockSettlementClient)
	svc := newEarningService(earnings, settlement)
	ctx := context.Background()
	hostId := primitive.NewObjectID()

	cases := []struct {
		name    string
		request domain.PayoutRequest
		want    string
	}{
		{
			name:    "zero amount",
			request: domain.PayoutRequest{Amount: 0, Method: domain.PayByCard},
			want:    errors.InvalidPayoutAmount,
		},
		{
			name:    "negative amount",
			request: domain.PayoutRequest{Amount: -50, Method: domain.PayByGcash},
			want:    errors.InvalidPayoutAmount,
		},
		{
			name:    "pay at property is not a payout channel",
			request: domain.PayoutRequest{Amount: 100, Method: domain.PayAtProperty},
			want:    errors.InvalidPayoutMethod,
		},
		{
			name: "bad card number",
			request: domain.PayoutRequest{
				Amount: 100, Method: domain.PayByCard,
				CardNumber: "1234", CardExpiry: "12/27", CardCvv: "123",
			},
			want: errors.InvalidCardDetails,
		},
		{
			name: "bad card expiry",
			request: domain.PayoutRequest{
				Amount: 100, Method: domain.PayByCard,
				CardNumber: "4111111111111111", CardExpiry: "13/27", CardCvv: "123",
			},
			want: errors.InvalidCardDetails,
		},
		{
			name: "bad mobile number",
			request: domain.PayoutRequest{
				Amount: 100, Method: domain.PayByGcash,
				MobileNumber: "12345",
			},
			want: errors.InvalidMobileNumber,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.RequestPayout(ctx, hostId, &tc.request)
			assert.Nil(t, result)
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}

	settlement.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestPayout_InsufficientBalance(t *testing.T) {
	earnings := new(mockEarningStore)
	settlement := new(mockSettlementClient)
	svc := newEarningService(earnings, settlement)
	hostId := primitive.NewObjectID()

	earnings.On("GetByHostAndStatus", mock.Anything, hostId, domain.EarningAvailable).Return([]*domain.Earning{
		{ID: primitive.NewObjectID(), Amount: 300, Status: domain.EarningAvailable},
	}, nil)

	result, err := svc.RequestPayout(context.Background(), hostId, &domain.PayoutRequest{
		Amount:       500,
		Method:       domain.PayByGcash,
		MobileNumber: "09171234567",
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, errors.InsufficientBalance, err.Error())
	settlement.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestPayout_ConsumesOldestFirstAndSplits(t *testing.T) {
	earnings := new(mockEarningStore)
	settlement := new(mockSettlementClient)
	svc := newEarningService(earnings, settlement)
	ctx := context.Background()
	hostId := primitive.NewObjectID()

	first := &domain.Earning{ID: primitive.NewObjectID(), HostId: hostId, Amount: 300, Status: domain.EarningAvailable}
	second := &domain.Earning{ID: primitive.NewObjectID(), HostId: hostId, Amount: 400, Status: domain.EarningAvailable}

	earnings.On("GetByHostAndStatus", mock.Anything, hostId, domain.EarningAvailable).
		Return([]*domain.Earning{first, second}, nil)
	settlement.On("Settle", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("*domain.PayoutRequest")).Return(nil)
	earnings.On("MarkPaidOut", mock.Anything, first.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)
	earnings.On("UpdateAmount", mock.Anything, second.ID, float64(200)).Return(nil)
	earnings.On("Insert", mock.Anything, mock.AnythingOfType("*domain.Earning")).Return(nil)
	earnings.On("MarkPaidOut", mock.Anything, second.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

	result, err := svc.RequestPayout(ctx, hostId, &domain.PayoutRequest{
		Amount:       500,
		Method:       domain.PayByGcash,
		MobileNumber: "09171234567",
	})

	require.NoError(t, err)
	assert.Equal(t, float64(500), result.Amount)
	assert.NotEmpty(t, result.PayoutRef)

	// The 400 record is split: 200 paid out, 200 re-inserted as available.
	earnings.AssertCalled(t, "Insert", mock.Anything, mock.MatchedBy(func(earning *domain.Earning) bool {
		return earning.Amount == 200 && earning.Status == domain.EarningAvailable
	}))
	earnings.AssertExpectations(t)
}

func TestRequestPayout_ExactBalance(t *testing.T) {
	earnings := new(mockEarningStore)
	settlement := new(mockSettlementClient)
	svc := newEarningService(earnings, settlement)
	hostId := primitive.NewObjectID()

	earning := &domain.Earning{ID: primitive.NewObjectID(), HostId: hostId, Amount: 250, Status: domain.EarningAvailable}

	earnings.On("GetByHostAndStatus", mock.Anything, hostId, domain.EarningAvailable).
		Return([]*domain.Earning{earning}, nil)
	settlement.On("Settle", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("*domain.PayoutRequest")).Return(nil)
	earnings.On("MarkPaidOut", mock.Anything, earning.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

	result, err := svc.RequestPayout(context.Background(), hostId, &domain.PayoutRequest{
		Amount:     250,
		Method:     domain.PayByCard,
		CardNumber: "4111111111111111",
		CardExpiry: "12/27",
		CardCvv:    "123",
	})

	require.NoError(t, err)
	assert.Equal(t, float64(250), result.Amount)
	earnings.AssertNotCalled(t, "UpdateAmount", mock.Anything, mock.Anything, mock.Anything)
	earnings.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestRequestPayout_SettlementFailure(t *testing.T) {
	earnings := new(mockEarningStore)
	settlement := new(mockSettlementClient)
	svc := newEarningService(earnings, settlement)
	hostId := primitive.NewObjectID()

	earning := &domain.Earning{ID: primitive.NewObjectID(), HostId: hostId, Amount: 500, Status: domain.EarningAvailable}
	earnings.On("GetByHostAndStatus", mock.Anything, hostId, domain.EarningAvailable).
		Return([]*domain.Earning{earning}, nil)
	settlement.On("Settle", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("*domain.PayoutRequest")).
		Return(fmt.Errorf("provider unreachable"))

	result, err := svc.RequestPayout(context.Background(), hostId, &domain.PayoutRequest{
		Amount:       100,
		Method:       domain.PayByMaya,
		MobileNumber: "09171234567",
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, errors.SettlementFailed, err.Error())
	// The ledger is untouched when the transfer fails.
	earnings.AssertNotCalled(t, "MarkPaidOut", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReleaseDueEarnings(t *testing.T) {
	earnings := new(mockEarningStore)
	settlement := new(mockSettlementClient)
	svc := newEarningService(earnings, settlement)
	hostId := primitive.NewObjectID()

	earnings.On("ReleaseDue", mock.Anything, hostId, mock.AnythingOfType("time.Time")).Return(int64(3), nil)

	released, err := svc.ReleaseDueEarnings(context.Background(), hostId)

	require.NoError(t, err)
	assert.Equal(t, int64(3), released)
}
