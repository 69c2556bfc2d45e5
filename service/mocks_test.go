package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"openspace_backend/domain"
)

func noopTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("")
}

// --- Mock Stores ---

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Insert(user *domain.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserStore) GetAll() ([]*domain.User, error) {
	args := m.Called()
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *mockUserStore) GetOneByEmail(email string) (*domain.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) GetOneByID(id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) Update(user *domain.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserStore) Delete(id primitive.ObjectID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockUserStore) SetBanned(id primitive.ObjectID, banned bool) error {
	args := m.Called(id, banned)
	return args.Error(0)
}

func (m *mockUserStore) GetPendingVerifications() ([]*domain.User, error) {
	args := m.Called()
	return args.Get(0).([]*domain.User), args.Error(1)
}

type mockRoomStore struct {
	mock.Mock
}

func (m *mockRoomStore) Insert(room *domain.Room) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *mockRoomStore) GetOneByID(id primitive.ObjectID) (*domain.Room, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *mockRoomStore) GetApproved() ([]*domain.Room, error) {
	args := m.Called()
	return args.Get(0).([]*domain.Room), args.Error(1)
}

func (m *mockRoomStore) GetByHost(hostId primitive.ObjectID) ([]*domain.Room, error) {
	args := m.Called(hostId)
	return args.Get(0).([]*domain.Room), args.Error(1)
}

func (m *mockRoomStore) GetByStatus(status domain.RoomStatus) ([]*domain.Room, error) {
	args := m.Called(status)
	return args.Get(0).([]*domain.Room), args.Error(1)
}

func (m *mockRoomStore) Update(room *domain.Room) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *mockRoomStore) UpdateStatus(id primitive.ObjectID, status domain.RoomStatus, reason string) error {
	args := m.Called(id, status, reason)
	return args.Error(0)
}

func (m *mockRoomStore) Delete(id primitive.ObjectID) error {
	args := m.Called(id)
	return args.Error(0)
}

type mockBookingStore struct {
	mock.Mock
}

func (m *mockBookingStore) Insert(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *mockBookingStore) GetOneByID(ctx context.Context, id primitive.ObjectID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingStore) GetByGuest(ctx context.Context, guestId primitive.ObjectID) ([]*domain.Booking, error) {
	args := m.Called(ctx, guestId)
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *mockBookingStore) GetByHost(ctx context.Context, hostId primitive.ObjectID) ([]*domain.Booking, error) {
	args := m.Called(ctx, hostId)
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *mockBookingStore) UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, from, to domain.BookingStatus, reason string) error {
	args := m.Called(ctx, id, from, to, reason)
	return args.Error(0)
}

func (m *mockBookingStore) MarkPaymentPaid(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBookingStore) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status domain.PaymentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type mockEarningStore struct {
	mock.Mock
}

func (m *mockEarningStore) Insert(ctx context.Context, earning *domain.Earning) error {
	args := m.Called(ctx, earning)
	return args.Error(0)
}

func (m *mockEarningStore) GetOneByID(ctx context.Context, id primitive.ObjectID) (*domain.Earning, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Earning), args.Error(1)
}

func (m *mockEarningStore) GetByHost(ctx context.Context, hostId primitive.ObjectID) ([]*domain.Earning, error) {
	args := m.Called(ctx, hostId)
	return args.Get(0).([]*domain.Earning), args.Error(1)
}

func (m *mockEarningStore) GetByHostAndStatus(ctx context.Context, hostId primitive.ObjectID, status domain.EarningStatus) ([]*domain.Earning, error) {
	args := m.Called(ctx, hostId, status)
	return args.Get(0).([]*domain.Earning), args.Error(1)
}

func (m *mockEarningStore) GetOneByBooking(ctx context.Context, bookingId primitive.ObjectID) (*domain.Earning, error) {
	args := m.Called(ctx, bookingId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Earning), args.Error(1)
}

func (m *mockEarningStore) MarkAvailableFrom(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockEarningStore) MarkPaidOut(ctx context.Context, id primitive.ObjectID, payoutRef string, paidOutDate time.Time) error {
	args := m.Called(ctx, id, payoutRef, paidOutDate)
	return args.Error(0)
}

func (m *mockEarningStore) UpdateAmount(ctx context.Context, id primitive.ObjectID, amount float64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *mockEarningStore) DeleteByBooking(ctx context.Context, bookingId primitive.ObjectID) error {
	args := m.Called(ctx, bookingId)
	return args.Error(0)
}

func (m *mockEarningStore) ReleaseDue(ctx context.Context, hostId primitive.ObjectID, now time.Time) (int64, error) {
	args := m.Called(ctx, hostId, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEarningStore) ReleaseAllPendingOnline(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockSettlementClient struct {
	mock.Mock
}

func (m *mockSettlementClient) Settle(ctx context.Context, payoutRef string, request *domain.PayoutRequest) error {
	args := m.Called(ctx, payoutRef, request)
	return args.Error(0)
}

type mockVerificationCache struct {
	mock.Mock
}

func (m *mockVerificationCache) PostCacheData(ctx context.Context, key string, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *mockVerificationCache) GetCachedValue(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockVerificationCache) DelCachedValue(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
