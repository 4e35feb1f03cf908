package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/repository"
	"wotro-backend/internal/service"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) ExchangeIDToken(ctx context.Context, idToken string) (*service.TokenPair, *domain.Session, error) {
	args := m.Called(ctx, idToken)
	pair, _ := args.Get(0).(*service.TokenPair)
	sess, _ := args.Get(1).(*domain.Session)
	return pair, sess, args.Error(2)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	pair, _ := args.Get(0).(*service.TokenPair)
	return pair, args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, session *domain.Session, refreshToken string) error {
	return m.Called(ctx, session, refreshToken).Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, accessToken string) (*domain.Session, error) {
	args := m.Called(ctx, accessToken)
	sess, _ := args.Get(0).(*domain.Session)
	return sess, args.Error(1)
}

type MockBookingService struct{ mock.Mock }

func (m *MockBookingService) Quote(ctx context.Context, vehicleID, startDate, endDate string) (*domain.Quote, error) {
	args := m.Called(ctx, vehicleID, startDate, endDate)
	q, _ := args.Get(0).(*domain.Quote)
	return q, args.Error(1)
}

func (m *MockBookingService) RequestBooking(ctx context.Context, s *domain.Session, vehicleID, startDate, endDate string) (*domain.Booking, error) {
	args := m.Called(ctx, s, vehicleID, startDate, endDate)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *MockBookingService) DecideBooking(ctx context.Context, s *domain.Session, bookingID string, decision domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, s, bookingID, decision)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, s *domain.Session, id string) (*domain.Booking, error) {
	args := m.Called(ctx, s, id)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *MockBookingService) ListTenantBookings(ctx context.Context, s *domain.Session) ([]domain.Booking, error) {
	args := m.Called(ctx, s)
	list, _ := args.Get(0).([]domain.Booking)
	return list, args.Error(1)
}

func (m *MockBookingService) ListOwnerBookings(ctx context.Context, s *domain.Session) ([]domain.Booking, error) {
	args := m.Called(ctx, s)
	list, _ := args.Get(0).([]domain.Booking)
	return list, args.Error(1)
}

func (m *MockBookingService) WatchOwnerBookings(ctx context.Context, s *domain.Session, listener func(domain.BookingChange)) (repository.Subscription, error) {
	args := m.Called(ctx, s, listener)
	sub, _ := args.Get(0).(repository.Subscription)
	return sub, args.Error(1)
}

func (m *MockBookingService) WatchTenantBookings(ctx context.Context, s *domain.Session, listener func(domain.BookingChange)) (repository.Subscription, error) {
	args := m.Called(ctx, s, listener)
	sub, _ := args.Get(0).(repository.Subscription)
	return sub, args.Error(1)
}

func (m *MockBookingService) SubmitReview(ctx context.Context, s *domain.Session, bookingID string, rating int, comment string) (*domain.Review, error) {
	args := m.Called(ctx, s, bookingID, rating, comment)
	r, _ := args.Get(0).(*domain.Review)
	return r, args.Error(1)
}

func (m *MockBookingService) ExpireStalePending(ctx context.Context, today string) (int, error) {
	args := m.Called(ctx, today)
	return args.Int(0), args.Error(1)
}

type MockContractService struct{ mock.Mock }

func (m *MockContractService) GenerateContract(ctx context.Context, s *domain.Session, bookingID string) ([]byte, error) {
	args := m.Called(ctx, s, bookingID)
	page, _ := args.Get(0).([]byte)
	return page, args.Error(1)
}

type MockAdService struct{ mock.Mock }

func (m *MockAdService) CreateAd(ctx context.Context, company, imageURL, link string) (*domain.Ad, error) {
	args := m.Called(ctx, company, imageURL, link)
	ad, _ := args.Get(0).(*domain.Ad)
	return ad, args.Error(1)
}

func (m *MockAdService) ToggleAd(ctx context.Context, id string) (*domain.Ad, error) {
	args := m.Called(ctx, id)
	ad, _ := args.Get(0).(*domain.Ad)
	return ad, args.Error(1)
}

func (m *MockAdService) DeleteAd(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAdService) ListAds(ctx context.Context) ([]domain.Ad, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.Ad)
	return list, args.Error(1)
}

func (m *MockAdService) ActiveAd(ctx context.Context) (*domain.Ad, error) {
	args := m.Called(ctx)
	ad, _ := args.Get(0).(*domain.Ad)
	return ad, args.Error(1)
}

type MockStatsService struct{ mock.Mock }

func (m *MockStatsService) PlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	args := m.Called(ctx)
	st, _ := args.Get(0).(*domain.PlatformStats)
	return st, args.Error(1)
}

type fakeSubscription struct{ stopped bool }

func (s *fakeSubscription) Unsubscribe() { s.stopped = true }
