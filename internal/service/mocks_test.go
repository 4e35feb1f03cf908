package service_test

import (
	"context"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/mock"

	"wotro-backend/internal/cache"
	"wotro-backend/internal/domain"
	"wotro-backend/internal/repository"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Upsert(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, uid string) (*domain.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) UpdateProfile(ctx context.Context, uid string, update repository.ProfileUpdate) error {
	args := m.Called(ctx, uid, update)
	return args.Error(0)
}
func (m *MockUserRepo) SetDocument(ctx context.Context, uid string, kind domain.DocumentKind, url string) error {
	args := m.Called(ctx, uid, kind, url)
	return args.Error(0)
}
func (m *MockUserRepo) CountByRole(ctx context.Context, roles ...domain.UserRole) (int32, error) {
	args := m.Called(ctx, roles)
	return args.Get(0).(int32), args.Error(1)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}
func (m *MockVehicleRepo) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) ListAvailable(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) SetAvailability(ctx context.Context, id string, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}
func (m *MockVehicleRepo) UpdateExactAddress(ctx context.Context, id, address string) error {
	args := m.Called(ctx, id, address)
	return args.Error(0)
}
func (m *MockVehicleRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockVehicleRepo) Count(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}

// MockBookingRepo runs the confirm plan against ConfirmedRanges and
// PendingForConfirm so the service decision logic is exercised.
type MockBookingRepo struct {
	mock.Mock
	ConfirmedRanges   []domain.BookedRange
	PendingForConfirm []domain.Booking
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListConfirmedRanges(ctx context.Context, vehicleID string) ([]domain.BookedRange, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).([]domain.BookedRange), args.Error(1)
}
func (m *MockBookingRepo) ListByTenant(ctx context.Context, tenantID string) ([]domain.Booking, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListRecent(ctx context.Context, limit int) ([]domain.Booking, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Reject(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Confirm(ctx context.Context, id string, plan repository.ConfirmPlan) (*domain.Booking, []domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(1)
	}
	target := *args.Get(0).(*domain.Booking)
	rejectIDs, err := plan(&target, m.ConfirmedRanges, m.PendingForConfirm)
	if err != nil {
		return nil, nil, err
	}
	target.Status = domain.BookingStatusConfirmed
	var rejected []domain.Booking
	for _, p := range m.PendingForConfirm {
		for _, id := range rejectIDs {
			if p.ID == id {
				p.Status = domain.BookingStatusRejected
				rejected = append(rejected, p)
			}
		}
	}
	return &target, rejected, args.Error(1)
}
func (m *MockBookingRepo) WatchByOwner(ctx context.Context, ownerID string, listener func(domain.BookingChange)) (repository.Subscription, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Subscription), args.Error(1)
}
func (m *MockBookingRepo) WatchByTenant(ctx context.Context, tenantID string, listener func(domain.BookingChange)) (repository.Subscription, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Subscription), args.Error(1)
}

// MockReviewRepo
type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Submit(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}
func (m *MockReviewRepo) ListByVehicle(ctx context.Context, carID string) ([]domain.Review, error) {
	args := m.Called(ctx, carID)
	return args.Get(0).([]domain.Review), args.Error(1)
}

// MockChatRepo
type MockChatRepo struct {
	mock.Mock
}

func (m *MockChatRepo) UpsertThread(ctx context.Context, thread *domain.ChatThread) error {
	args := m.Called(ctx, thread)
	return args.Error(0)
}
func (m *MockChatRepo) GetThread(ctx context.Context, id string) (*domain.ChatThread, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatThread), args.Error(1)
}
func (m *MockChatRepo) ListThreads(ctx context.Context, uid string) ([]domain.ChatThread, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).([]domain.ChatThread), args.Error(1)
}
func (m *MockChatRepo) AddMessage(ctx context.Context, threadID string, msg *domain.Message, preview string) error {
	args := m.Called(ctx, threadID, msg, preview)
	return args.Error(0)
}
func (m *MockChatRepo) ListMessages(ctx context.Context, threadID string) ([]domain.Message, error) {
	args := m.Called(ctx, threadID)
	return args.Get(0).([]domain.Message), args.Error(1)
}
func (m *MockChatRepo) MarkRead(ctx context.Context, threadID, readerID string) (int, error) {
	args := m.Called(ctx, threadID, readerID)
	return args.Int(0), args.Error(1)
}
func (m *MockChatRepo) WatchMessages(ctx context.Context, threadID string, listener func(domain.MessageChange)) (repository.Subscription, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Subscription), args.Error(1)
}

// MockAdRepo
type MockAdRepo struct {
	mock.Mock
}

func (m *MockAdRepo) Create(ctx context.Context, ad *domain.Ad) error {
	args := m.Called(ctx, ad)
	return args.Error(0)
}
func (m *MockAdRepo) GetByID(ctx context.Context, id string) (*domain.Ad, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ad), args.Error(1)
}
func (m *MockAdRepo) List(ctx context.Context) ([]domain.Ad, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Ad), args.Error(1)
}
func (m *MockAdRepo) FirstActive(ctx context.Context) (*domain.Ad, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ad), args.Error(1)
}
func (m *MockAdRepo) SetActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}
func (m *MockAdRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) CreateTransaction(ctx context.Context, tx *domain.LedgerTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockLedgerRepo) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}
func (m *MockLedgerRepo) GetBalance(ctx context.Context, hostID string) (int64, error) {
	args := m.Called(ctx, hostID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockLedgerRepo) ListTransactions(ctx context.Context, hostID string, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	args := m.Called(ctx, hostID, page, pageSize)
	return args.Get(0).([]domain.LedgerTransaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockLedgerRepo) GetSummary(ctx context.Context, hostID string) (*domain.EarningsSummary, error) {
	args := m.Called(ctx, hostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EarningsSummary), args.Error(1)
}

// MockEarningsService
type MockEarningsService struct {
	mock.Mock
}

func (m *MockEarningsService) HostDashboard(ctx context.Context, s *domain.Session) (*domain.HostDashboard, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(*domain.HostDashboard), args.Error(1)
}
func (m *MockEarningsService) EarningsHistory(ctx context.Context, s *domain.Session, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	args := m.Called(ctx, s, page, pageSize)
	return args.Get(0).([]domain.LedgerTransaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockEarningsService) EarningsSummary(ctx context.Context, s *domain.Session) (*domain.EarningsSummary, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(*domain.EarningsSummary), args.Error(1)
}
func (m *MockEarningsService) CreditBooking(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockEarningsService) ReconcileLedger(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

// MockRateLimiter
type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string) (cache.Decision, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(cache.Decision), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingRequested(ctx context.Context, toEmail, toName string, b *domain.Booking) error {
	args := m.Called(ctx, toEmail, toName, b)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingDecision(ctx context.Context, toEmail, toName string, b *domain.Booking) error {
	args := m.Called(ctx, toEmail, toName, b)
	return args.Error(0)
}
func (m *MockEmailService) SendPendingReminder(ctx context.Context, toEmail, toName string, pending int) error {
	args := m.Called(ctx, toEmail, toName, pending)
	return args.Error(0)
}

// MockWhatsAppService
type MockWhatsAppService struct {
	mock.Mock
}

func (m *MockWhatsAppService) SendMessage(ctx context.Context, toPhone, body string) error {
	args := m.Called(ctx, toPhone, body)
	return args.Error(0)
}

// MockVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Token), args.Error(1)
}

// MockRevoker
type MockRevoker struct {
	mock.Mock
}

func (m *MockRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	args := m.Called(ctx, jti, ttl)
	return args.Error(0)
}
func (m *MockRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}
