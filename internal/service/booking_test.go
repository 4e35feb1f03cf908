package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wotro-backend/internal/cache"
	"wotro-backend/internal/domain"
	"wotro-backend/internal/queue"
	"wotro-backend/internal/repository"
	"wotro-backend/internal/service"
)

type bookingFixture struct {
	bookings  *MockBookingRepo
	vehicles  *MockVehicleRepo
	users     *MockUserRepo
	reviews   *MockReviewRepo
	earnings  *MockEarningsService
	publisher *MockEventPublisher
	limiter   *MockRateLimiter
	svc       service.BookingService
}

func newBookingFixture(opts service.BookingOptions) *bookingFixture {
	f := &bookingFixture{
		bookings:  new(MockBookingRepo),
		vehicles:  new(MockVehicleRepo),
		users:     new(MockUserRepo),
		reviews:   new(MockReviewRepo),
		earnings:  new(MockEarningsService),
		publisher: new(MockEventPublisher),
		limiter:   new(MockRateLimiter),
	}
	f.svc = service.NewBookingService(f.bookings, f.vehicles, f.users, f.reviews, f.earnings, f.publisher, f.limiter, opts)
	return f
}

func testVehicle() *domain.Vehicle {
	return &domain.Vehicle{
		ID:          "car-1",
		OwnerID:     "host-1",
		Name:        "Toyota Prado",
		Image:       "https://cdn.example/prado.jpg",
		Price:       20000,
		IsAvailable: true,
	}
}

func TestBookingService_RequestBooking(t *testing.T) {
	ctx := context.Background()
	tenant := &domain.Session{UID: "tenant-1", DisplayName: "Awa", Role: domain.UserRoleClient}
	allowed := cache.Decision{Allowed: true, Remaining: 9}

	t.Run("Success", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		f.limiter.On("Allow", ctx, "tenant-1").Return(allowed, nil)
		f.vehicles.On("GetByID", ctx, "car-1").Return(testVehicle(), nil)
		f.bookings.On("ListConfirmedRanges", ctx, "car-1").Return([]domain.BookedRange{
			{BookingID: "b-0", StartDate: "2025-06-01", EndDate: "2025-06-05"},
		}, nil)
		f.users.On("GetByID", ctx, "tenant-1").Return(&domain.User{UID: "tenant-1", FullName: "Awa Koné"}, nil)
		f.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.publisher.On("Publish", ctx, queue.RoutingBookingRequested, mock.AnythingOfType("queue.BookingEvent")).Return(nil)

		b, err := f.svc.RequestBooking(ctx, tenant, "car-1", "2025-07-01", "2025-07-04")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusPending, b.Status)
		assert.Equal(t, int64(60000), b.TotalPrice)
		assert.Equal(t, "host-1", b.OwnerID)
		assert.Equal(t, "tenant-1", b.TenantID)
		assert.Equal(t, "Awa Koné", b.TenantName)
		assert.Equal(t, "Toyota Prado", b.VehicleName)
		assert.NotEmpty(t, b.CreatedAt)
		f.publisher.AssertExpectations(t)
	})

	t.Run("Overlap With Confirmed Booking", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		f.limiter.On("Allow", ctx, "tenant-1").Return(allowed, nil)
		f.vehicles.On("GetByID", ctx, "car-1").Return(testVehicle(), nil)
		f.bookings.On("ListConfirmedRanges", ctx, "car-1").Return([]domain.BookedRange{
			{BookingID: "b-0", StartDate: "2025-07-03", EndDate: "2025-07-06"},
		}, nil)

		b, err := f.svc.RequestBooking(ctx, tenant, "car-1", "2025-07-01", "2025-07-04")
		assert.Nil(t, b)
		assert.ErrorIs(t, err, service.ErrDatesUnavailable)
		f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Touching Boundary Is An Overlap", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		f.limiter.On("Allow", ctx, "tenant-1").Return(allowed, nil)
		f.vehicles.On("GetByID", ctx, "car-1").Return(testVehicle(), nil)
		f.bookings.On("ListConfirmedRanges", ctx, "car-1").Return([]domain.BookedRange{
			{BookingID: "b-0", StartDate: "2025-07-04", EndDate: "2025-07-06"},
		}, nil)

		_, err := f.svc.RequestBooking(ctx, tenant, "car-1", "2025-07-01", "2025-07-04")
		assert.ErrorIs(t, err, service.ErrDatesUnavailable)
	})

	t.Run("Same Day Turnover Allowed When Enabled", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{AllowSameDayTurnover: true})
		f.limiter.On("Allow", ctx, "tenant-1").Return(allowed, nil)
		f.vehicles.On("GetByID", ctx, "car-1").Return(testVehicle(), nil)
		f.bookings.On("ListConfirmedRanges", ctx, "car-1").Return([]domain.BookedRange{
			{BookingID: "b-0", StartDate: "2025-07-04", EndDate: "2025-07-06"},
		}, nil)
		f.users.On("GetByID", ctx, "tenant-1").Return(nil, repository.ErrNotFound)
		f.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.publisher.On("Publish", ctx, queue.RoutingBookingRequested, mock.Anything).Return(nil)

		b, err := f.svc.RequestBooking(ctx, tenant, "car-1", "2025-07-01", "2025-07-04")
		require.NoError(t, err)
		assert.Equal(t, "Awa", b.TenantName)
	})

	t.Run("Invalid Range", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		f.limiter.On("Allow", ctx, "tenant-1").Return(allowed, nil)
		f.vehicles.On("GetByID", ctx, "car-1").Return(testVehicle(), nil)
		f.bookings.On("ListConfirmedRanges", ctx, "car-1").Return([]domain.BookedRange{}, nil)

		_, err := f.svc.RequestBooking(ctx, tenant, "car-1", "2025-07-04", "2025-07-01")
		assert.ErrorIs(t, err, service.ErrInvalidRange)

		_, err = f.svc.RequestBooking(ctx, tenant, "car-1", "2025-07-04", "2025-07-04")
		assert.ErrorIs(t, err, service.ErrInvalidRange)
		f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Own Vehicle", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		host := &domain.Session{UID: "host-1", Role: domain.UserRoleHost}
		f.limiter.On("Allow", ctx, "host-1").Return(allowed, nil)
		f.vehicles.On("GetByID", ctx, "car-1").Return(testVehicle(), nil)

		_, err := f.svc.RequestBooking(ctx, host, "car-1", "2025-07-01", "2025-07-04")
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("Vehicle Not Found", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		f.limiter.On("Allow", ctx, "tenant-1").Return(allowed, nil)
		f.vehicles.On("GetByID", ctx, "missing").Return(nil, repository.ErrNotFound)

		_, err := f.svc.RequestBooking(ctx, tenant, "missing", "2025-07-01", "2025-07-04")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("Write Failure", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		f.limiter.On("Allow", ctx, "tenant-1").Return(allowed, nil)
		f.vehicles.On("GetByID", ctx, "car-1").Return(testVehicle(), nil)
		f.bookings.On("ListConfirmedRanges", ctx, "car-1").Return([]domain.BookedRange{}, nil)
		f.users.On("GetByID", ctx, "tenant-1").Return(&domain.User{FullName: "Awa"}, nil)
		f.bookings.On("Create", ctx, mock.Anything).Return(errors.New("deadline exceeded"))

		_, err := f.svc.RequestBooking(ctx, tenant, "car-1", "2025-07-01", "2025-07-04")
		assert.ErrorIs(t, err, service.ErrWriteFailed)
		assert.Contains(t, err.Error(), "deadline exceeded")
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Rate Limited", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		f.limiter.On("Allow", ctx, "tenant-1").Return(cache.Decision{Allowed: false, RetryAfter: 90 * time.Second}, nil)

		_, err := f.svc.RequestBooking(ctx, tenant, "car-1", "2025-07-01", "2025-07-04")
		assert.ErrorIs(t, err, service.ErrRateLimited)
		var limited *service.RateLimitError
		require.ErrorAs(t, err, &limited)
		assert.Equal(t, 90*time.Second, limited.RetryAfter)
		assert.Equal(t, int64(90), limited.RetryAfterSeconds())
		f.vehicles.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Non Canonical Dates Rejected", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		f.limiter.On("Allow", ctx, "tenant-1").Return(allowed, nil)

		for _, r := range [][2]string{
			{"+2025-7-1", " 2025-07-04"},
			{"2025-7-1", "2025-07-04"},
			{"2025-07-01", "02025-07-04"},
			{"2025-07-01 ", "2025-07-04"},
		} {
			b, err := f.svc.RequestBooking(ctx, tenant, "car-1", r[0], r[1])
			assert.Nil(t, b)
			assert.ErrorIs(t, err, service.ErrInvalidRange, "range %q", r)
		}
		f.vehicles.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Stored Dates Are Wire Form", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		f.limiter.On("Allow", ctx, "tenant-1").Return(allowed, nil)
		f.vehicles.On("GetByID", ctx, "car-1").Return(testVehicle(), nil)
		f.bookings.On("ListConfirmedRanges", ctx, "car-1").Return([]domain.BookedRange{}, nil)
		f.users.On("GetByID", ctx, "tenant-1").Return(&domain.User{FullName: "Awa"}, nil)
		f.bookings.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.StartDate == "2025-07-01" && b.EndDate == "2025-07-04"
		})).Return(nil)
		f.publisher.On("Publish", ctx, queue.RoutingBookingRequested, mock.Anything).Return(nil)

		b, err := f.svc.RequestBooking(ctx, tenant, "car-1", "2025-07-01", "2025-07-04")
		require.NoError(t, err)
		assert.Equal(t, "2025-07-01", b.StartDate)
		assert.Equal(t, "2025-07-04", b.EndDate)
		f.bookings.AssertExpectations(t)
	})
}

func TestBookingService_Quote(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(service.BookingOptions{})
	v := testVehicle()
	v.Price = 45000
	f.vehicles.On("GetByID", ctx, "car-1").Return(v, nil)
	f.bookings.On("ListConfirmedRanges", ctx, "car-1").Return([]domain.BookedRange{
		{BookingID: "b-0", StartDate: "2025-08-01", EndDate: "2025-08-03"},
	}, nil)

	t.Run("Available", func(t *testing.T) {
		q, err := f.svc.Quote(ctx, "car-1", "2025-07-01", "2025-07-04")
		require.NoError(t, err)
		assert.True(t, q.Available)
		assert.Equal(t, int64(3), q.Days)
		assert.Equal(t, int64(135000), q.TotalPrice)
	})

	t.Run("Unavailable Still Priced", func(t *testing.T) {
		q, err := f.svc.Quote(ctx, "car-1", "2025-08-02", "2025-08-05")
		require.NoError(t, err)
		assert.False(t, q.Available)
		assert.NotEmpty(t, q.Reason)
		assert.Equal(t, int64(135000), q.TotalPrice)
	})

	t.Run("Invalid Range", func(t *testing.T) {
		_, err := f.svc.Quote(ctx, "car-1", "2025-07-04", "2025-07-01")
		assert.ErrorIs(t, err, service.ErrInvalidRange)
	})

	t.Run("Non Canonical Dates Rejected", func(t *testing.T) {
		_, err := f.svc.Quote(ctx, "car-1", "+2025-7-1", " 2025-07-04")
		assert.ErrorIs(t, err, service.ErrInvalidRange)
	})
}

func pendingBooking(id, start, end string) domain.Booking {
	return domain.Booking{
		ID:         id,
		VehicleID:  "car-1",
		OwnerID:    "host-1",
		TenantID:   "tenant-" + id,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: 60000,
		Status:     domain.BookingStatusPending,
	}
}

func TestBookingService_DecideBooking(t *testing.T) {
	ctx := context.Background()
	host := &domain.Session{UID: "host-1", Role: domain.UserRoleHost}

	t.Run("Confirm Rejects Overlapping Pending Requests", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		target := pendingBooking("b1", "2025-07-01", "2025-07-04")
		f.bookings.PendingForConfirm = []domain.Booking{
			pendingBooking("b2", "2025-07-03", "2025-07-06"),
			pendingBooking("b3", "2025-07-10", "2025-07-12"),
		}
		f.bookings.On("GetByID", ctx, "b1").Return(&target, nil)
		f.bookings.On("Confirm", ctx, "b1").Return(&target, nil)
		f.earnings.On("CreditBooking", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.publisher.On("Publish", ctx, queue.RoutingBookingConfirmed, mock.Anything).Return(nil).Once()
		f.publisher.On("Publish", ctx, queue.RoutingBookingRejected, mock.Anything).Return(nil).Once()

		b, err := f.svc.DecideBooking(ctx, host, "b1", domain.BookingStatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
		f.earnings.AssertNumberOfCalls(t, "CreditBooking", 1)
		f.publisher.AssertExpectations(t)
	})

	t.Run("Confirm Refused When Dates Were Taken", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		target := pendingBooking("b1", "2025-07-01", "2025-07-04")
		f.bookings.ConfirmedRanges = []domain.BookedRange{{BookingID: "b9", StartDate: "2025-07-02", EndDate: "2025-07-03"}}
		f.bookings.On("GetByID", ctx, "b1").Return(&target, nil)
		f.bookings.On("Confirm", ctx, "b1").Return(&target, nil)

		_, err := f.svc.DecideBooking(ctx, host, "b1", domain.BookingStatusConfirmed)
		assert.ErrorIs(t, err, service.ErrDatesUnavailable)
		f.earnings.AssertNotCalled(t, "CreditBooking", mock.Anything, mock.Anything)
	})

	t.Run("Earnings Failure Does Not Undo Confirmation", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		target := pendingBooking("b1", "2025-07-01", "2025-07-04")
		f.bookings.On("GetByID", ctx, "b1").Return(&target, nil)
		f.bookings.On("Confirm", ctx, "b1").Return(&target, nil)
		f.earnings.On("CreditBooking", ctx, mock.Anything).Return(errors.New("ledger down"))
		f.publisher.On("Publish", ctx, queue.RoutingBookingConfirmed, mock.Anything).Return(nil)

		b, err := f.svc.DecideBooking(ctx, host, "b1", domain.BookingStatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
	})

	t.Run("Reject", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		target := pendingBooking("b1", "2025-07-01", "2025-07-04")
		rejected := target
		rejected.Status = domain.BookingStatusRejected
		f.bookings.On("GetByID", ctx, "b1").Return(&target, nil)
		f.bookings.On("Reject", ctx, "b1").Return(&rejected, nil)
		f.publisher.On("Publish", ctx, queue.RoutingBookingRejected, mock.Anything).Return(nil)

		b, err := f.svc.DecideBooking(ctx, host, "b1", domain.BookingStatusRejected)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusRejected, b.Status)
	})

	t.Run("Not The Owner", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		target := pendingBooking("b1", "2025-07-01", "2025-07-04")
		f.bookings.On("GetByID", ctx, "b1").Return(&target, nil)

		other := &domain.Session{UID: "host-2", Role: domain.UserRoleHost}
		_, err := f.svc.DecideBooking(ctx, other, "b1", domain.BookingStatusConfirmed)
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("Terminal Status", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		target := pendingBooking("b1", "2025-07-01", "2025-07-04")
		target.Status = domain.BookingStatusRejected
		f.bookings.On("GetByID", ctx, "b1").Return(&target, nil)

		_, err := f.svc.DecideBooking(ctx, host, "b1", domain.BookingStatusConfirmed)
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("Invalid Decision", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		_, err := f.svc.DecideBooking(ctx, host, "b1", domain.BookingStatusPending)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestBookingService_SubmitReview(t *testing.T) {
	ctx := context.Background()
	tenant := &domain.Session{UID: "tenant-b1", Role: domain.UserRoleClient}

	confirmed := pendingBooking("b1", "2025-07-01", "2025-07-04")
	confirmed.Status = domain.BookingStatusConfirmed
	confirmed.TenantName = "Awa"

	t.Run("Success", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		b := confirmed
		f.bookings.On("GetByID", ctx, "b1").Return(&b, nil)
		f.reviews.On("Submit", ctx, mock.MatchedBy(func(r *domain.Review) bool {
			return r.CarID == "car-1" && r.BookingID == "b1" && r.Rating == 4
		})).Return(nil)

		r, err := f.svc.SubmitReview(ctx, tenant, "b1", 4, "  Très bien  ")
		require.NoError(t, err)
		assert.Equal(t, "Très bien", r.Comment)
		assert.Equal(t, "Awa", r.TenantName)
	})

	t.Run("Rating Out Of Range", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		_, err := f.svc.SubmitReview(ctx, tenant, "b1", 6, "")
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("Already Reviewed", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		b := confirmed
		b.HasReviewed = true
		f.bookings.On("GetByID", ctx, "b1").Return(&b, nil)

		_, err := f.svc.SubmitReview(ctx, tenant, "b1", 5, "")
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("Pending Booking", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		b := pendingBooking("b1", "2025-07-01", "2025-07-04")
		f.bookings.On("GetByID", ctx, "b1").Return(&b, nil)

		_, err := f.svc.SubmitReview(ctx, tenant, "b1", 5, "")
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("Not The Tenant", func(t *testing.T) {
		f := newBookingFixture(service.BookingOptions{})
		b := confirmed
		f.bookings.On("GetByID", ctx, "b1").Return(&b, nil)

		_, err := f.svc.SubmitReview(ctx, &domain.Session{UID: "someone"}, "b1", 5, "")
		assert.ErrorIs(t, err, service.ErrForbidden)
	})
}

func TestBookingService_GetBooking(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(service.BookingOptions{})
	b := pendingBooking("b1", "2025-07-01", "2025-07-04")
	f.bookings.On("GetByID", ctx, "b1").Return(&b, nil)

	_, err := f.svc.GetBooking(ctx, &domain.Session{UID: "host-1"}, "b1")
	assert.NoError(t, err)
	_, err = f.svc.GetBooking(ctx, &domain.Session{UID: "tenant-b1"}, "b1")
	assert.NoError(t, err)
	_, err = f.svc.GetBooking(ctx, &domain.Session{UID: "admin", Role: domain.UserRoleAdmin}, "b1")
	assert.NoError(t, err)
	_, err = f.svc.GetBooking(ctx, &domain.Session{UID: "stranger"}, "b1")
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestBookingService_ExpireStalePending(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(service.BookingOptions{})

	stale := pendingBooking("old", "2025-07-01", "2025-07-03")
	raced := pendingBooking("raced", "2025-07-02", "2025-07-05")
	future := pendingBooking("future", "2025-07-20", "2025-07-22")
	f.bookings.On("ListByStatus", ctx, domain.BookingStatusPending).Return([]domain.Booking{stale, raced, future}, nil)

	rejected := stale
	rejected.Status = domain.BookingStatusRejected
	f.bookings.On("Reject", ctx, "old").Return(&rejected, nil)
	f.bookings.On("Reject", ctx, "raced").Return(nil, repository.ErrStatusChanged)
	f.publisher.On("Publish", ctx, queue.RoutingBookingRejected, mock.Anything).Return(nil)

	n, err := f.svc.ExpireStalePending(ctx, "2025-07-10")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	f.bookings.AssertNotCalled(t, "Reject", ctx, "future")

	_, err = f.svc.ExpireStalePending(ctx, "not-a-date")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}
