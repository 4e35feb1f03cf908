package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/queue"
	"wotro-backend/internal/repository"
	"wotro-backend/internal/utils"
)

type BookingOptions struct {
	AllowSameDayTurnover bool
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	vehicleRepo repository.VehicleRepository
	userRepo    repository.UserRepository
	reviewRepo  repository.ReviewRepository
	earnings    EarningsService
	events      EventPublisher
	limiter     RateLimiter
	policy      utils.OverlapPolicy
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
	earnings EarningsService,
	events EventPublisher,
	limiter RateLimiter,
	opts BookingOptions,
) BookingService {
	policy := utils.OverlapInclusive
	if opts.AllowSameDayTurnover {
		policy = utils.OverlapSameDayTurnover
	}
	return &bookingService{
		bookingRepo: bookingRepo,
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
		reviewRepo:  reviewRepo,
		earnings:    earnings,
		events:      events,
		limiter:     limiter,
		policy:      policy,
	}
}

// canonicalRange parses both ends and returns them in wire form.
func canonicalRange(startDate, endDate string) (string, string, error) {
	start, err := utils.ParseDate(startDate)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	return start.String(), end.String(), nil
}

// checkRange runs the conflict checker and maps its verdict to an error.
func (s *bookingService) checkRange(startDate, endDate string, booked []domain.BookedRange) error {
	verdict := utils.CheckAvailabilityWithPolicy(startDate, endDate, booked, s.policy)
	switch verdict.Reason {
	case utils.ReasonInvalidRange:
		return ErrInvalidRange
	case utils.ReasonOverlap:
		return ErrDatesUnavailable
	}
	return nil
}

func (s *bookingService) Quote(ctx context.Context, vehicleID, startDate, endDate string) (*domain.Quote, error) {
	startDate, endDate, err := canonicalRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	v, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, fromRepo(err, "vehicle")
	}
	q := &domain.Quote{VehicleID: vehicleID, StartDate: startDate, EndDate: endDate, DailyPrice: v.Price}

	booked, err := s.bookingRepo.ListConfirmedRanges(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if err := s.checkRange(startDate, endDate, booked); err != nil {
		if errors.Is(err, ErrInvalidRange) {
			return nil, err
		}
		q.Reason = err.Error()
	} else {
		q.Available = v.IsAvailable
		if !v.IsAvailable {
			q.Reason = "vehicle not listed"
		}
	}

	total, err := utils.CalculatePrice(startDate, endDate, v.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	start, _ := utils.ParseDate(startDate)
	end, _ := utils.ParseDate(endDate)
	q.Days = utils.RentalDays(start, end)
	q.TotalPrice = total
	return q, nil
}

func (s *bookingService) RequestBooking(ctx context.Context, sess *domain.Session, vehicleID, startDate, endDate string) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.RequestBooking", "tenant_id", sess.UID, "vehicle_id", vehicleID)

	if s.limiter != nil {
		decision, err := s.limiter.Allow(ctx, sess.UID)
		if err != nil {
			logger.Warn("Rate limiter unavailable", "error", err)
		} else if !decision.Allowed {
			return nil, &RateLimitError{RetryAfter: decision.RetryAfter}
		}
	}

	startDate, endDate, err := canonicalRange(startDate, endDate)
	if err != nil {
		logger.ExitMethodWithError("bookingService.RequestBooking", err)
		return nil, err
	}

	v, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		err = fromRepo(err, "vehicle")
		logger.ExitMethodWithError("bookingService.RequestBooking", err)
		return nil, err
	}
	if v.OwnerID == sess.UID {
		return nil, fmt.Errorf("%w: cannot book your own vehicle", ErrForbidden)
	}
	if !v.IsAvailable {
		return nil, fmt.Errorf("%w: vehicle is not listed", ErrDatesUnavailable)
	}

	booked, err := s.bookingRepo.ListConfirmedRanges(ctx, vehicleID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.RequestBooking", err)
		return nil, err
	}
	if err := s.checkRange(startDate, endDate, booked); err != nil {
		logger.ExitMethodWithError("bookingService.RequestBooking", err)
		return nil, err
	}

	total, err := utils.CalculatePrice(startDate, endDate, v.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	b, err := s.writeReservationRequest(ctx, v, sess, startDate, endDate, total)
	if err != nil {
		logger.ExitMethodWithError("bookingService.RequestBooking", err)
		return nil, err
	}

	s.publish(ctx, queue.RoutingBookingRequested, b)
	logger.ExitMethod("bookingService.RequestBooking", "booking_id", b.ID, "total_price", b.TotalPrice)
	return b, nil
}

// writeReservationRequest persists a Pending booking for an already
// validated range. One write, no retry.
func (s *bookingService) writeReservationRequest(ctx context.Context, v *domain.Vehicle, sess *domain.Session, startDate, endDate string, total int64) (*domain.Booking, error) {
	b := &domain.Booking{
		VehicleID:    v.ID,
		VehicleName:  v.Name,
		VehicleImage: v.Image,
		OwnerID:      v.OwnerID,
		TenantID:     sess.UID,
		TenantName:   s.tenantName(ctx, sess),
		StartDate:    startDate,
		EndDate:      endDate,
		TotalPrice:   total,
		Status:       domain.BookingStatusPending,
		CreatedAt:    domain.Timestamp(time.Now()),
	}
	if err := s.bookingRepo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return b, nil
}

func (s *bookingService) tenantName(ctx context.Context, sess *domain.Session) string {
	if u, err := s.userRepo.GetByID(ctx, sess.UID); err == nil && u.FullName != "" {
		return u.FullName
	}
	if strings.TrimSpace(sess.DisplayName) != "" {
		return sess.DisplayName
	}
	return "Client"
}

func (s *bookingService) DecideBooking(ctx context.Context, sess *domain.Session, bookingID string, decision domain.BookingStatus) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.DecideBooking", "booking_id", bookingID, "decision", decision)

	if decision != domain.BookingStatusConfirmed && decision != domain.BookingStatusRejected {
		return nil, invalidf("decision must be %s or %s", domain.BookingStatusConfirmed, domain.BookingStatusRejected)
	}
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fromRepo(err, "booking")
	}
	if b.OwnerID != sess.UID {
		return nil, fmt.Errorf("%w: only the vehicle owner can decide", ErrForbidden)
	}
	if b.Status != domain.BookingStatusPending {
		return nil, fmt.Errorf("%w: booking is already %s", ErrConflict, b.Status)
	}

	if decision == domain.BookingStatusRejected {
		rejected, err := s.bookingRepo.Reject(ctx, bookingID)
		if err != nil {
			err = fromRepo(err, "booking")
			logger.ExitMethodWithError("bookingService.DecideBooking", err)
			return nil, err
		}
		s.publish(ctx, queue.RoutingBookingRejected, rejected)
		logger.ExitMethod("bookingService.DecideBooking", "status", rejected.Status)
		return rejected, nil
	}

	confirmed, autoRejected, err := s.bookingRepo.Confirm(ctx, bookingID, s.confirmPlan)
	if err != nil {
		err = fromRepo(err, "booking")
		logger.ExitMethodWithError("bookingService.DecideBooking", err)
		return nil, err
	}

	if err := s.earnings.CreditBooking(ctx, confirmed); err != nil {
		// The nightly reconciliation picks up missed credits.
		logger.Error("Failed to credit host earnings", "booking_id", confirmed.ID, "error", err)
	}
	s.publish(ctx, queue.RoutingBookingConfirmed, confirmed)
	for i := range autoRejected {
		s.publish(ctx, queue.RoutingBookingRejected, &autoRejected[i])
	}
	logger.ExitMethod("bookingService.DecideBooking", "status", confirmed.Status, "auto_rejected", len(autoRejected))
	return confirmed, nil
}

// confirmPlan refuses a confirmation that now overlaps a Confirmed range and
// rejects every Pending request of the vehicle that overlaps the winner.
func (s *bookingService) confirmPlan(target *domain.Booking, confirmed []domain.BookedRange, pending []domain.Booking) ([]string, error) {
	if err := s.checkRange(target.StartDate, target.EndDate, confirmed); err != nil {
		return nil, err
	}
	winner := []domain.BookedRange{target.Range()}
	var rejectIDs []string
	for _, p := range pending {
		if s.checkRange(p.StartDate, p.EndDate, winner) != nil {
			rejectIDs = append(rejectIDs, p.ID)
		}
	}
	return rejectIDs, nil
}

func (s *bookingService) GetBooking(ctx context.Context, sess *domain.Session, id string) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "booking")
	}
	if !b.IsParticipant(sess.UID) && !sess.IsAdmin() {
		return nil, fmt.Errorf("%w: not a participant of this booking", ErrForbidden)
	}
	return b, nil
}

func (s *bookingService) ListTenantBookings(ctx context.Context, sess *domain.Session) ([]domain.Booking, error) {
	return s.bookingRepo.ListByTenant(ctx, sess.UID)
}

func (s *bookingService) ListOwnerBookings(ctx context.Context, sess *domain.Session) ([]domain.Booking, error) {
	return s.bookingRepo.ListByOwner(ctx, sess.UID)
}

func (s *bookingService) WatchOwnerBookings(ctx context.Context, sess *domain.Session, listener func(domain.BookingChange)) (repository.Subscription, error) {
	return s.bookingRepo.WatchByOwner(ctx, sess.UID, listener)
}

func (s *bookingService) WatchTenantBookings(ctx context.Context, sess *domain.Session, listener func(domain.BookingChange)) (repository.Subscription, error) {
	return s.bookingRepo.WatchByTenant(ctx, sess.UID, listener)
}

func (s *bookingService) SubmitReview(ctx context.Context, sess *domain.Session, bookingID string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, invalidf("rating must be between 1 and 5")
	}
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fromRepo(err, "booking")
	}
	if b.TenantID != sess.UID {
		return nil, fmt.Errorf("%w: only the tenant can review", ErrForbidden)
	}
	if b.Status != domain.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: only confirmed rentals can be reviewed", ErrConflict)
	}
	if b.HasReviewed {
		return nil, fmt.Errorf("%w: booking already reviewed", ErrConflict)
	}

	review := &domain.Review{
		CarID:      b.VehicleID,
		BookingID:  b.ID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
		TenantName: b.TenantName,
		CreatedAt:  domain.Timestamp(time.Now()),
	}
	if err := s.reviewRepo.Submit(ctx, review); err != nil {
		return nil, fromRepo(err, "review")
	}
	logger.Info("Review submitted", "booking_id", b.ID, "vehicle_id", b.VehicleID, "rating", rating)
	return review, nil
}

func (s *bookingService) ExpireStalePending(ctx context.Context, today string) (int, error) {
	cutoff, err := utils.ParseDate(today)
	if err != nil {
		return 0, invalidf("today: %v", err)
	}
	pending, err := s.bookingRepo.ListByStatus(ctx, domain.BookingStatusPending)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, b := range pending {
		start, err := utils.ParseDate(b.StartDate)
		if err != nil || start.Compare(cutoff) >= 0 {
			continue
		}
		rejected, err := s.bookingRepo.Reject(ctx, b.ID)
		if err != nil {
			if errors.Is(err, repository.ErrStatusChanged) {
				continue
			}
			return expired, err
		}
		expired++
		s.publish(ctx, queue.RoutingBookingRejected, rejected)
	}
	return expired, nil
}

func (s *bookingService) publish(ctx context.Context, routingKey string, b *domain.Booking) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, routingKey, queue.NewBookingEvent(routingKey, *b)); err != nil {
		logger.Error("Failed to publish booking event", "routing_key", routingKey, "booking_id", b.ID, "error", err)
	}
}
