package service

import (
	"context"
	"fmt"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/repository"
)

type earningsService struct {
	bookingRepo repository.BookingRepository
	ledgerRepo  repository.LedgerRepository
}

func NewEarningsService(bookingRepo repository.BookingRepository, ledgerRepo repository.LedgerRepository) EarningsService {
	return &earningsService{bookingRepo: bookingRepo, ledgerRepo: ledgerRepo}
}

// HostDashboard is computed from the booking documents, so it is correct
// even when the ledger is disabled.
func (s *earningsService) HostDashboard(ctx context.Context, sess *domain.Session) (*domain.HostDashboard, error) {
	bookings, err := s.bookingRepo.ListByOwner(ctx, sess.UID)
	if err != nil {
		return nil, err
	}
	return summarizeHostBookings(bookings), nil
}

func summarizeHostBookings(bookings []domain.Booking) *domain.HostDashboard {
	d := &domain.HostDashboard{}
	for _, b := range bookings {
		switch b.Status {
		case domain.BookingStatusConfirmed:
			d.TotalEarnings += b.TotalPrice
			d.ActiveRentals++
		case domain.BookingStatusPending:
			d.PendingRequests++
		}
	}
	return d
}

func (s *earningsService) EarningsHistory(ctx context.Context, sess *domain.Session, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.ledgerRepo.ListTransactions(ctx, sess.UID, page, pageSize)
}

func (s *earningsService) EarningsSummary(ctx context.Context, sess *domain.Session) (*domain.EarningsSummary, error) {
	return s.ledgerRepo.GetSummary(ctx, sess.UID)
}

func (s *earningsService) CreditBooking(ctx context.Context, b *domain.Booking) error {
	if b.Status != domain.BookingStatusConfirmed {
		return invalidf("booking %s is not confirmed", b.ID)
	}
	exists, err := s.ledgerRepo.ExistsForBooking(ctx, b.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	tx := &domain.LedgerTransaction{
		HostID:      b.OwnerID,
		Amount:      b.TotalPrice,
		Type:        domain.TransactionTypeRentalEarning,
		BookingID:   b.ID,
		Description: fmt.Sprintf("Location %s du %s au %s", b.VehicleName, b.StartDate, b.EndDate),
	}
	if err := s.ledgerRepo.CreateTransaction(ctx, tx); err != nil {
		return err
	}
	logger.Info("Host earning recorded", "host_id", b.OwnerID, "booking_id", b.ID, "amount", b.TotalPrice)
	return nil
}

// ReconcileLedger credits every Confirmed booking that has no ledger entry.
func (s *earningsService) ReconcileLedger(ctx context.Context) (int, error) {
	confirmed, err := s.bookingRepo.ListByStatus(ctx, domain.BookingStatusConfirmed)
	if err != nil {
		return 0, err
	}
	credited := 0
	for i := range confirmed {
		exists, err := s.ledgerRepo.ExistsForBooking(ctx, confirmed[i].ID)
		if err != nil {
			return credited, err
		}
		if exists {
			continue
		}
		if err := s.CreditBooking(ctx, &confirmed[i]); err != nil {
			return credited, err
		}
		credited++
	}
	return credited, nil
}
