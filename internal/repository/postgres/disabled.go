package postgres

import (
	"context"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/repository"
)

// disabledLedger stands in when no database is configured: writes are
// dropped and reads report an empty history.
type disabledLedger struct{}

func NewDisabledLedgerRepository() repository.LedgerRepository {
	return disabledLedger{}
}

func (disabledLedger) CreateTransaction(ctx context.Context, tx *domain.LedgerTransaction) error {
	logger.Debug("Ledger disabled, dropping transaction", "host_id", tx.HostID, "booking_id", tx.BookingID)
	return nil
}

func (disabledLedger) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	return true, nil
}

func (disabledLedger) GetBalance(ctx context.Context, hostID string) (int64, error) {
	return 0, nil
}

func (disabledLedger) ListTransactions(ctx context.Context, hostID string, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	return nil, 0, nil
}

func (disabledLedger) GetSummary(ctx context.Context, hostID string) (*domain.EarningsSummary, error) {
	return &domain.EarningsSummary{}, nil
}
