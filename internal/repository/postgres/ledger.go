package postgres

import (
	"context"
	"database/sql"
	"time"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/repository"
)

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) CreateTransaction(ctx context.Context, tx *domain.LedgerTransaction) error {
	query := `INSERT INTO host_earnings (host_id, amount, type, booking_id, description, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if tx.CreatedOn.IsZero() {
		tx.CreatedOn = time.Now().UTC()
	}
	logger.StoreCall("postgres", "create_transaction", "host_earnings", "host_id", tx.HostID)
	err := r.db.QueryRowContext(ctx, query, tx.HostID, tx.Amount, tx.Type, nullString(tx.BookingID), tx.Description, tx.CreatedOn).Scan(&tx.ID)
	logger.StoreResult("postgres", "create_transaction", 1, err)
	return err
}

func (r *ledgerRepository) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM host_earnings WHERE booking_id = $1)`
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(&exists)
	return exists, err
}

func (r *ledgerRepository) GetBalance(ctx context.Context, hostID string) (int64, error) {
	var balance int64
	query := `SELECT COALESCE(SUM(amount), 0) FROM host_earnings WHERE host_id = $1`
	err := r.db.QueryRowContext(ctx, query, hostID).Scan(&balance)
	return balance, err
}

func (r *ledgerRepository) ListTransactions(ctx context.Context, hostID string, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, host_id, amount, type, COALESCE(booking_id, ''), COALESCE(description, ''), created_on
	          FROM host_earnings WHERE host_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, hostID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.LedgerTransaction
	for rows.Next() {
		var tx domain.LedgerTransaction
		if err := rows.Scan(&tx.ID, &tx.HostID, &tx.Amount, &tx.Type, &tx.BookingID, &tx.Description, &tx.CreatedOn); err != nil {
			return nil, 0, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	countQuery := `SELECT count(*) FROM host_earnings WHERE host_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, hostID).Scan(&count); err != nil {
		return nil, 0, err
	}
	return txs, count, nil
}

func (r *ledgerRepository) GetSummary(ctx context.Context, hostID string) (*domain.EarningsSummary, error) {
	summary := &domain.EarningsSummary{}
	query := `SELECT COALESCE(SUM(amount), 0), count(*) FROM host_earnings WHERE host_id = $1`
	err := r.db.QueryRowContext(ctx, query, hostID).Scan(&summary.Balance, &summary.TransactionCount)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
