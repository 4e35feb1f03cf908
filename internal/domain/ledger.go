package domain

import "time"

type TransactionType string

const (
	TransactionTypeRentalEarning TransactionType = "RENTAL_EARNING"
	TransactionTypeAdjustment    TransactionType = "ADJUSTMENT"
)

// LedgerTransaction is one line of a host's earnings history. Amounts are in
// FCFA, positive for credits.
type LedgerTransaction struct {
	ID          int64           `json:"id"`
	HostID      string          `json:"host_id"`
	Amount      int64           `json:"amount"`
	Type        TransactionType `json:"type"`
	BookingID   string          `json:"booking_id,omitempty"`
	Description string          `json:"description"`
	CreatedOn   time.Time       `json:"created_on"`
}

type EarningsSummary struct {
	Balance          int64 `json:"balance"`
	TransactionCount int32 `json:"transaction_count"`
}
