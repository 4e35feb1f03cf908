package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"wotro-backend/internal/logger"
	"wotro-backend/internal/repository"

	_ "github.com/lib/pq"
)

// Store groups the Postgres-backed repositories. Only the host earnings
// ledger lives in Postgres; marketplace documents live in Firestore.
type Store struct {
	db *sql.DB
	repository.LedgerRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:               db,
		LedgerRepository: NewLedgerRepository(db),
	}
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS host_earnings (
	id          BIGSERIAL PRIMARY KEY,
	host_id     TEXT NOT NULL,
	amount      BIGINT NOT NULL,
	type        TEXT NOT NULL,
	booking_id  TEXT UNIQUE,
	description TEXT,
	created_on  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS host_earnings_host_idx ON host_earnings (host_id, created_on DESC);
`

// EnsureSchema creates the ledger table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	logger.StoreCall("postgres", "ensure_schema", "host_earnings")
	_, err := s.db.ExecContext(ctx, schema)
	logger.StoreResult("postgres", "ensure_schema", 0, err)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
