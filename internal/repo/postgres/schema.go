package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	constraintUnlockPair       = "contact_requests_requester_target_key"
	constraintPaymentReference = "payments_reference_key"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS payments (
	id BIGSERIAL PRIMARY KEY,
	payer_id TEXT NOT NULL,
	reference TEXT NOT NULL,
	purpose TEXT NOT NULL,
	amount_cents BIGINT NOT NULL CHECK (amount_cents > 0),
	currency TEXT NOT NULL,
	target_sequence_id BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT payments_reference_key UNIQUE (reference)
)`,
	`CREATE INDEX IF NOT EXISTS payments_payer_idx ON payments (payer_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS contact_requests (
	id UUID PRIMARY KEY,
	requester_id TEXT NOT NULL,
	target_sequence_id BIGINT NOT NULL CHECK (target_sequence_id > 0),
	target_name TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL CHECK (status IN ('pending', 'approved')),
	payment_reference TEXT NOT NULL,
	amount_cents BIGINT NOT NULL,
	currency TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	approved_at TIMESTAMPTZ,
	CONSTRAINT contact_requests_requester_target_key UNIQUE (requester_id, target_sequence_id)
)`,
	`CREATE INDEX IF NOT EXISTS contact_requests_status_idx ON contact_requests (status, created_at)`,
}

// EnsureSchema creates the ledger tables when they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure ledger schema: %w", err)
		}
	}
	return nil
}
