package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
)

const unlockColumns = `id::text, requester_id, target_sequence_id, target_name, status, payment_reference, amount_cents, currency, created_at, approved_at`

type UnlockRepo struct {
	pool *pgxpool.Pool
}

func NewUnlockRepo(pool *pgxpool.Pool) *UnlockRepo {
	return &UnlockRepo{pool: pool}
}

// CreateWithPayment inserts a pending unlock request and its ledger payment
// in one transaction. An existing (requester, target) pair leaves both
// tables untouched.
func (r *UnlockRepo) CreateWithPayment(ctx context.Context, req model.ContactUnlockRequest, payment model.Payment) (model.ContactUnlockRequest, error) {
	if r.pool == nil {
		return model.ContactUnlockRequest{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(req.RequesterID) == "" || req.TargetSequenceID <= 0 {
		return model.ContactUnlockRequest{}, fmt.Errorf("invalid unlock request payload")
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	var created model.ContactUnlockRequest
	err := WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		record, err := scanUnlock(tx.QueryRow(ctx, `
INSERT INTO contact_requests (
	id,
	requester_id,
	target_sequence_id,
	target_name,
	status,
	payment_reference,
	amount_cents,
	currency,
	created_at
) VALUES ($1, $2, $3, $4, 'pending', $5, $6, $7, $8)
ON CONFLICT (requester_id, target_sequence_id) DO NOTHING
RETURNING `+unlockColumns,
			req.ID,
			req.RequesterID,
			req.TargetSequenceID,
			req.TargetName,
			req.PaymentReference,
			req.AmountCents,
			req.Currency,
			req.CreatedAt,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.ErrDuplicateRequest
			}
			return fmt.Errorf("insert contact request: %w", err)
		}

		if _, err := insertPayment(ctx, tx, payment); err != nil {
			return err
		}

		created = record
		return nil
	})
	if err != nil {
		return model.ContactUnlockRequest{}, err
	}

	return created, nil
}

// Approve moves a pending request to approved. Missing and already
// approved requests are both reported as not found.
func (r *UnlockRepo) Approve(ctx context.Context, id string, at time.Time) (model.ContactUnlockRequest, error) {
	if r.pool == nil {
		return model.ContactUnlockRequest{}, fmt.Errorf("postgres pool is nil")
	}
	if _, err := uuid.Parse(id); err != nil {
		return model.ContactUnlockRequest{}, apperr.ErrUnlockRequestNotFound
	}

	record, err := scanUnlock(r.pool.QueryRow(ctx, `
UPDATE contact_requests
SET status = 'approved',
	approved_at = $2
WHERE id = $1
  AND status = 'pending'
RETURNING `+unlockColumns, id, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ContactUnlockRequest{}, apperr.ErrUnlockRequestNotFound
		}
		return model.ContactUnlockRequest{}, fmt.Errorf("approve contact request: %w", err)
	}

	return record, nil
}

func (r *UnlockRepo) HasApproved(ctx context.Context, requesterID string, targetSequenceID int64) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var exists bool
	err := r.pool.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1
	FROM contact_requests
	WHERE requester_id = $1
	  AND target_sequence_id = $2
	  AND status = 'approved'
)`, requesterID, targetSequenceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check approved contact request: %w", err)
	}

	return exists, nil
}

func (r *UnlockRepo) ListByRequester(ctx context.Context, requesterID string) ([]model.ContactUnlockRequest, error) {
	return r.list(ctx, `
SELECT `+unlockColumns+`
FROM contact_requests
WHERE requester_id = $1
ORDER BY created_at DESC`, requesterID)
}

func (r *UnlockRepo) ListAll(ctx context.Context, status enums.UnlockStatus) ([]model.ContactUnlockRequest, error) {
	if status == "" {
		return r.list(ctx, `
SELECT `+unlockColumns+`
FROM contact_requests
ORDER BY created_at DESC`)
	}
	return r.list(ctx, `
SELECT `+unlockColumns+`
FROM contact_requests
WHERE status = $1
ORDER BY created_at DESC`, string(status))
}

func (r *UnlockRepo) DeleteOwned(ctx context.Context, requesterID, id string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperr.ErrUnlockRequestNotFound
	}

	tag, err := r.pool.Exec(ctx, `
DELETE FROM contact_requests
WHERE id = $1
  AND requester_id = $2`, id, requesterID)
	if err != nil {
		return fmt.Errorf("delete contact request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrUnlockRequestNotFound
	}
	return nil
}

func (r *UnlockRepo) Count(ctx context.Context) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contact_requests`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contact requests: %w", err)
	}
	return n, nil
}

func (r *UnlockRepo) list(ctx context.Context, query string, args ...any) ([]model.ContactUnlockRequest, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contact requests: %w", err)
	}
	defer rows.Close()

	items := make([]model.ContactUnlockRequest, 0)
	for rows.Next() {
		record, err := scanUnlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact request: %w", err)
		}
		items = append(items, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact requests: %w", err)
	}

	return items, nil
}

func scanUnlock(row pgx.Row) (model.ContactUnlockRequest, error) {
	var (
		record model.ContactUnlockRequest
		status string
	)
	err := row.Scan(
		&record.ID,
		&record.RequesterID,
		&record.TargetSequenceID,
		&record.TargetName,
		&status,
		&record.PaymentReference,
		&record.AmountCents,
		&record.Currency,
		&record.CreatedAt,
		&record.ApprovedAt,
	)
	if err != nil {
		return model.ContactUnlockRequest{}, err
	}
	record.Status = enums.UnlockStatus(status)
	return record, nil
}
