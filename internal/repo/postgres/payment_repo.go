package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
)

const paymentColumns = `id, payer_id, reference, purpose, amount_cents, currency, target_sequence_id, created_at`

type PaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

func (r *PaymentRepo) ListByPayer(ctx context.Context, payerID string) ([]model.Payment, error) {
	return r.list(ctx, `
SELECT `+paymentColumns+`
FROM payments
WHERE payer_id = $1
ORDER BY created_at DESC`, payerID)
}

func (r *PaymentRepo) ListAll(ctx context.Context) ([]model.Payment, error) {
	return r.list(ctx, `
SELECT `+paymentColumns+`
FROM payments
ORDER BY created_at DESC`)
}

func (r *PaymentRepo) Revenue(ctx context.Context) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount_cents), 0)::BIGINT FROM payments`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum payments: %w", err)
	}
	return total, nil
}

func (r *PaymentRepo) list(ctx context.Context, query string, args ...any) ([]model.Payment, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	items := make([]model.Payment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		items = append(items, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}

	return items, nil
}

func insertPayment(ctx context.Context, tx pgx.Tx, payment model.Payment) (model.Payment, error) {
	reference := strings.TrimSpace(payment.Reference)
	if reference == "" || payment.AmountCents <= 0 {
		return model.Payment{}, fmt.Errorf("invalid payment payload")
	}

	record, err := scanPayment(tx.QueryRow(ctx, `
INSERT INTO payments (
	payer_id,
	reference,
	purpose,
	amount_cents,
	currency,
	target_sequence_id,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+paymentColumns,
		payment.PayerID,
		reference,
		string(payment.Purpose),
		payment.AmountCents,
		strings.ToLower(payment.Currency),
		payment.TargetSequenceID,
		payment.CreatedAt,
	))
	if err != nil {
		if constraint, ok := isUniqueViolation(err); ok && constraint == constraintPaymentReference {
			return model.Payment{}, apperr.ErrPaymentReferenceUsed
		}
		return model.Payment{}, fmt.Errorf("insert payment: %w", err)
	}
	return record, nil
}

func scanPayment(row pgx.Row) (model.Payment, error) {
	var (
		payment model.Payment
		purpose string
	)
	err := row.Scan(
		&payment.ID,
		&payment.PayerID,
		&payment.Reference,
		&purpose,
		&payment.AmountCents,
		&payment.Currency,
		&payment.TargetSequenceID,
		&payment.CreatedAt,
	)
	if err != nil {
		return model.Payment{}, err
	}
	payment.Purpose = enums.PaymentPurpose(purpose)
	return payment, nil
}
