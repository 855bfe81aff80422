package repository

import (
	"context"
	"time"

	"storefront-api/internal/domain/payment"
	"storefront-api/internal/infra"
	"storefront-api/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PaymentRepository struct {
	dbtx db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{dbtx: dbtx}
}

// CreateIntent relies on the unique index on idempotency_key: when two
// callers race with the same key, the loser surfaces KindDuplicateKey and
// re-reads the winner's row.
func (r *PaymentRepository) CreateIntent(ctx context.Context, intent *payment.Intent) error {
	_, err := r.dbtx.Exec(ctx,
		`INSERT INTO payment_intents
		   (id, order_id, provider, amount_cents, status, idempotency_key, return_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`,
		intent.ID(), intent.OrderID(), intent.Provider(), intent.AmountCents(),
		intent.Status().String(), intent.IdempotencyKey(), intent.ReturnURL(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create payment intent", err)
	}
	return nil
}

func (r *PaymentRepository) FindIntentByKey(ctx context.Context, idempotencyKey uuid.UUID) (*payment.Intent, error) {
	return r.findIntent(ctx,
		`SELECT id, order_id, provider, amount_cents, status, idempotency_key, return_url, created_at, updated_at
		 FROM payment_intents WHERE idempotency_key = $1`,
		idempotencyKey,
	)
}

// FindIntentByID locks the row; settlement transitions run under it.
func (r *PaymentRepository) FindIntentByID(ctx context.Context, id uuid.UUID) (*payment.Intent, error) {
	return r.findIntent(ctx,
		`SELECT id, order_id, provider, amount_cents, status, idempotency_key, return_url, created_at, updated_at
		 FROM payment_intents WHERE id = $1 FOR UPDATE`,
		id,
	)
}

func (r *PaymentRepository) findIntent(ctx context.Context, query string, arg any) (*payment.Intent, error) {
	var (
		id, orderID, key     uuid.UUID
		provider, status     string
		amountCents          int64
		returnURL            *string
		createdAt, updatedAt time.Time
	)
	err := r.dbtx.QueryRow(ctx, query, arg).Scan(
		&id, &orderID, &provider, &amountCents, &status, &key, &returnURL, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("payment intent not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment intent", err)
	}

	return payment.ReconstructIntent(
		id, orderID, provider, amountCents, payment.IntentStatus(status),
		key, returnURL, createdAt, updatedAt,
	), nil
}

func (r *PaymentRepository) UpdateIntentStatus(ctx context.Context, id uuid.UUID, status payment.IntentStatus) error {
	tag, err := r.dbtx.Exec(ctx,
		`UPDATE payment_intents SET status = $2, updated_at = now() WHERE id = $1`,
		id, status.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment intent status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment intent not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, rec *payment.Record) error {
	_, err := r.dbtx.Exec(ctx,
		`INSERT INTO payments (id, order_id, intent_id, provider, amount_cents, status, transaction_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		rec.ID, rec.OrderID, rec.IntentID, rec.Provider, rec.AmountCents, rec.Status, rec.TransactionID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create payment record", err)
	}
	return nil
}

func (r *PaymentRepository) FindPaymentByTransactionID(ctx context.Context, provider, transactionID string) (*payment.Record, error) {
	var rec payment.Record
	err := r.dbtx.QueryRow(ctx,
		`SELECT id, order_id, intent_id, provider, amount_cents, status, transaction_id, created_at
		 FROM payments WHERE provider = $1 AND transaction_id = $2`,
		provider, transactionID,
	).Scan(&rec.ID, &rec.OrderID, &rec.IntentID, &rec.Provider, &rec.AmountCents, &rec.Status, &rec.TransactionID, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment by transaction id", err)
	}
	return &rec, nil
}
