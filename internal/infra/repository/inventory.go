package repository

import (
	"context"
	"log/slog"

	"storefront-api/internal/domain/inventory"
	"storefront-api/internal/infra"
	"storefront-api/internal/infra/db"
	"storefront-api/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InventoryRepository is the ledger over the per-product (stock, reserved)
// pair. Every mutation re-reads the row under FOR UPDATE inside the
// caller's transaction, so two concurrent reservations can never both pass
// the availability check for the same scarce unit.
type InventoryRepository struct {
	dbtx db.DBTX
}

func NewInventoryRepository(dbtx db.DBTX) *InventoryRepository {
	return &InventoryRepository{dbtx: dbtx}
}

func (r *InventoryRepository) lockRecord(ctx context.Context, productID uuid.UUID) (*inventory.Record, error) {
	var stock, reserved int32
	err := r.dbtx.QueryRow(ctx,
		`SELECT stock, reserved FROM inventory WHERE product_id = $1 FOR UPDATE`,
		productID,
	).Scan(&stock, &reserved)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("inventory record not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock inventory record", err)
	}
	return inventory.ReconstructRecord(productID, stock, reserved), nil
}

func (r *InventoryRepository) store(ctx context.Context, rec *inventory.Record) error {
	_, err := r.dbtx.Exec(ctx,
		`UPDATE inventory SET stock = $2, reserved = $3, updated_at = now() WHERE product_id = $1`,
		rec.ProductID(), rec.Stock(), rec.Reserved(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update inventory record", err)
	}
	return nil
}

func (r *InventoryRepository) Reserve(ctx context.Context, productID uuid.UUID, qty int32) error {
	rec, err := r.lockRecord(ctx, productID)
	if err != nil {
		return err
	}

	if err := rec.Reserve(qty); err != nil {
		return errs.Mark(err, errs.ErrOutOfStock)
	}

	return r.store(ctx, rec)
}

func (r *InventoryRepository) Release(ctx context.Context, productID uuid.UUID, qty int32) error {
	rec, err := r.lockRecord(ctx, productID)
	if err != nil {
		return err
	}

	if err := rec.Release(qty); err != nil {
		// Clamped to zero inside the record; persist the clamp but flag the bug.
		slog.Warn("release would drive reserved negative, clamping",
			"product_id", productID.String(),
			"qty", qty)
	}

	return r.store(ctx, rec)
}

func (r *InventoryRepository) Commit(ctx context.Context, productID uuid.UUID, qty int32) error {
	rec, err := r.lockRecord(ctx, productID)
	if err != nil {
		return err
	}

	if err := rec.Commit(qty); err != nil {
		return errs.Mark(err, errs.ErrOutOfStock)
	}

	return r.store(ctx, rec)
}

func (r *InventoryRepository) Restock(ctx context.Context, productID uuid.UUID, qty int32) error {
	rec, err := r.lockRecord(ctx, productID)
	if err != nil {
		return err
	}

	rec.Restock(qty)

	return r.store(ctx, rec)
}

// Adjust moves on-hand stock by delta (admin restock/correction). Never
// allowed to push availability below the currently reserved amount.
func (r *InventoryRepository) Adjust(ctx context.Context, productID uuid.UUID, delta int32) error {
	rec, err := r.lockRecord(ctx, productID)
	if err != nil {
		return err
	}

	if delta < 0 && rec.Available() < -delta {
		return errs.Mark(inventory.ErrOutOfStock, errs.ErrOutOfStock)
	}
	rec.Restock(delta)

	return r.store(ctx, rec)
}
