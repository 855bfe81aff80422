package readstore

import (
	"context"

	"storefront-api/internal/infra"
	"storefront-api/internal/infra/db"
	"storefront-api/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductReadStore exposes the minimal catalog projection the checkout
// pipeline needs. Catalog management lives outside this service.
type ProductReadStore struct {
	dbtx db.DBTX
}

func NewProductReadStore(dbtx db.DBTX) *ProductReadStore {
	return &ProductReadStore{dbtx: dbtx}
}

func (r *ProductReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	var snap shared.ProductSnapshot
	err := r.dbtx.QueryRow(ctx,
		`SELECT id, name, price_cents FROM products WHERE id = $1`,
		id,
	).Scan(&snap.ID, &snap.Name, &snap.PriceCents)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product", err)
	}
	return &snap, nil
}
