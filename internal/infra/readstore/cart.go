package readstore

import (
	"context"

	"storefront-api/internal/infra"
	"storefront-api/internal/infra/db"
	"storefront-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CartReadStore struct {
	dbtx db.DBTX
}

func NewCartReadStore(dbtx db.DBTX) *CartReadStore {
	return &CartReadStore{dbtx: dbtx}
}

// FindActiveByOwner assembles the cart view with per-line and cart totals.
// The unit price falls back to the live product price only when no
// snapshot was captured at add-time.
func (r *CartReadStore) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) (*queries.CartView, error) {
	var (
		cartID uuid.UUID
		status string
	)
	err := r.dbtx.QueryRow(ctx,
		`SELECT id, status FROM carts WHERE owner_id = $1 AND status = 'active'`,
		ownerID,
	).Scan(&cartID, &status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return &queries.CartView{OwnerID: ownerID, Status: "active", Items: []queries.CartItemView{}}, nil
		}
		return nil, infra.WrapRepoErr("failed to find active cart", err)
	}

	rows, err := r.dbtx.Query(ctx,
		`SELECT ci.id, ci.product_id, p.name, ci.quantity,
		        COALESCE(ci.unit_price_snapshot, p.price_cents) AS unit_price
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.cart_id = $1
		 ORDER BY ci.created_at`,
		cartID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list cart items", err)
	}
	defer rows.Close()

	view := &queries.CartView{
		ID:      cartID,
		OwnerID: ownerID,
		Status:  status,
		Items:   []queries.CartItemView{},
	}

	for rows.Next() {
		var item queries.CartItemView
		if err := rows.Scan(&item.ID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan cart item view", err)
		}
		item.LineTotalCents = int64(item.Quantity) * item.UnitPriceCents
		view.SubtotalCents += item.LineTotalCents
		view.Items = append(view.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate cart item views", err)
	}

	return view, nil
}
