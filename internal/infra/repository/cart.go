package repository

import (
	"context"
	"time"

	"storefront-api/internal/domain/cart"
	"storefront-api/internal/infra"
	"storefront-api/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CartRepository struct {
	dbtx db.DBTX
}

func NewCartRepository(dbtx db.DBTX) *CartRepository {
	return &CartRepository{dbtx: dbtx}
}

func (r *CartRepository) Create(ctx context.Context, c *cart.Cart) error {
	_, err := r.dbtx.Exec(ctx,
		`INSERT INTO carts (id, owner_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, now(), now())`,
		c.ID(), c.OwnerID(), c.Status().String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create cart", err)
	}
	return nil
}

func (r *CartRepository) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) (*cart.Cart, error) {
	var (
		id                   uuid.UUID
		status               string
		createdAt, updatedAt time.Time
	)
	err := r.dbtx.QueryRow(ctx,
		`SELECT id, status, created_at, updated_at FROM carts
		 WHERE owner_id = $1 AND status = 'active'`,
		ownerID,
	).Scan(&id, &status, &createdAt, &updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("active cart not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find active cart", err)
	}

	return cart.ReconstructCart(id, ownerID, cart.Status(status), createdAt, updatedAt), nil
}

func (r *CartRepository) MarkCheckedOut(ctx context.Context, cartID uuid.UUID) error {
	tag, err := r.dbtx.Exec(ctx,
		`UPDATE carts SET status = 'checked_out', updated_at = now()
		 WHERE id = $1 AND status = 'active'`,
		cartID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark cart checked out", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("active cart not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

func (r *CartRepository) CreateItem(ctx context.Context, item *cart.Item) error {
	_, err := r.dbtx.Exec(ctx,
		`INSERT INTO cart_items (id, cart_id, product_id, quantity, unit_price_snapshot, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now(), now())`,
		item.ID(), item.CartID(), item.ProductID(), item.Quantity().Value(), item.UnitPriceSnapshot(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create cart item", err)
	}
	return nil
}

func (r *CartRepository) FindItemByID(ctx context.Context, itemID uuid.UUID) (*cart.Item, error) {
	row := r.dbtx.QueryRow(ctx,
		`SELECT id, cart_id, product_id, quantity, unit_price_snapshot
		 FROM cart_items WHERE id = $1`,
		itemID,
	)
	return scanCartItem(row, "cart item not found")
}

func (r *CartRepository) FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*cart.Item, error) {
	row := r.dbtx.QueryRow(ctx,
		`SELECT id, cart_id, product_id, quantity, unit_price_snapshot
		 FROM cart_items WHERE cart_id = $1 AND product_id = $2`,
		cartID, productID,
	)
	return scanCartItem(row, "cart item not found for product")
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int32) error {
	tag, err := r.dbtx.Exec(ctx,
		`UPDATE cart_items SET quantity = $2, updated_at = now() WHERE id = $1`,
		itemID, quantity,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update cart item quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("cart item not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

func (r *CartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	tag, err := r.dbtx.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete cart item", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("cart item not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

func (r *CartRepository) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.dbtx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete cart items", err)
	}
	return nil
}

func (r *CartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]*cart.Item, error) {
	rows, err := r.dbtx.Query(ctx,
		`SELECT id, cart_id, product_id, quantity, unit_price_snapshot
		 FROM cart_items WHERE cart_id = $1 ORDER BY created_at`,
		cartID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list cart items", err)
	}
	defer rows.Close()

	var items []*cart.Item
	for rows.Next() {
		item, err := scanCartItem(rows, "cart item scan failed")
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate cart items", err)
	}
	return items, nil
}

func scanCartItem(row pgx.Row, notFoundMsg string) (*cart.Item, error) {
	var (
		id, cartID, productID uuid.UUID
		quantity              int32
		unitPrice             int64
	)
	if err := row.Scan(&id, &cartID, &productID, &quantity, &unitPrice); err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr(notFoundMsg, err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan cart item", err)
	}

	qty, err := cart.NewQuantity(quantity)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid quantity in cart item row", err)
	}
	return cart.ReconstructItem(id, cartID, productID, qty, unitPrice), nil
}
