package readstore

import (
	"context"

	"storefront-api/internal/infra"
	"storefront-api/internal/infra/db"
	"storefront-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderReadStore struct {
	dbtx db.DBTX
}

func NewOrderReadStore(dbtx db.DBTX) *OrderReadStore {
	return &OrderReadStore{dbtx: dbtx}
}

const orderViewColumns = `id, order_no, user_id, status, subtotal_cents, discount_cents,
	shipping_cents, total_cents, promotion_code, shipping_address, created_at, updated_at`

func (r *OrderReadStore) FindByNo(ctx context.Context, orderNo string) (*queries.OrderView, error) {
	row := r.dbtx.QueryRow(ctx,
		`SELECT `+orderViewColumns+` FROM orders WHERE order_no = $1`, orderNo)
	return r.scanOrderView(ctx, row)
}

func (r *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	row := r.dbtx.QueryRow(ctx,
		`SELECT `+orderViewColumns+` FROM orders WHERE id = $1`, id)
	return r.scanOrderView(ctx, row)
}

func (r *OrderReadStore) scanOrderView(ctx context.Context, row pgx.Row) (*queries.OrderView, error) {
	var view queries.OrderView
	err := row.Scan(
		&view.ID, &view.OrderNo, &view.UserID, &view.Status,
		&view.SubtotalCents, &view.DiscountCents, &view.ShippingCents, &view.TotalCents,
		&view.PromotionCode, &view.ShippingAddress, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order view", err)
	}

	rows, err := r.dbtx.Query(ctx,
		`SELECT product_id, name, quantity, unit_price_cents FROM order_items WHERE order_id = $1`,
		view.ID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list order item views", err)
	}
	defer rows.Close()

	view.Items = []queries.OrderItemView{}
	for rows.Next() {
		var item queries.OrderItemView
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item view", err)
		}
		view.Items = append(view.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order item views", err)
	}

	return &view, nil
}

func (r *OrderReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*queries.OrderListItem, error) {
	rows, err := r.dbtx.Query(ctx,
		`SELECT id, order_no, status, total_cents, created_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	result := []*queries.OrderListItem{}
	for rows.Next() {
		var item queries.OrderListItem
		if err := rows.Scan(&item.ID, &item.OrderNo, &item.Status, &item.TotalCents, &item.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order list item", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order list items", err)
	}

	return result, nil
}
