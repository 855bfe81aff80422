package repository

import (
	"context"
	"time"

	"storefront-api/internal/domain/order"
	"storefront-api/internal/infra"
	"storefront-api/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository struct {
	dbtx db.DBTX
}

func NewOrderRepository(dbtx db.DBTX) *OrderRepository {
	return &OrderRepository{dbtx: dbtx}
}

// Create persists the order row plus its item snapshots in the caller's
// transaction.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) (uuid.UUID, error) {
	_, err := r.dbtx.Exec(ctx,
		`INSERT INTO orders
		   (id, order_no, user_id, status, subtotal_cents, discount_cents,
		    shipping_cents, total_cents, promotion_code, shipping_address,
		    created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())`,
		o.ID(), o.OrderNo(), o.UserID(), o.Status().String(),
		o.SubtotalCents(), o.DiscountCents(), o.ShippingCents(), o.TotalCents(),
		o.PromotionCode(), o.ShippingAddress().String(),
	)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create order", err)
	}

	for _, item := range o.Items() {
		_, err := r.dbtx.Exec(ctx,
			`INSERT INTO order_items (id, order_id, product_id, name, quantity, unit_price_cents)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), o.ID(), item.ProductID, item.Name, item.Quantity, item.UnitPriceCents,
		)
		if err != nil {
			return uuid.Nil, infra.WrapRepoErr("failed to create order item", err)
		}
	}

	return o.ID(), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.findOne(ctx,
		`SELECT id, order_no, user_id, status, subtotal_cents, discount_cents,
		        shipping_cents, total_cents, promotion_code, shipping_address,
		        created_at, updated_at
		 FROM orders WHERE id = $1 FOR UPDATE`,
		id,
	)
}

func (r *OrderRepository) FindByNo(ctx context.Context, orderNo string) (*order.Order, error) {
	return r.findOne(ctx,
		`SELECT id, order_no, user_id, status, subtotal_cents, discount_cents,
		        shipping_cents, total_cents, promotion_code, shipping_address,
		        created_at, updated_at
		 FROM orders WHERE order_no = $1 FOR UPDATE`,
		orderNo,
	)
}

func (r *OrderRepository) findOne(ctx context.Context, query string, arg any) (*order.Order, error) {
	var (
		id, userID           uuid.UUID
		orderNo, status      string
		subtotal, discount   int64
		shipping, total      int64
		promotionCode        *string
		shippingAddress      string
		createdAt, updatedAt time.Time
	)
	err := r.dbtx.QueryRow(ctx, query, arg).Scan(
		&id, &orderNo, &userID, &status, &subtotal, &discount,
		&shipping, &total, &promotionCode, &shippingAddress,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order", err)
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}

	address, err := order.NewShippingAddress(shippingAddress)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid shipping address in order row", err)
	}

	return order.ReconstructOrder(
		id, orderNo, userID, order.Status(status),
		subtotal, discount, shipping, total,
		promotionCode, address, items, createdAt, updatedAt,
	), nil
}

func (r *OrderRepository) listItems(ctx context.Context, orderID uuid.UUID) ([]order.Item, error) {
	rows, err := r.dbtx.Query(ctx,
		`SELECT product_id, name, quantity, unit_price_cents
		 FROM order_items WHERE order_id = $1`,
		orderID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list order items", err)
	}
	defer rows.Close()

	var items []order.Item
	for rows.Next() {
		var item order.Item
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order items", err)
	}
	return items, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status order.Status) error {
	tag, err := r.dbtx.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
		orderID, status.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}
