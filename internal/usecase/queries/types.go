package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type CartView struct {
	ID            uuid.UUID      `json:"id"`
	OwnerID       uuid.UUID      `json:"owner_id"`
	Status        string         `json:"status"`
	Items         []CartItemView `json:"items"`
	SubtotalCents int64          `json:"subtotal_cents"`
}

type CartItemView struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	LineTotalCents int64     `json:"line_total_cents"`
}

type OrderView struct {
	ID              uuid.UUID       `json:"id"`
	OrderNo         string          `json:"order_no"`
	UserID          uuid.UUID       `json:"user_id"`
	Status          string          `json:"status"`
	SubtotalCents   int64           `json:"subtotal_cents"`
	DiscountCents   int64           `json:"discount_cents"`
	ShippingCents   int64           `json:"shipping_cents"`
	TotalCents      int64           `json:"total_cents"`
	PromotionCode   *string         `json:"promotion_code,omitempty"`
	ShippingAddress string          `json:"shipping_address"`
	Items           []OrderItemView `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderItemView struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
}

type OrderListItem struct {
	ID         uuid.UUID `json:"id"`
	OrderNo    string    `json:"order_no"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

type PaymentIntentView struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	Provider    string    `json:"provider"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
