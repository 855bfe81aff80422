package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoItems          = errors.New("order must have at least one item")
	ErrNegativeDiscount = errors.New("discount cannot be negative")
)

// Order is immutable after creation except for status and settlement
// metadata. Historical pricing lives in the item snapshots.
type Order struct {
	id              uuid.UUID
	orderNo         string
	userID          uuid.UUID
	status          Status
	subtotalCents   int64
	discountCents   int64
	shippingCents   int64
	totalCents      int64
	promotionCode   *string
	shippingAddress ShippingAddress
	items           []Item
	createdAt       time.Time
	updatedAt       time.Time
}

// Item is a point-in-time snapshot of a product line, decoupled from the
// live catalog record.
type Item struct {
	ProductID      uuid.UUID
	Name           string
	Quantity       int32
	UnitPriceCents int64
}

func NewOrder(
	userID uuid.UUID,
	items []Item,
	subtotal Money,
	discount Money,
	shipping Money,
	promotionCode *string,
	address ShippingAddress,
	now time.Time,
) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	total := subtotal.Sub(discount).Add(shipping)

	return &Order{
		id:              uuid.New(),
		orderNo:         NewOrderNo(now),
		userID:          userID,
		status:          StatusPending,
		subtotalCents:   subtotal.Cents(),
		discountCents:   discount.Cents(),
		shippingCents:   shipping.Cents(),
		totalCents:      total.Cents(),
		promotionCode:   promotionCode,
		shippingAddress: address,
		items:           items,
	}, nil
}

func ReconstructOrder(
	id uuid.UUID,
	orderNo string,
	userID uuid.UUID,
	status Status,
	subtotalCents, discountCents, shippingCents, totalCents int64,
	promotionCode *string,
	address ShippingAddress,
	items []Item,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:              id,
		orderNo:         orderNo,
		userID:          userID,
		status:          status,
		subtotalCents:   subtotalCents,
		discountCents:   discountCents,
		shippingCents:   shippingCents,
		totalCents:      totalCents,
		promotionCode:   promotionCode,
		shippingAddress: address,
		items:           items,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// TransitionTo is the single mutation point for order status. Every
// post-creation status change in the system goes through here.
func (o *Order) TransitionTo(target Status) error {
	if !o.status.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	o.status = target
	return nil
}

func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.userID == userID
}

func (o *Order) ID() uuid.UUID                    { return o.id }
func (o *Order) OrderNo() string                  { return o.orderNo }
func (o *Order) UserID() uuid.UUID                { return o.userID }
func (o *Order) Status() Status                   { return o.status }
func (o *Order) SubtotalCents() int64             { return o.subtotalCents }
func (o *Order) DiscountCents() int64             { return o.discountCents }
func (o *Order) ShippingCents() int64             { return o.shippingCents }
func (o *Order) TotalCents() int64                { return o.totalCents }
func (o *Order) PromotionCode() *string           { return o.promotionCode }
func (o *Order) ShippingAddress() ShippingAddress { return o.shippingAddress }
func (o *Order) Items() []Item                    { return o.items }
func (o *Order) CreatedAt() time.Time             { return o.createdAt }
func (o *Order) UpdatedAt() time.Time             { return o.updatedAt }
