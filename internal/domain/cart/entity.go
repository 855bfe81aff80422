package cart

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyCheckedOut = errors.New("cart is already checked out")
	ErrNotOwner          = errors.New("cart does not belong to user")
)

// Cart is a user's mutable pre-order basket. Exactly one active cart exists
// per owner; it is checked out once and never reused.
type Cart struct {
	id        uuid.UUID
	ownerID   uuid.UUID
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

func NewCart(ownerID uuid.UUID) *Cart {
	return &Cart{
		id:      uuid.New(),
		ownerID: ownerID,
		status:  StatusActive,
	}
}

func ReconstructCart(id, ownerID uuid.UUID, status Status, createdAt, updatedAt time.Time) *Cart {
	return &Cart{
		id:        id,
		ownerID:   ownerID,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (c *Cart) CheckOut() error {
	if c.status == StatusCheckedOut {
		return ErrAlreadyCheckedOut
	}
	c.status = StatusCheckedOut
	return nil
}

func (c *Cart) IsActive() bool {
	return c.status == StatusActive
}

func (c *Cart) IsOwnedBy(userID uuid.UUID) bool {
	return c.ownerID == userID
}

func (c *Cart) ID() uuid.UUID        { return c.id }
func (c *Cart) OwnerID() uuid.UUID   { return c.ownerID }
func (c *Cart) Status() Status       { return c.status }
func (c *Cart) CreatedAt() time.Time { return c.createdAt }
func (c *Cart) UpdatedAt() time.Time { return c.updatedAt }

// Item is a cart line. The unit price is snapshotted at add-time and never
// re-read from the catalog afterwards.
type Item struct {
	id                uuid.UUID
	cartID            uuid.UUID
	productID         uuid.UUID
	quantity          Quantity
	unitPriceSnapshot int64
}

func NewItem(cartID, productID uuid.UUID, quantity Quantity, unitPriceCents int64) *Item {
	return &Item{
		id:                uuid.New(),
		cartID:            cartID,
		productID:         productID,
		quantity:          quantity,
		unitPriceSnapshot: unitPriceCents,
	}
}

func ReconstructItem(id, cartID, productID uuid.UUID, quantity Quantity, unitPriceCents int64) *Item {
	return &Item{
		id:                id,
		cartID:            cartID,
		productID:         productID,
		quantity:          quantity,
		unitPriceSnapshot: unitPriceCents,
	}
}

func (i *Item) SubtotalCents() int64 {
	return int64(i.quantity.Value()) * i.unitPriceSnapshot
}

func (i *Item) ID() uuid.UUID            { return i.id }
func (i *Item) CartID() uuid.UUID        { return i.cartID }
func (i *Item) ProductID() uuid.UUID     { return i.productID }
func (i *Item) Quantity() Quantity       { return i.quantity }
func (i *Item) UnitPriceSnapshot() int64 { return i.unitPriceSnapshot }
