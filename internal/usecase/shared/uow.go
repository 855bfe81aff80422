package shared

import (
	"context"

	"storefront-api/internal/domain/cart"
	"storefront-api/internal/domain/order"
	"storefront-api/internal/domain/payment"
	"storefront-api/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Carts() CartRepository
	Inventory() InventoryLedger
	Orders() OrderRepository
	Payments() PaymentRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	ProductByID(ctx context.Context, id uuid.UUID) (*ProductSnapshot, error)
	ActiveCartWithItems(ctx context.Context, ownerID uuid.UUID) (*CartSnapshot, error)
}

// ProductSnapshot is the minimal catalog projection the checkout pipeline
// needs; catalog CRUD itself lives elsewhere.
type ProductSnapshot struct {
	ID         uuid.UUID
	Name       string
	PriceCents int64
}

type CartSnapshot struct {
	Cart  *cart.Cart
	Items []*cart.Item
}

func (s *CartSnapshot) SubtotalCents() int64 {
	var subtotal int64
	for _, item := range s.Items {
		subtotal += item.SubtotalCents()
	}
	return subtotal
}

type CartRepository interface {
	Create(ctx context.Context, c *cart.Cart) error
	FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) (*cart.Cart, error)
	MarkCheckedOut(ctx context.Context, cartID uuid.UUID) error
	CreateItem(ctx context.Context, item *cart.Item) error
	FindItemByID(ctx context.Context, itemID uuid.UUID) (*cart.Item, error)
	FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*cart.Item, error)
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int32) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteItems(ctx context.Context, cartID uuid.UUID) error
	ListItems(ctx context.Context, cartID uuid.UUID) ([]*cart.Item, error)
}

// InventoryLedger owns the per-product (stock, reserved) counters. Each
// method locks the product row so check-and-update is serialized.
type InventoryLedger interface {
	Reserve(ctx context.Context, productID uuid.UUID, qty int32) error
	Release(ctx context.Context, productID uuid.UUID, qty int32) error
	Commit(ctx context.Context, productID uuid.UUID, qty int32) error
	Restock(ctx context.Context, productID uuid.UUID, qty int32) error
	Adjust(ctx context.Context, productID uuid.UUID, delta int32) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	FindByNo(ctx context.Context, orderNo string) (*order.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status order.Status) error
}

type PaymentRepository interface {
	CreateIntent(ctx context.Context, intent *payment.Intent) error
	FindIntentByKey(ctx context.Context, idempotencyKey uuid.UUID) (*payment.Intent, error)
	FindIntentByID(ctx context.Context, id uuid.UUID) (*payment.Intent, error)
	UpdateIntentStatus(ctx context.Context, id uuid.UUID, status payment.IntentStatus) error
	CreatePayment(ctx context.Context, rec *payment.Record) error
	FindPaymentByTransactionID(ctx context.Context, provider, transactionID string) (*payment.Record, error)
}
