//go:build unit

package commands_test

import (
	"context"

	"storefront-api/internal/domain/cart"
	"storefront-api/internal/domain/inventory"
	"storefront-api/internal/domain/order"
	"storefront-api/internal/domain/payment"
	"storefront-api/internal/infra"
	"storefront-api/internal/infra/db"
	"storefront-api/internal/pkg/errs"
	"storefront-api/internal/usecase/commands"
	"storefront-api/internal/usecase/queries"
	"storefront-api/internal/usecase/shared"

	"github.com/google/uuid"
)

// In-memory doubles for the transactional seams. They reproduce the
// repository error contract (RepositoryError kinds) so the command logic
// under test sees the same shapes it would against Postgres.

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

func duplicateKey(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindDuplicateKey)
}

type fakeUoW struct {
	tx *fakeTx
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{tx: newFakeTx()}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return u.tx.Reads()
}

type fakeTx struct {
	carts    *fakeCartRepo
	ledger   *fakeLedger
	orders   *fakeOrderRepo
	payments *fakePaymentRepo
	products map[uuid.UUID]shared.ProductSnapshot
}

func newFakeTx() *fakeTx {
	return &fakeTx{
		carts:    newFakeCartRepo(),
		ledger:   newFakeLedger(),
		orders:   newFakeOrderRepo(),
		payments: newFakePaymentRepo(),
		products: make(map[uuid.UUID]shared.ProductSnapshot),
	}
}

func (t *fakeTx) Carts() shared.CartRepository     { return t.carts }
func (t *fakeTx) Inventory() shared.InventoryLedger { return t.ledger }
func (t *fakeTx) Orders() shared.OrderRepository   { return t.orders }
func (t *fakeTx) Payments() shared.PaymentRepository { return t.payments }
func (t *fakeTx) DB() db.DBTX                      { return nil }

func (t *fakeTx) Reads() shared.CommandReads {
	return &fakeReads{tx: t}
}

type fakeReads struct {
	tx *fakeTx
}

func (r *fakeReads) ProductByID(_ context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	snap, ok := r.tx.products[id]
	if !ok {
		return nil, notFound("product not found")
	}
	return &snap, nil
}

func (r *fakeReads) ActiveCartWithItems(ctx context.Context, ownerID uuid.UUID) (*shared.CartSnapshot, error) {
	activeCart, err := r.tx.carts.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	items, err := r.tx.carts.ListItems(ctx, activeCart.ID())
	if err != nil {
		return nil, err
	}
	return &shared.CartSnapshot{Cart: activeCart, Items: items}, nil
}

type fakeCartRepo struct {
	activeByOwner map[uuid.UUID]*cart.Cart
	items         map[uuid.UUID]*cart.Item
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		activeByOwner: make(map[uuid.UUID]*cart.Cart),
		items:         make(map[uuid.UUID]*cart.Item),
	}
}

func (f *fakeCartRepo) Create(_ context.Context, c *cart.Cart) error {
	if _, exists := f.activeByOwner[c.OwnerID()]; exists {
		return duplicateKey("active cart already exists")
	}
	f.activeByOwner[c.OwnerID()] = c
	return nil
}

func (f *fakeCartRepo) FindActiveByOwner(_ context.Context, ownerID uuid.UUID) (*cart.Cart, error) {
	c, ok := f.activeByOwner[ownerID]
	if !ok {
		return nil, notFound("active cart not found")
	}
	return c, nil
}

func (f *fakeCartRepo) MarkCheckedOut(_ context.Context, cartID uuid.UUID) error {
	for owner, c := range f.activeByOwner {
		if c.ID() == cartID {
			delete(f.activeByOwner, owner)
			return nil
		}
	}
	return notFound("cart not found")
}

func (f *fakeCartRepo) CreateItem(_ context.Context, item *cart.Item) error {
	f.items[item.ID()] = item
	return nil
}

func (f *fakeCartRepo) FindItemByID(_ context.Context, itemID uuid.UUID) (*cart.Item, error) {
	item, ok := f.items[itemID]
	if !ok {
		return nil, notFound("cart item not found")
	}
	return item, nil
}

func (f *fakeCartRepo) FindItemByProduct(_ context.Context, cartID, productID uuid.UUID) (*cart.Item, error) {
	for _, item := range f.items {
		if item.CartID() == cartID && item.ProductID() == productID {
			return item, nil
		}
	}
	return nil, notFound("cart item not found")
}

func (f *fakeCartRepo) UpdateItemQuantity(_ context.Context, itemID uuid.UUID, quantity int32) error {
	item, ok := f.items[itemID]
	if !ok {
		return notFound("cart item not found")
	}
	qty, err := cart.NewQuantity(quantity)
	if err != nil {
		return err
	}
	f.items[itemID] = cart.ReconstructItem(item.ID(), item.CartID(), item.ProductID(), qty, item.UnitPriceSnapshot())
	return nil
}

func (f *fakeCartRepo) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	delete(f.items, itemID)
	return nil
}

func (f *fakeCartRepo) DeleteItems(_ context.Context, cartID uuid.UUID) error {
	for id, item := range f.items {
		if item.CartID() == cartID {
			delete(f.items, id)
		}
	}
	return nil
}

func (f *fakeCartRepo) ListItems(_ context.Context, cartID uuid.UUID) ([]*cart.Item, error) {
	var items []*cart.Item
	for _, item := range f.items {
		if item.CartID() == cartID {
			items = append(items, item)
		}
	}
	return items, nil
}

type fakeLedger struct {
	records map[uuid.UUID]*inventory.Record
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: make(map[uuid.UUID]*inventory.Record)}
}

func (f *fakeLedger) set(productID uuid.UUID, stock, reserved int32) {
	f.records[productID] = inventory.ReconstructRecord(productID, stock, reserved)
}

func (f *fakeLedger) get(productID uuid.UUID) (*inventory.Record, error) {
	rec, ok := f.records[productID]
	if !ok {
		return nil, notFound("inventory record not found")
	}
	return rec, nil
}

func (f *fakeLedger) Reserve(_ context.Context, productID uuid.UUID, qty int32) error {
	rec, err := f.get(productID)
	if err != nil {
		return err
	}
	if err := rec.Reserve(qty); err != nil {
		return errs.Mark(err, errs.ErrOutOfStock)
	}
	return nil
}

func (f *fakeLedger) Release(_ context.Context, productID uuid.UUID, qty int32) error {
	rec, err := f.get(productID)
	if err != nil {
		return err
	}
	_ = rec.Release(qty)
	return nil
}

func (f *fakeLedger) Commit(_ context.Context, productID uuid.UUID, qty int32) error {
	rec, err := f.get(productID)
	if err != nil {
		return err
	}
	return rec.Commit(qty)
}

func (f *fakeLedger) Restock(_ context.Context, productID uuid.UUID, qty int32) error {
	rec, err := f.get(productID)
	if err != nil {
		return err
	}
	rec.Restock(qty)
	return nil
}

func (f *fakeLedger) Adjust(_ context.Context, productID uuid.UUID, delta int32) error {
	rec, err := f.get(productID)
	if err != nil {
		return err
	}
	if delta < 0 && rec.Available() < -delta {
		return errs.Mark(inventory.ErrOutOfStock, errs.ErrOutOfStock)
	}
	rec.Restock(delta)
	return nil
}

type fakeOrderRepo struct {
	byID map[uuid.UUID]*order.Order
	byNo map[string]*order.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		byID: make(map[uuid.UUID]*order.Order),
		byNo: make(map[string]*order.Order),
	}
}

func (f *fakeOrderRepo) Create(_ context.Context, o *order.Order) (uuid.UUID, error) {
	f.byID[o.ID()] = o
	f.byNo[o.OrderNo()] = o
	return o.ID(), nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, notFound("order not found")
	}
	return o, nil
}

func (f *fakeOrderRepo) FindByNo(_ context.Context, orderNo string) (*order.Order, error) {
	o, ok := f.byNo[orderNo]
	if !ok {
		return nil, notFound("order not found")
	}
	return o, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, orderID uuid.UUID, _ order.Status) error {
	if _, ok := f.byID[orderID]; !ok {
		return notFound("order not found")
	}
	// The command mutates the loaded entity; the fake shares the pointer.
	return nil
}

type fakePaymentRepo struct {
	intentsByID  map[uuid.UUID]*payment.Intent
	intentsByKey map[uuid.UUID]*payment.Intent
	payments     map[string]*payment.Record
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		intentsByID:  make(map[uuid.UUID]*payment.Intent),
		intentsByKey: make(map[uuid.UUID]*payment.Intent),
		payments:     make(map[string]*payment.Record),
	}
}

func (f *fakePaymentRepo) CreateIntent(_ context.Context, intent *payment.Intent) error {
	if _, exists := f.intentsByKey[intent.IdempotencyKey()]; exists {
		return duplicateKey("idempotency key already used")
	}
	f.intentsByID[intent.ID()] = intent
	f.intentsByKey[intent.IdempotencyKey()] = intent
	return nil
}

func (f *fakePaymentRepo) FindIntentByKey(_ context.Context, idempotencyKey uuid.UUID) (*payment.Intent, error) {
	intent, ok := f.intentsByKey[idempotencyKey]
	if !ok {
		return nil, notFound("payment intent not found")
	}
	return intent, nil
}

func (f *fakePaymentRepo) FindIntentByID(_ context.Context, id uuid.UUID) (*payment.Intent, error) {
	intent, ok := f.intentsByID[id]
	if !ok {
		return nil, notFound("payment intent not found")
	}
	return intent, nil
}

func (f *fakePaymentRepo) UpdateIntentStatus(_ context.Context, id uuid.UUID, _ payment.IntentStatus) error {
	if _, ok := f.intentsByID[id]; !ok {
		return notFound("payment intent not found")
	}
	return nil
}

func (f *fakePaymentRepo) CreatePayment(_ context.Context, rec *payment.Record) error {
	key := rec.Provider + "/" + rec.TransactionID
	if _, exists := f.payments[key]; exists {
		return duplicateKey("transaction already recorded")
	}
	f.payments[key] = rec
	return nil
}

func (f *fakePaymentRepo) FindPaymentByTransactionID(_ context.Context, provider, transactionID string) (*payment.Record, error) {
	rec, ok := f.payments[provider+"/"+transactionID]
	if !ok {
		return nil, notFound("payment not found")
	}
	return rec, nil
}

// fakeOrderReadStore backs the real OrderQueries with the fake repo so
// read-after-write inside commands observes command writes.
type fakeOrderReadStore struct {
	orders *fakeOrderRepo
}

func (f *fakeOrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	o, err := f.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return orderToView(o), nil
}

func (f *fakeOrderReadStore) FindByNo(ctx context.Context, orderNo string) (*queries.OrderView, error) {
	o, err := f.orders.FindByNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	return orderToView(o), nil
}

func (f *fakeOrderReadStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*queries.OrderListItem, error) {
	var items []*queries.OrderListItem
	for _, o := range f.orders.byID {
		if o.UserID() == userID {
			items = append(items, &queries.OrderListItem{
				ID:         o.ID(),
				OrderNo:    o.OrderNo(),
				Status:     o.Status().String(),
				TotalCents: o.TotalCents(),
			})
		}
	}
	return items, nil
}

func orderToView(o *order.Order) *queries.OrderView {
	items := make([]queries.OrderItemView, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, queries.OrderItemView{
			ProductID:      item.ProductID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return &queries.OrderView{
		ID:              o.ID(),
		OrderNo:         o.OrderNo(),
		UserID:          o.UserID(),
		Status:          o.Status().String(),
		SubtotalCents:   o.SubtotalCents(),
		DiscountCents:   o.DiscountCents(),
		ShippingCents:   o.ShippingCents(),
		TotalCents:      o.TotalCents(),
		PromotionCode:   o.PromotionCode(),
		ShippingAddress: o.ShippingAddress().String(),
		Items:           items,
	}
}

type fakeNotifier struct {
	events chan commands.OrderConfirmedEvent
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{events: make(chan commands.OrderConfirmedEvent, 1)}
}

func (f *fakeNotifier) OrderConfirmed(_ context.Context, event commands.OrderConfirmedEvent) error {
	f.events <- event
	return nil
}
