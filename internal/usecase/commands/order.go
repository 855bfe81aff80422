package commands

import (
	"context"
	"log/slog"

	"storefront-api/internal/domain/order"
	"storefront-api/internal/infra"
	"storefront-api/internal/pkg/clock"
	"storefront-api/internal/pkg/config"
	"storefront-api/internal/pkg/errs"
	"storefront-api/internal/usecase/queries"
	"storefront-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateOrderInput struct {
	PromotionCode   *string
	ShippingAddress string
}

type OrderCommands interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*queries.OrderView, error)
	CancelOrder(ctx context.Context, userID uuid.UUID, orderNo string) error
	// UpdateStatus drives admin transitions (fulfill, refund). Paid is
	// reserved for the settlement path and rejected here.
	UpdateStatus(ctx context.Context, orderNo string, target order.Status) error
}

type orderCommandsImpl struct {
	uow          shared.UnitOfWork
	resolver     DiscountResolver
	notifier     Notifier
	orderQueries queries.OrderQueries
	checkout     config.CheckoutConfig
	clock        clock.Clock
}

func NewOrderCommands(
	uow shared.UnitOfWork,
	resolver DiscountResolver,
	notifier Notifier,
	orderQueries queries.OrderQueries,
	cfg config.Config,
	clock clock.Clock,
) OrderCommands {
	return &orderCommandsImpl{
		uow:          uow,
		resolver:     resolver,
		notifier:     notifier,
		orderQueries: orderQueries,
		checkout:     cfg.Checkout,
		clock:        clock,
	}
}

// CreateOrder is the irreversible commit point: reserved units become
// permanent stock decrements, the cart is closed, and the order row plus
// item snapshots land in one transaction.
func (o *orderCommandsImpl) CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*queries.OrderView, error) {
	address, err := order.NewShippingAddress(input.ShippingAddress)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidAddress)
	}

	discount, promoCode, err := o.resolveDiscountInput(ctx, input.PromotionCode)
	if err != nil {
		return nil, err
	}

	var orderID uuid.UUID
	txErr := o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().ActiveCartWithItems(ctx, userID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrEmptyCart
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if len(snap.Items) == 0 {
			return errs.ErrEmptyCart
		}

		subtotal, err := order.NewMoney(snap.SubtotalCents())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		discountCents := int64(0)
		if discount != nil {
			discountCents = o.resolver.ComputeDiscount(discount, subtotal.Cents())
		}
		discountMoney, err := order.NewMoney(discountCents)
		if err != nil {
			return errs.Mark(err, errs.ErrInvalidPromotion)
		}
		shipping, err := order.NewMoney(o.checkout.ShippingFlatCents)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		items := make([]order.Item, 0, len(snap.Items))
		for _, line := range snap.Items {
			product, err := tx.Reads().ProductByID(ctx, line.ProductID())
			if err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					return errs.ErrNotFound
				}
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			items = append(items, order.Item{
				ProductID:      line.ProductID(),
				Name:           product.Name,
				Quantity:       line.Quantity().Value(),
				UnitPriceCents: line.UnitPriceSnapshot(),
			})
		}

		newOrder, err := order.NewOrder(userID, items, subtotal, discountMoney, shipping, promoCode, address, o.clock.Now())
		if err != nil {
			return errs.Mark(err, errs.ErrEmptyCart)
		}

		if _, err := tx.Orders().Create(ctx, newOrder); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		// Reserved units become committed stock, line by line.
		for _, item := range items {
			if err := tx.Inventory().Commit(ctx, item.ProductID, item.Quantity); err != nil {
				return mapLedgerErr(err)
			}
		}

		if err := tx.Carts().MarkCheckedOut(ctx, snap.Cart.ID()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		orderID = newOrder.ID()
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	view, err := o.orderQueries.GetByIDSystem(ctx, orderID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	o.notifyConfirmed(ctx, view)

	return view, nil
}

func (o *orderCommandsImpl) resolveDiscountInput(ctx context.Context, code *string) (*Promotion, *string, error) {
	if code == nil || *code == "" {
		return nil, nil, nil
	}

	promo, err := o.resolver.Validate(ctx, *code)
	if err != nil || promo == nil {
		return nil, nil, errs.ErrInvalidPromotion
	}
	return promo, code, nil
}

// notifyConfirmed is best-effort: a broken broker must never unwind a
// placed order.
func (o *orderCommandsImpl) notifyConfirmed(ctx context.Context, view *queries.OrderView) {
	event := OrderConfirmedEvent{
		OrderID:    view.ID,
		OrderNo:    view.OrderNo,
		UserID:     view.UserID,
		TotalCents: view.TotalCents,
	}

	go func() {
		if err := o.notifier.OrderConfirmed(context.WithoutCancel(ctx), event); err != nil {
			slog.Warn("order confirmation notify failed",
				"order_no", event.OrderNo,
				"error", err.Error())
		}
	}()
}

// CancelOrder returns committed stock to the pool. Only pending orders
// can be canceled; anything later is refund territory.
func (o *orderCommandsImpl) CancelOrder(ctx context.Context, userID uuid.UUID, orderNo string) error {
	return o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing, err := tx.Orders().FindByNo(ctx, orderNo)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !existing.IsOwnedBy(userID) {
			return errs.ErrNotFound
		}

		if err := existing.TransitionTo(order.StatusCanceled); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}

		if err := tx.Orders().UpdateStatus(ctx, existing.ID(), order.StatusCanceled); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		for _, item := range existing.Items() {
			if err := tx.Inventory().Restock(ctx, item.ProductID, item.Quantity); err != nil {
				return mapLedgerErr(err)
			}
		}
		return nil
	})
}

func (o *orderCommandsImpl) UpdateStatus(ctx context.Context, orderNo string, target order.Status) error {
	if !target.IsValid() || target == order.StatusPaid || target == order.StatusPending {
		return errs.ErrInvalidTransition
	}

	return o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing, err := tx.Orders().FindByNo(ctx, orderNo)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := existing.TransitionTo(target); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}

		if err := tx.Orders().UpdateStatus(ctx, existing.ID(), target); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}
