package commands

import (
	"context"

	"storefront-api/internal/domain/cart"
	"storefront-api/internal/infra"
	"storefront-api/internal/pkg/errs"
	"storefront-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type CartCommands interface {
	AddItem(ctx context.Context, ownerID, productID uuid.UUID, qty int32) error
	UpdateItem(ctx context.Context, ownerID, itemID uuid.UUID, newQty int32) error
	RemoveItem(ctx context.Context, ownerID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, ownerID uuid.UUID) error
}

type cartCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewCartCommands(uow shared.UnitOfWork) CartCommands {
	return &cartCommandsImpl{uow: uow}
}

// AddItem reserves stock and upserts the cart line in one transaction;
// either both happen or neither does.
func (c *cartCommandsImpl) AddItem(ctx context.Context, ownerID, productID uuid.UUID, qty int32) error {
	quantity, err := cart.NewQuantity(qty)
	if err != nil {
		return errs.Mark(err, errs.ErrInvalidQuantity)
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		product, err := tx.Reads().ProductByID(ctx, productID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		activeCart, err := c.getOrCreateActiveCart(ctx, tx, ownerID)
		if err != nil {
			return err
		}

		if err := tx.Inventory().Reserve(ctx, productID, qty); err != nil {
			return mapLedgerErr(err)
		}

		existing, err := tx.Carts().FindItemByProduct(ctx, activeCart.ID(), productID)
		if err != nil {
			if !infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			item := cart.NewItem(activeCart.ID(), productID, quantity, product.PriceCents)
			if err := tx.Carts().CreateItem(ctx, item); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			return nil
		}

		// Product already in cart: sum quantities, keep the original snapshot.
		summed := existing.Quantity().Add(quantity)
		if err := tx.Carts().UpdateItemQuantity(ctx, existing.ID(), summed.Value()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}

// UpdateItem reconciles the reservation by the quantity delta. Setting the
// quantity to zero removes the line.
func (c *cartCommandsImpl) UpdateItem(ctx context.Context, ownerID, itemID uuid.UUID, newQty int32) error {
	if newQty < 0 {
		return errs.ErrInvalidQuantity
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		item, err := c.findOwnedItem(ctx, tx, ownerID, itemID)
		if err != nil {
			return err
		}

		delta := newQty - item.Quantity().Value()
		switch {
		case delta > 0:
			if err := tx.Inventory().Reserve(ctx, item.ProductID(), delta); err != nil {
				return mapLedgerErr(err)
			}
		case delta < 0:
			if err := tx.Inventory().Release(ctx, item.ProductID(), -delta); err != nil {
				return mapLedgerErr(err)
			}
		}

		if newQty == 0 {
			if err := tx.Carts().DeleteItem(ctx, item.ID()); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			return nil
		}

		if err := tx.Carts().UpdateItemQuantity(ctx, item.ID(), newQty); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *cartCommandsImpl) RemoveItem(ctx context.Context, ownerID, itemID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		item, err := c.findOwnedItem(ctx, tx, ownerID, itemID)
		if err != nil {
			return err
		}

		if err := tx.Inventory().Release(ctx, item.ProductID(), item.Quantity().Value()); err != nil {
			return mapLedgerErr(err)
		}

		if err := tx.Carts().DeleteItem(ctx, item.ID()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}

// ClearCart releases every reservation the cart holds and empties it.
func (c *cartCommandsImpl) ClearCart(ctx context.Context, ownerID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		activeCart, err := tx.Carts().FindActiveByOwner(ctx, ownerID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil // nothing to clear
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		items, err := tx.Carts().ListItems(ctx, activeCart.ID())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		for _, item := range items {
			if err := tx.Inventory().Release(ctx, item.ProductID(), item.Quantity().Value()); err != nil {
				return mapLedgerErr(err)
			}
		}

		if err := tx.Carts().DeleteItems(ctx, activeCart.ID()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}

// getOrCreateActiveCart is idempotent: one active cart per owner, created
// lazily on first add.
func (c *cartCommandsImpl) getOrCreateActiveCart(ctx context.Context, tx shared.Tx, ownerID uuid.UUID) (*cart.Cart, error) {
	existing, err := tx.Carts().FindActiveByOwner(ctx, ownerID)
	if err == nil {
		return existing, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	fresh := cart.NewCart(ownerID)
	if err := tx.Carts().Create(ctx, fresh); err != nil {
		// Concurrent first-add lost the unique insert; use the winner's cart.
		if infra.IsKind(err, infra.KindDuplicateKey) {
			winner, findErr := tx.Carts().FindActiveByOwner(ctx, ownerID)
			if findErr != nil {
				return nil, errs.Mark(findErr, errs.ErrDatabaseOperationFailed)
			}
			return winner, nil
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return fresh, nil
}

// findOwnedItem resolves the item and enforces ownership. A foreign item
// is reported as not found, never as forbidden.
func (c *cartCommandsImpl) findOwnedItem(ctx context.Context, tx shared.Tx, ownerID, itemID uuid.UUID) (*cart.Item, error) {
	item, err := tx.Carts().FindItemByID(ctx, itemID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	activeCart, err := tx.Carts().FindActiveByOwner(ctx, ownerID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if item.CartID() != activeCart.ID() {
		return nil, errs.ErrNotFound
	}
	return item, nil
}

func mapLedgerErr(err error) error {
	switch {
	case errs.Is(err, errs.ErrOutOfStock):
		return err
	case infra.IsKind(err, infra.KindNotFound):
		return errs.ErrNotFound
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}
