package commands

import (
	"context"
	"log/slog"

	"storefront-api/internal/infra"
	"storefront-api/internal/pkg/errs"
	"storefront-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type InventoryCommands interface {
	// Adjust applies a signed correction to on-hand stock. A negative delta
	// larger than the unreserved remainder is rejected so reservations are
	// never invalidated.
	Adjust(ctx context.Context, productID uuid.UUID, delta int32, reason string) error
}

type inventoryCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewInventoryCommands(uow shared.UnitOfWork) InventoryCommands {
	return &inventoryCommandsImpl{uow: uow}
}

func (i *inventoryCommandsImpl) Adjust(ctx context.Context, productID uuid.UUID, delta int32, reason string) error {
	if delta == 0 {
		return errs.ErrInvalidQuantity
	}

	err := i.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Inventory().Adjust(ctx, productID, delta); err != nil {
			return mapLedgerErr(err)
		}
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrNotFound
		}
		return err
	}

	slog.Info("inventory adjusted",
		"product_id", productID.String(),
		"delta", delta,
		"reason", reason)
	return nil
}
