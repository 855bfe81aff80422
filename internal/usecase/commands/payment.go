package commands

import (
	"context"
	"fmt"
	"log/slog"

	"storefront-api/internal/domain/order"
	"storefront-api/internal/domain/payment"
	"storefront-api/internal/infra"
	"storefront-api/internal/pkg/config"
	"storefront-api/internal/pkg/errs"
	"storefront-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateIntentInput struct {
	OrderID        uuid.UUID
	Provider       string
	IdempotencyKey uuid.UUID
	ReturnURL      *string
}

type CreateIntentResult struct {
	IntentID    uuid.UUID
	RedirectURL string
	IsReplayed  bool
}

type PaymentCommands interface {
	CreateIntent(ctx context.Context, input CreateIntentInput) (*CreateIntentResult, error)
}

type paymentCommandsImpl struct {
	uow       shared.UnitOfWork
	providers ProviderRegistry
	payment   config.PaymentConfig
}

func NewPaymentCommands(uow shared.UnitOfWork, providers ProviderRegistry, cfg config.Config) PaymentCommands {
	return &paymentCommandsImpl{
		uow:       uow,
		providers: providers,
		payment:   cfg.Payment,
	}
}

// CreateIntent has create-or-fetch semantics on the idempotency key: any
// number of submissions with the same key resolve to the same intent. The
// race on a fresh key is settled by the unique index; the insert loser
// re-reads the winner's row.
func (p *paymentCommandsImpl) CreateIntent(ctx context.Context, input CreateIntentInput) (*CreateIntentResult, error) {
	if input.IdempotencyKey == uuid.Nil {
		return nil, errs.ErrIdempotencyKeyRequired
	}

	provider, err := p.providers.Get(input.Provider)
	if err != nil {
		return nil, errs.ErrUnknownProvider
	}

	var (
		intent   *payment.Intent
		ord      *order.Order
		replayed bool
	)
	txErr := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing, err := tx.Payments().FindIntentByKey(ctx, input.IdempotencyKey)
		if err == nil {
			intent = existing
			replayed = true
			ord, err = tx.Orders().FindByID(ctx, existing.OrderID())
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			return nil
		}
		if !infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		ord, err = tx.Orders().FindByID(ctx, input.OrderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		fresh := payment.NewIntent(ord.ID(), provider.Name(), ord.TotalCents(), input.IdempotencyKey, input.ReturnURL)
		if err := tx.Payments().CreateIntent(ctx, fresh); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				winner, findErr := tx.Payments().FindIntentByKey(ctx, input.IdempotencyKey)
				if findErr != nil {
					return errs.Mark(findErr, errs.ErrDatabaseOperationFailed)
				}
				intent = winner
				replayed = true
				return nil
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		intent = fresh
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &CreateIntentResult{
		IntentID:    intent.ID(),
		RedirectURL: p.buildRedirect(provider, intent, ord),
		IsReplayed:  replayed,
	}, nil
}

// buildRedirect degrades locally: if the provider-hosted checkout cannot
// be built, the caller gets a same-origin return URL carrying the intent
// id and the intent stays pending. Checkout is never blocked on the PSP.
func (p *paymentCommandsImpl) buildRedirect(provider PaymentProvider, intent *payment.Intent, ord *order.Order) string {
	redirectURL, err := provider.BuildRedirect(intent, ord)
	if err != nil {
		slog.Warn("provider redirect build failed, falling back to return url",
			"provider", provider.Name(),
			"intent_id", intent.ID().String(),
			"error", err.Error())
		return p.fallbackURL(intent)
	}
	return redirectURL
}

func (p *paymentCommandsImpl) fallbackURL(intent *payment.Intent) string {
	return fmt.Sprintf("%s/%s?intent_id=%s", p.payment.BaseReturnURL, intent.Provider(), intent.ID().String())
}
