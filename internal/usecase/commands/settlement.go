package commands

import (
	"context"
	"log/slog"
	"net/url"

	"storefront-api/internal/domain/order"
	"storefront-api/internal/domain/payment"
	"storefront-api/internal/infra"
	"storefront-api/internal/pkg/errs"
	"storefront-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type SettlementCommands interface {
	// HandleWebhook processes the at-least-once provider notification.
	// Every failure is absorbed here; the HTTP layer always answers
	// success-shaped so signature validity never leaks to the caller.
	HandleWebhook(ctx context.Context, providerName string, payload []byte, signature string)
	// HandleReturnCallback is the low-trust synchronous GET confirmation.
	HandleReturnCallback(ctx context.Context, providerName string, query url.Values) bool
	// MarkPaid is the single choke point where money is considered
	// received. Replays observe the settled intent and return success.
	MarkPaid(ctx context.Context, providerName string, intentID uuid.UUID, transactionID string) error
}

type settlementCommandsImpl struct {
	uow       shared.UnitOfWork
	providers ProviderRegistry
}

func NewSettlementCommands(uow shared.UnitOfWork, providers ProviderRegistry) SettlementCommands {
	return &settlementCommandsImpl{
		uow:       uow,
		providers: providers,
	}
}

func (s *settlementCommandsImpl) HandleWebhook(ctx context.Context, providerName string, payload []byte, signature string) {
	provider, err := s.providers.Get(providerName)
	if err != nil {
		slog.Warn("webhook for unknown provider dropped", "provider", providerName)
		return
	}

	if !provider.VerifyWebhook(payload, signature) {
		// Rejected silently: the response stays success-shaped to avoid
		// giving the sender a signature oracle.
		slog.Warn("webhook signature mismatch",
			"provider", providerName,
			"error", errs.ErrSignatureMismatch.Error())
		return
	}

	intentID, transactionID, err := provider.ExtractWebhookReference(payload)
	if err != nil {
		slog.Warn("webhook reference extraction failed",
			"provider", providerName,
			"error", err.Error())
		return
	}

	if err := s.MarkPaid(ctx, providerName, intentID, transactionID); err != nil {
		slog.Error("webhook settlement failed",
			"provider", providerName,
			"intent_id", intentID.String(),
			"error", err.Error())
	}
}

func (s *settlementCommandsImpl) HandleReturnCallback(ctx context.Context, providerName string, query url.Values) bool {
	provider, err := s.providers.Get(providerName)
	if err != nil {
		return false
	}

	intentID, transactionID, ok := provider.ExtractCallbackReference(query)
	if !ok {
		return false
	}

	if err := s.MarkPaid(ctx, providerName, intentID, transactionID); err != nil {
		slog.Warn("return callback settlement failed",
			"provider", providerName,
			"intent_id", intentID.String(),
			"error", err.Error())
		return false
	}
	return true
}

func (s *settlementCommandsImpl) MarkPaid(ctx context.Context, providerName string, intentID uuid.UUID, transactionID string) error {
	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Replay check on the provider's transaction reference first; a
		// settled transaction must be a no-op, not an error.
		if _, err := tx.Payments().FindPaymentByTransactionID(ctx, providerName, transactionID); err == nil {
			return nil
		} else if !infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		intent, err := tx.Payments().FindIntentByID(ctx, intentID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if intent.Provider() != providerName {
			return errs.ErrNotFound
		}

		if err := intent.MarkSucceeded(); err != nil {
			if errs.Is(err, payment.ErrAlreadySettled) {
				// Duplicate delivery; the first one already settled it.
				return nil
			}
			return errs.Mark(err, errs.ErrInvalidTransition)
		}

		ord, err := tx.Orders().FindByID(ctx, intent.OrderID())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := ord.TransitionTo(order.StatusPaid); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}

		rec := &payment.Record{
			ID:            uuid.New(),
			OrderID:       intent.OrderID(),
			IntentID:      intent.ID(),
			Provider:      providerName,
			AmountCents:   intent.AmountCents(),
			Status:        payment.IntentSucceeded.String(),
			TransactionID: transactionID,
		}
		if err := tx.Payments().CreatePayment(ctx, rec); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Orders().UpdateStatus(ctx, ord.ID(), order.StatusPaid); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Payments().UpdateIntentStatus(ctx, intent.ID(), payment.IntentSucceeded); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}
