package commands

import (
	"context"
	"net/url"

	"storefront-api/internal/domain/order"
	"storefront-api/internal/domain/payment"

	"github.com/google/uuid"
)

// Promotion is the resolver's opaque validation result. Rule evaluation is
// an external concern; the checkout only consumes the computed discount.
type Promotion struct {
	Code           string
	PercentOff     *float64
	AmountOffCents *int64
}

type DiscountResolver interface {
	Validate(ctx context.Context, code string) (*Promotion, error)
	ComputeDiscount(promo *Promotion, subtotalCents int64) int64
}

// OrderConfirmedEvent is published after the placement transaction commits.
type OrderConfirmedEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	OrderNo    string    `json:"order_no"`
	UserID     uuid.UUID `json:"user_id"`
	TotalCents int64     `json:"total_cents"`
}

// Notifier delivery is fire-and-forget: failures are logged by the caller
// and never reach the transaction that produced the event.
type Notifier interface {
	OrderConfirmed(ctx context.Context, event OrderConfirmedEvent) error
}

// PaymentProvider is one redirect-style PSP variant. Adding a provider
// means adding an implementation; the settlement flow stays untouched.
type PaymentProvider interface {
	Name() string
	// BuildRedirect synthesizes the provider-hosted checkout URL for a
	// pending intent. Parameter names, ordering and the signature must
	// match the provider's contract bit-for-bit.
	BuildRedirect(intent *payment.Intent, o *order.Order) (string, error)
	// VerifyWebhook recomputes the HMAC over the canonical payload.
	VerifyWebhook(payload []byte, signature string) bool
	// ExtractWebhookReference pulls our intent id and the provider's
	// transaction id out of a verified webhook payload.
	ExtractWebhookReference(payload []byte) (intentID uuid.UUID, transactionID string, err error)
	// ExtractCallbackReference does the same for the low-trust GET return.
	ExtractCallbackReference(query url.Values) (intentID uuid.UUID, transactionID string, ok bool)
}

type ProviderRegistry interface {
	Get(name string) (PaymentProvider, error)
}
