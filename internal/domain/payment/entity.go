package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadySettled = errors.New("payment intent already settled")
	ErrIntentFailed   = errors.New("payment intent already failed")
)

// Intent is one attempt to collect an order's total. An order may
// accumulate intents across retries, but one idempotency key always maps
// to the same intent.
type Intent struct {
	id             uuid.UUID
	orderID        uuid.UUID
	provider       string
	amountCents    int64
	status         IntentStatus
	idempotencyKey uuid.UUID
	returnURL      *string
	createdAt      time.Time
	updatedAt      time.Time
}

func NewIntent(orderID uuid.UUID, provider string, amountCents int64, idempotencyKey uuid.UUID, returnURL *string) *Intent {
	return &Intent{
		id:             uuid.New(),
		orderID:        orderID,
		provider:       provider,
		amountCents:    amountCents,
		status:         IntentPending,
		idempotencyKey: idempotencyKey,
		returnURL:      returnURL,
	}
}

func ReconstructIntent(
	id, orderID uuid.UUID,
	provider string,
	amountCents int64,
	status IntentStatus,
	idempotencyKey uuid.UUID,
	returnURL *string,
	createdAt, updatedAt time.Time,
) *Intent {
	return &Intent{
		id:             id,
		orderID:        orderID,
		provider:       provider,
		amountCents:    amountCents,
		status:         status,
		idempotencyKey: idempotencyKey,
		returnURL:      returnURL,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// MarkSucceeded settles the intent. A second call reports ErrAlreadySettled
// so replayed webhooks can be answered as a success-shaped no-op.
func (i *Intent) MarkSucceeded() error {
	switch i.status {
	case IntentSucceeded:
		return ErrAlreadySettled
	case IntentFailed:
		return ErrIntentFailed
	}
	i.status = IntentSucceeded
	return nil
}

func (i *Intent) MarkFailed() error {
	if i.status != IntentPending {
		return ErrAlreadySettled
	}
	i.status = IntentFailed
	return nil
}

func (i *Intent) IsPending() bool { return i.status == IntentPending }

func (i *Intent) ID() uuid.UUID             { return i.id }
func (i *Intent) OrderID() uuid.UUID        { return i.orderID }
func (i *Intent) Provider() string          { return i.provider }
func (i *Intent) AmountCents() int64        { return i.amountCents }
func (i *Intent) Status() IntentStatus      { return i.status }
func (i *Intent) IdempotencyKey() uuid.UUID { return i.idempotencyKey }
func (i *Intent) ReturnURL() *string        { return i.returnURL }
func (i *Intent) CreatedAt() time.Time      { return i.createdAt }
func (i *Intent) UpdatedAt() time.Time      { return i.updatedAt }

// Record is the settlement row written once an intent succeeds. The
// provider's transaction id doubles as the replay check.
type Record struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	IntentID      uuid.UUID
	Provider      string
	AmountCents   int64
	Status        string
	TransactionID string
	CreatedAt     time.Time
}
