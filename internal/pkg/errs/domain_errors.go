package errs

import "errors"

// Domain-specific sentinel errors for CQRS usecase layers
var (
	// Ownership mismatches surface as ErrNotFound so existence never leaks
	ErrNotFound = errors.New("not found")

	// Cart errors
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidAddress  = errors.New("shipping address is required")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrOutOfStock      = errors.New("insufficient stock")
	ErrCartCheckedOut  = errors.New("cart already checked out")

	// Promotion errors
	ErrInvalidPromotion = errors.New("invalid promotion code")

	// Order errors
	ErrInvalidTransition = errors.New("invalid order status transition")

	// Payment errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrSignatureMismatch      = errors.New("webhook signature mismatch")
	ErrProviderUnavailable    = errors.New("payment provider unavailable")
	ErrUnknownProvider        = errors.New("unknown payment provider")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
