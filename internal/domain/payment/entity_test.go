//go:build unit

package payment_test

import (
	"testing"

	"storefront-api/internal/domain/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentMarkSucceeded(t *testing.T) {
	intent := payment.NewIntent(uuid.New(), "vnpay", 210000, uuid.New(), nil)
	require.True(t, intent.IsPending())

	require.NoError(t, intent.MarkSucceeded())
	assert.Equal(t, payment.IntentSucceeded, intent.Status())

	// Replay is reported distinctly so callers can treat it as a no-op.
	assert.ErrorIs(t, intent.MarkSucceeded(), payment.ErrAlreadySettled)
	assert.Equal(t, payment.IntentSucceeded, intent.Status())
}

func TestIntentMarkFailed(t *testing.T) {
	intent := payment.NewIntent(uuid.New(), "momo", 50000, uuid.New(), nil)
	require.NoError(t, intent.MarkFailed())
	assert.Equal(t, payment.IntentFailed, intent.Status())

	assert.ErrorIs(t, intent.MarkSucceeded(), payment.ErrIntentFailed)
}
