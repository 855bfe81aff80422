//go:build unit

package cart_test

import (
	"testing"

	"storefront-api/internal/domain/cart"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity(t *testing.T) {
	for _, v := range []int32{0, -1, -100} {
		_, err := cart.NewQuantity(v)
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity, "value %d", v)
	}

	q, err := cart.NewQuantity(2)
	require.NoError(t, err)
	more, err := cart.NewQuantity(3)
	require.NoError(t, err)
	assert.Equal(t, int32(5), q.Add(more).Value())
}

func TestCartCheckOut(t *testing.T) {
	c := cart.NewCart(uuid.New())
	assert.True(t, c.IsActive())

	require.NoError(t, c.CheckOut())
	assert.False(t, c.IsActive())

	assert.ErrorIs(t, c.CheckOut(), cart.ErrAlreadyCheckedOut)
}

func TestCartOwnership(t *testing.T) {
	ownerID := uuid.New()
	c := cart.NewCart(ownerID)
	assert.True(t, c.IsOwnedBy(ownerID))
	assert.False(t, c.IsOwnedBy(uuid.New()))
}

func TestItemSubtotal(t *testing.T) {
	q, err := cart.NewQuantity(3)
	require.NoError(t, err)

	item := cart.NewItem(uuid.New(), uuid.New(), q, 100000)
	assert.Equal(t, int64(300000), item.SubtotalCents())
	assert.Equal(t, int64(100000), item.UnitPriceSnapshot())
}
