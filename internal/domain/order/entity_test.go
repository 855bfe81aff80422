//go:build unit

package order_test

import (
	"strings"
	"testing"
	"time"

	"storefront-api/internal/domain/order"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, cents int64) order.Money {
	t.Helper()
	m, err := order.NewMoney(cents)
	require.NoError(t, err)
	return m
}

func mustAddress(t *testing.T) order.ShippingAddress {
	t.Helper()
	a, err := order.NewShippingAddress("12 Nguyen Hue, District 1, HCMC")
	require.NoError(t, err)
	return a
}

func sampleItems() []order.Item {
	return []order.Item{
		{ProductID: uuid.New(), Name: "USB-C cable", Quantity: 2, UnitPriceCents: 100000},
	}
}

func TestNewOrder(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	t.Run("computes total as subtotal minus discount plus shipping", func(t *testing.T) {
		code := "SAVE10"
		o, err := order.NewOrder(
			uuid.New(),
			sampleItems(),
			mustMoney(t, 200000),
			mustMoney(t, 20000),
			mustMoney(t, 30000),
			&code,
			mustAddress(t),
			now,
		)
		require.NoError(t, err)

		assert.Equal(t, int64(200000), o.SubtotalCents())
		assert.Equal(t, int64(20000), o.DiscountCents())
		assert.Equal(t, int64(30000), o.ShippingCents())
		assert.Equal(t, int64(210000), o.TotalCents())
		assert.Equal(t, order.StatusPending, o.Status())
		assert.NotEqual(t, uuid.Nil, o.ID())
	})

	t.Run("order number carries the placement date", func(t *testing.T) {
		o, err := order.NewOrder(uuid.New(), sampleItems(),
			mustMoney(t, 200000), mustMoney(t, 0), mustMoney(t, 30000),
			nil, mustAddress(t), now)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(o.OrderNo(), "20250314-"), "got %q", o.OrderNo())
	})

	t.Run("discount larger than subtotal floors at shipping", func(t *testing.T) {
		o, err := order.NewOrder(uuid.New(), sampleItems(),
			mustMoney(t, 200000), mustMoney(t, 999999), mustMoney(t, 30000),
			nil, mustAddress(t), now)
		require.NoError(t, err)

		assert.Equal(t, int64(30000), o.TotalCents())
	})

	t.Run("rejects an order without items", func(t *testing.T) {
		_, err := order.NewOrder(uuid.New(), nil,
			mustMoney(t, 0), mustMoney(t, 0), mustMoney(t, 30000),
			nil, mustAddress(t), now)
		assert.ErrorIs(t, err, order.ErrNoItems)
	})
}

func TestOrderTransitionTo(t *testing.T) {
	newPending := func(t *testing.T) *order.Order {
		o, err := order.NewOrder(uuid.New(), sampleItems(),
			mustMoney(t, 200000), mustMoney(t, 0), mustMoney(t, 30000),
			nil, mustAddress(t), time.Now())
		require.NoError(t, err)
		return o
	}

	t.Run("follows the allowed path to fulfillment", func(t *testing.T) {
		o := newPending(t)
		require.NoError(t, o.TransitionTo(order.StatusPaid))
		require.NoError(t, o.TransitionTo(order.StatusFulfilled))
		assert.Equal(t, order.StatusFulfilled, o.Status())
	})

	t.Run("rejects skipping payment", func(t *testing.T) {
		o := newPending(t)
		err := o.TransitionTo(order.StatusFulfilled)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.StatusPending, o.Status())
	})

	t.Run("terminal states accept nothing", func(t *testing.T) {
		o := newPending(t)
		require.NoError(t, o.TransitionTo(order.StatusCanceled))
		assert.ErrorIs(t, o.TransitionTo(order.StatusPaid), order.ErrInvalidTransition)
	})
}

func TestOrderIsOwnedBy(t *testing.T) {
	userID := uuid.New()
	o, err := order.NewOrder(userID, sampleItems(),
		mustMoney(t, 100000), mustMoney(t, 0), mustMoney(t, 30000),
		nil, mustAddress(t), time.Now())
	require.NoError(t, err)

	assert.True(t, o.IsOwnedBy(userID))
	assert.False(t, o.IsOwnedBy(uuid.New()))
}

func TestMoney(t *testing.T) {
	_, err := order.NewMoney(-1)
	assert.Error(t, err)

	a := mustMoney(t, 100)
	b := mustMoney(t, 250)
	assert.Equal(t, int64(350), a.Add(b).Cents())
	assert.Equal(t, int64(150), b.Sub(a).Cents())
	assert.Equal(t, int64(0), a.Sub(b).Cents())
}

func TestShippingAddress(t *testing.T) {
	_, err := order.NewShippingAddress("")
	assert.Error(t, err)
}
