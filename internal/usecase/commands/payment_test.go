//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"storefront-api/internal/domain/order"
	"storefront-api/internal/infra/psp"
	"storefront-api/internal/pkg/config"
	"storefront-api/internal/pkg/errs"
	"storefront-api/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeTestOrder(t *testing.T, uow *fakeUoW) *order.Order {
	t.Helper()
	addr, err := order.NewShippingAddress("12 Nguyen Hue, HCMC")
	require.NoError(t, err)
	subtotal, _ := order.NewMoney(200000)
	discount, _ := order.NewMoney(0)
	shipping, _ := order.NewMoney(30000)
	o, err := order.NewOrder(uuid.New(),
		[]order.Item{{ProductID: uuid.New(), Name: "cable", Quantity: 2, UnitPriceCents: 100000}},
		subtotal, discount, shipping, nil, addr, time.Now())
	require.NoError(t, err)
	_, err = uow.tx.orders.Create(context.Background(), o)
	require.NoError(t, err)
	return o
}

func paymentTestCfg() config.Config {
	cfg := config.NewTestConfig()
	cfg.Payment = config.PaymentConfig{
		BaseReturnURL:   "http://localhost:8080/api/payments/callback",
		VNPayTmnCode:    "TESTMERCHANT",
		VNPayHashSecret: "vnpay-test-secret",
		VNPayPayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
	}
	return cfg
}

func TestCreateIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending intent with a provider redirect", func(t *testing.T) {
		uow := newFakeUoW()
		cfg := paymentTestCfg()
		cmds := commands.NewPaymentCommands(uow, psp.NewRegistry(cfg), cfg)
		o := placeTestOrder(t, uow)

		result, err := cmds.CreateIntent(ctx, commands.CreateIntentInput{
			OrderID:        o.ID(),
			Provider:       "vnpay",
			IdempotencyKey: uuid.New(),
		})
		require.NoError(t, err)

		assert.False(t, result.IsReplayed)
		assert.Contains(t, result.RedirectURL, cfg.Payment.VNPayPayURL)
		assert.Contains(t, result.RedirectURL, "vnp_SecureHash=")

		intent, err := uow.tx.payments.FindIntentByID(ctx, result.IntentID)
		require.NoError(t, err)
		assert.Equal(t, o.TotalCents(), intent.AmountCents())
		assert.True(t, intent.IsPending())
	})

	t.Run("same idempotency key replays the same intent", func(t *testing.T) {
		uow := newFakeUoW()
		cfg := paymentTestCfg()
		cmds := commands.NewPaymentCommands(uow, psp.NewRegistry(cfg), cfg)
		o := placeTestOrder(t, uow)
		key := uuid.New()

		first, err := cmds.CreateIntent(ctx, commands.CreateIntentInput{
			OrderID: o.ID(), Provider: "vnpay", IdempotencyKey: key,
		})
		require.NoError(t, err)

		second, err := cmds.CreateIntent(ctx, commands.CreateIntentInput{
			OrderID: o.ID(), Provider: "vnpay", IdempotencyKey: key,
		})
		require.NoError(t, err)

		assert.True(t, second.IsReplayed)
		assert.Equal(t, first.IntentID, second.IntentID)
	})

	t.Run("unconfigured provider degrades to the fallback return URL", func(t *testing.T) {
		uow := newFakeUoW()
		cfg := config.NewTestConfig()
		cfg.Payment.BaseReturnURL = "http://localhost:8080/api/payments/callback"
		cmds := commands.NewPaymentCommands(uow, psp.NewRegistry(cfg), cfg)
		o := placeTestOrder(t, uow)

		result, err := cmds.CreateIntent(ctx, commands.CreateIntentInput{
			OrderID: o.ID(), Provider: "momo", IdempotencyKey: uuid.New(),
		})
		require.NoError(t, err)

		assert.Contains(t, result.RedirectURL, cfg.Payment.BaseReturnURL+"/momo")
		assert.Contains(t, result.RedirectURL, "intent_id="+result.IntentID.String())

		// The intent exists and stays pending despite the degraded redirect.
		intent, err := uow.tx.payments.FindIntentByID(ctx, result.IntentID)
		require.NoError(t, err)
		assert.True(t, intent.IsPending())
	})

	t.Run("missing idempotency key", func(t *testing.T) {
		uow := newFakeUoW()
		cfg := paymentTestCfg()
		cmds := commands.NewPaymentCommands(uow, psp.NewRegistry(cfg), cfg)

		_, err := cmds.CreateIntent(ctx, commands.CreateIntentInput{
			OrderID: uuid.New(), Provider: "vnpay",
		})
		assert.ErrorIs(t, err, errs.ErrIdempotencyKeyRequired)
	})

	t.Run("unknown provider", func(t *testing.T) {
		uow := newFakeUoW()
		cfg := paymentTestCfg()
		cmds := commands.NewPaymentCommands(uow, psp.NewRegistry(cfg), cfg)

		_, err := cmds.CreateIntent(ctx, commands.CreateIntentInput{
			OrderID: uuid.New(), Provider: "stripe", IdempotencyKey: uuid.New(),
		})
		assert.ErrorIs(t, err, errs.ErrUnknownProvider)
	})

	t.Run("unknown order", func(t *testing.T) {
		uow := newFakeUoW()
		cfg := paymentTestCfg()
		cmds := commands.NewPaymentCommands(uow, psp.NewRegistry(cfg), cfg)

		_, err := cmds.CreateIntent(ctx, commands.CreateIntentInput{
			OrderID: uuid.New(), Provider: "vnpay", IdempotencyKey: uuid.New(),
		})
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}
