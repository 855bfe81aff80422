//go:build unit

package promo_test

import (
	"context"
	"testing"

	"storefront-api/internal/infra/promo"
	"storefront-api/internal/pkg/config"
	"storefront-api/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	cfg := config.Config{}
	cfg.Checkout.PromotionTable = map[string]string{
		"SAVE10":  "10",
		"FLAT20K": "amt20000",
		"BROKEN":  "ten",
		"TOOMUCH": "150",
	}
	r := promo.NewEnvResolver(cfg)
	ctx := context.Background()

	t.Run("percent code", func(t *testing.T) {
		p, err := r.Validate(ctx, "SAVE10")
		require.NoError(t, err)
		require.NotNil(t, p.PercentOff)
		assert.Equal(t, 10.0, *p.PercentOff)
		assert.Nil(t, p.AmountOffCents)
	})

	t.Run("amount code", func(t *testing.T) {
		p, err := r.Validate(ctx, "FLAT20K")
		require.NoError(t, err)
		require.NotNil(t, p.AmountOffCents)
		assert.Equal(t, int64(20000), *p.AmountOffCents)
	})

	t.Run("lookup is case and whitespace tolerant", func(t *testing.T) {
		_, err := r.Validate(ctx, " save10 ")
		assert.NoError(t, err)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := r.Validate(ctx, "NOPE")
		assert.ErrorIs(t, err, errs.ErrInvalidPromotion)
	})

	t.Run("malformed values are invalid", func(t *testing.T) {
		_, err := r.Validate(ctx, "BROKEN")
		assert.ErrorIs(t, err, errs.ErrInvalidPromotion)

		_, err = r.Validate(ctx, "TOOMUCH")
		assert.ErrorIs(t, err, errs.ErrInvalidPromotion)
	})
}

func TestComputeDiscount(t *testing.T) {
	cfg := config.Config{}
	cfg.Checkout.PromotionTable = map[string]string{"SAVE10": "10", "FLAT20K": "amt20000"}
	r := promo.NewEnvResolver(cfg)
	ctx := context.Background()

	t.Run("percent of subtotal", func(t *testing.T) {
		p, err := r.Validate(ctx, "SAVE10")
		require.NoError(t, err)
		assert.Equal(t, int64(20000), r.ComputeDiscount(p, 200000))
	})

	t.Run("amount off", func(t *testing.T) {
		p, err := r.Validate(ctx, "FLAT20K")
		require.NoError(t, err)
		assert.Equal(t, int64(20000), r.ComputeDiscount(p, 200000))
	})

	t.Run("amount clamps at subtotal", func(t *testing.T) {
		p, err := r.Validate(ctx, "FLAT20K")
		require.NoError(t, err)
		assert.Equal(t, int64(15000), r.ComputeDiscount(p, 15000))
	})

	t.Run("nil promotion is zero", func(t *testing.T) {
		assert.Equal(t, int64(0), r.ComputeDiscount(nil, 200000))
	})
}
