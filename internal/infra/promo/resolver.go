// Package promo resolves promotion codes against the configured table.
// The table is operator-supplied via environment, which keeps promotion
// management out of the database for now.
package promo

import (
	"context"
	"strconv"
	"strings"

	"storefront-api/internal/pkg/config"
	"storefront-api/internal/pkg/errs"
	"storefront-api/internal/usecase/commands"
)

// amountPrefix marks an absolute discount, e.g. "FLAT20K:amt20000".
// A bare number is a percentage, e.g. "SAVE10:10".
const amountPrefix = "amt"

type envResolver struct {
	table map[string]string
}

func NewEnvResolver(cfg config.Config) commands.DiscountResolver {
	return &envResolver{table: cfg.Checkout.PromotionTable}
}

func (r *envResolver) Validate(_ context.Context, code string) (*commands.Promotion, error) {
	raw, ok := r.table[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, errs.ErrInvalidPromotion
	}

	if rest, found := strings.CutPrefix(raw, amountPrefix); found {
		cents, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || cents <= 0 {
			return nil, errs.ErrInvalidPromotion
		}
		return &commands.Promotion{Code: code, AmountOffCents: &cents}, nil
	}

	percent, err := strconv.ParseFloat(raw, 64)
	if err != nil || percent <= 0 || percent > 100 {
		return nil, errs.ErrInvalidPromotion
	}
	return &commands.Promotion{Code: code, PercentOff: &percent}, nil
}

// ComputeDiscount never returns more than the subtotal; the order total
// floors at shipping, not below zero.
func (r *envResolver) ComputeDiscount(promo *commands.Promotion, subtotalCents int64) int64 {
	if promo == nil {
		return 0
	}

	var discount int64
	switch {
	case promo.PercentOff != nil:
		discount = int64(float64(subtotalCents) * *promo.PercentOff / 100)
	case promo.AmountOffCents != nil:
		discount = *promo.AmountOffCents
	}

	if discount > subtotalCents {
		return subtotalCents
	}
	if discount < 0 {
		return 0
	}
	return discount
}
