//go:build unit

package psp_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"testing"

	"storefront-api/internal/domain/payment"
	"storefront-api/internal/infra/psp"
	"storefront-api/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func momoTestConfig() config.PaymentConfig {
	return config.PaymentConfig{
		BaseReturnURL:   "http://localhost:8080/api/payments/callback",
		MomoPartnerCode: "MOMOTEST",
		MomoAccessKey:   "access-key",
		MomoSecretKey:   "momo-test-secret",
		MomoEndpoint:    "https://test-payment.momo.vn/v2/gateway/api/create",
	}
}

func sign256(secret, data string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestMomoBuildRedirect(t *testing.T) {
	cfg := momoTestConfig()
	provider := psp.NewMomoProvider(cfg)
	o := testOrder(t)
	intent := payment.NewIntent(o.ID(), provider.Name(), o.TotalCents(), uuid.New(), nil)

	redirect, err := provider.BuildRedirect(intent, o)
	require.NoError(t, err)

	parsed, err := url.Parse(redirect)
	require.NoError(t, err)
	query := parsed.Query()

	assert.Equal(t, "MOMOTEST", query.Get("partnerCode"))
	assert.Equal(t, intent.ID().String(), query.Get("orderId"))
	assert.Equal(t, fmt.Sprintf("%d", o.TotalCents()), query.Get("amount"))

	// Signature covers the documented field order, not the sorted query.
	redirectURL := cfg.BaseReturnURL + "/momo"
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=captureWallet",
		cfg.MomoAccessKey, o.TotalCents(), redirectURL, intent.ID().String(),
		"Payment for order "+o.OrderNo(), cfg.MomoPartnerCode, redirectURL, intent.ID().String(),
	)
	assert.Equal(t, sign256(cfg.MomoSecretKey, raw), query.Get("signature"))
}

func TestMomoVerifyWebhook(t *testing.T) {
	cfg := momoTestConfig()
	provider := psp.NewMomoProvider(cfg)
	payload := []byte(`{"orderId":"x","transId":123,"resultCode":0}`)

	assert.True(t, provider.VerifyWebhook(payload, sign256(cfg.MomoSecretKey, string(payload))))
	assert.False(t, provider.VerifyWebhook(payload, sign256("wrong", string(payload))))
}

func TestMomoExtractWebhookReference(t *testing.T) {
	provider := psp.NewMomoProvider(momoTestConfig())
	intentID := uuid.New()

	t.Run("success payload", func(t *testing.T) {
		payload := fmt.Sprintf(`{"orderId":%q,"transId":2147483647123,"resultCode":0}`, intentID)
		gotID, txID, err := provider.ExtractWebhookReference([]byte(payload))
		require.NoError(t, err)
		assert.Equal(t, intentID, gotID)
		assert.Equal(t, "2147483647123", txID)
	})

	t.Run("failure result code", func(t *testing.T) {
		payload := fmt.Sprintf(`{"orderId":%q,"transId":1,"resultCode":1006}`, intentID)
		_, _, err := provider.ExtractWebhookReference([]byte(payload))
		assert.Error(t, err)
	})
}

func TestMomoExtractCallbackReference(t *testing.T) {
	cfg := momoTestConfig()
	provider := psp.NewMomoProvider(cfg)
	intentID := uuid.New()

	buildQuery := func(secret string) url.Values {
		q := url.Values{}
		q.Set("orderId", intentID.String())
		q.Set("transId", "99887766")
		q.Set("resultCode", "0")
		q.Set("amount", "210000")

		raw := fmt.Sprintf("accessKey=%s&amount=%s&orderId=%s&resultCode=%s&transId=%s",
			cfg.MomoAccessKey, q.Get("amount"), q.Get("orderId"), q.Get("resultCode"), q.Get("transId"))
		q.Set("signature", sign256(secret, raw))
		return q
	}

	t.Run("valid signature", func(t *testing.T) {
		gotID, txID, ok := provider.ExtractCallbackReference(buildQuery(cfg.MomoSecretKey))
		require.True(t, ok)
		assert.Equal(t, intentID, gotID)
		assert.Equal(t, "99887766", txID)
	})

	t.Run("tampered signature", func(t *testing.T) {
		_, _, ok := provider.ExtractCallbackReference(buildQuery("wrong"))
		assert.False(t, ok)
	})
}

func TestRegistry(t *testing.T) {
	cfg := config.Config{Payment: momoTestConfig()}
	registry := psp.NewRegistry(cfg)

	p, err := registry.Get("momo")
	require.NoError(t, err)
	assert.Equal(t, "momo", p.Name())

	p, err = registry.Get("VNPay")
	require.NoError(t, err)
	assert.Equal(t, "vnpay", p.Name())

	_, err = registry.Get("stripe")
	assert.Error(t, err)
}
