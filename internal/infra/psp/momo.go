package psp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"storefront-api/internal/domain/order"
	"storefront-api/internal/domain/payment"
	"storefront-api/internal/pkg/config"
	"storefront-api/internal/pkg/errs"

	"github.com/google/uuid"
)

const ProviderMomo = "momo"

// momoProvider builds MoMo pay-with-link URLs. Unlike VNPay, MoMo signs a
// raw string with the fields in a fixed documented order, HMAC-SHA256.
type momoProvider struct {
	partnerCode string
	accessKey   string
	secretKey   string
	endpoint    string
	returnURL   string
}

func NewMomoProvider(cfg config.PaymentConfig) *momoProvider {
	return &momoProvider{
		partnerCode: cfg.MomoPartnerCode,
		accessKey:   cfg.MomoAccessKey,
		secretKey:   cfg.MomoSecretKey,
		endpoint:    cfg.MomoEndpoint,
		returnURL:   cfg.BaseReturnURL + "/" + ProviderMomo,
	}
}

func (m *momoProvider) Name() string { return ProviderMomo }

func (m *momoProvider) hasSecret() bool { return m.secretKey != "" }

func (m *momoProvider) BuildRedirect(intent *payment.Intent, o *order.Order) (string, error) {
	if !m.hasSecret() || m.partnerCode == "" || m.accessKey == "" {
		return "", errs.ErrProviderUnavailable
	}

	redirectURL := m.returnURL
	if custom := intent.ReturnURL(); custom != nil && *custom != "" {
		redirectURL = *custom
	}

	requestID := intent.ID().String()
	orderInfo := "Payment for order " + o.OrderNo()

	// Field order is fixed by the MoMo contract, not sorted.
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=captureWallet",
		m.accessKey, intent.AmountCents(), redirectURL, intent.ID().String(), orderInfo, m.partnerCode, redirectURL, requestID,
	)
	signature := hmacSHA256Hex(m.secretKey, raw)

	params := url.Values{}
	params.Set("partnerCode", m.partnerCode)
	params.Set("accessKey", m.accessKey)
	params.Set("requestId", requestID)
	params.Set("amount", fmt.Sprintf("%d", intent.AmountCents()))
	params.Set("orderId", intent.ID().String())
	params.Set("orderInfo", orderInfo)
	params.Set("redirectUrl", redirectURL)
	params.Set("ipnUrl", redirectURL)
	params.Set("requestType", "captureWallet")
	params.Set("signature", signature)

	return m.endpoint + "?" + params.Encode(), nil
}

func hmacSHA256Hex(secret, data string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

func (m *momoProvider) VerifyWebhook(payload []byte, signature string) bool {
	if !m.hasSecret() {
		return false
	}
	expected := hmacSHA256Hex(m.secretKey, string(payload))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

type momoWebhookPayload struct {
	OrderID    string `json:"orderId"`
	TransID    int64  `json:"transId"`
	ResultCode int    `json:"resultCode"`
}

func (m *momoProvider) ExtractWebhookReference(payload []byte) (uuid.UUID, string, error) {
	var body momoWebhookPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return uuid.Nil, "", errs.Wrap(err, "malformed momo webhook payload")
	}
	if body.ResultCode != 0 {
		return uuid.Nil, "", errs.New(fmt.Sprintf("momo reported failure code %d", body.ResultCode))
	}
	intentID, err := uuid.Parse(body.OrderID)
	if err != nil {
		return uuid.Nil, "", errs.Wrap(err, "orderId is not an intent id")
	}
	if body.TransID == 0 {
		return uuid.Nil, "", errs.New("transId missing")
	}
	return intentID, fmt.Sprintf("%d", body.TransID), nil
}

func (m *momoProvider) ExtractCallbackReference(query url.Values) (uuid.UUID, string, bool) {
	if !m.hasSecret() {
		return uuid.Nil, "", false
	}

	got := query.Get("signature")
	if got == "" || query.Get("resultCode") != "0" {
		return uuid.Nil, "", false
	}

	raw := fmt.Sprintf(
		"accessKey=%s&amount=%s&orderId=%s&resultCode=%s&transId=%s",
		m.accessKey, query.Get("amount"), query.Get("orderId"), query.Get("resultCode"), query.Get("transId"),
	)
	expected := hmacSHA256Hex(m.secretKey, raw)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(got))) {
		return uuid.Nil, "", false
	}

	intentID, err := uuid.Parse(query.Get("orderId"))
	if err != nil {
		return uuid.Nil, "", false
	}
	transactionID := query.Get("transId")
	if transactionID == "" {
		return uuid.Nil, "", false
	}
	return intentID, transactionID, true
}
