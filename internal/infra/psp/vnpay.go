package psp

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"storefront-api/internal/domain/order"
	"storefront-api/internal/domain/payment"
	"storefront-api/internal/pkg/config"
	"storefront-api/internal/pkg/errs"

	"github.com/google/uuid"
)

const ProviderVNPay = "vnpay"

// vnpayProvider builds VNPay hosted-checkout URLs. VNPay signs the
// URL-encoded query with the parameters in byte order of their names,
// HMAC-SHA512 over the encoded string.
type vnpayProvider struct {
	tmnCode    string
	hashSecret string
	payURL     string
	returnURL  string
}

func NewVNPayProvider(cfg config.PaymentConfig) *vnpayProvider {
	return &vnpayProvider{
		tmnCode:    cfg.VNPayTmnCode,
		hashSecret: cfg.VNPayHashSecret,
		payURL:     cfg.VNPayPayURL,
		returnURL:  cfg.BaseReturnURL + "/" + ProviderVNPay,
	}
}

func (v *vnpayProvider) Name() string { return ProviderVNPay }

func (v *vnpayProvider) hasSecret() bool { return v.hashSecret != "" }

func (v *vnpayProvider) BuildRedirect(intent *payment.Intent, o *order.Order) (string, error) {
	if !v.hasSecret() || v.tmnCode == "" {
		return "", errs.ErrProviderUnavailable
	}

	returnURL := v.returnURL
	if custom := intent.ReturnURL(); custom != nil && *custom != "" {
		returnURL = *custom
	}

	params := url.Values{}
	params.Set("vnp_Version", "2.1.0")
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", v.tmnCode)
	// VNPay expects the amount multiplied by 100.
	params.Set("vnp_Amount", fmt.Sprintf("%d", intent.AmountCents()*100))
	params.Set("vnp_CurrCode", "VND")
	params.Set("vnp_TxnRef", intent.ID().String())
	params.Set("vnp_OrderInfo", "Payment for order "+o.OrderNo())
	params.Set("vnp_OrderType", "other")
	params.Set("vnp_Locale", "vn")
	params.Set("vnp_ReturnUrl", returnURL)
	params.Set("vnp_CreateDate", time.Now().Format("20060102150405"))

	signed := signedQuery(params, v.hashSecret)
	return v.payURL + "?" + signed, nil
}

// signedQuery encodes the params sorted by name and appends vnp_SecureHash
// computed over the encoded string.
func signedQuery(params url.Values, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params.Get(k)))
	}
	encoded := b.String()

	return encoded + "&vnp_SecureHash=" + hmacSHA512Hex(secret, encoded)
}

func hmacSHA512Hex(secret, data string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

func (v *vnpayProvider) VerifyWebhook(payload []byte, signature string) bool {
	if !v.hasSecret() {
		return false
	}
	expected := hmacSHA512Hex(v.hashSecret, string(payload))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

type vnpayWebhookPayload struct {
	TxnRef        string `json:"vnp_TxnRef"`
	TransactionNo string `json:"vnp_TransactionNo"`
	ResponseCode  string `json:"vnp_ResponseCode"`
}

func (v *vnpayProvider) ExtractWebhookReference(payload []byte) (uuid.UUID, string, error) {
	var body vnpayWebhookPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return uuid.Nil, "", errs.Wrap(err, "malformed vnpay webhook payload")
	}
	if body.ResponseCode != "00" {
		return uuid.Nil, "", errs.New("vnpay reported failure code " + body.ResponseCode)
	}
	intentID, err := uuid.Parse(body.TxnRef)
	if err != nil {
		return uuid.Nil, "", errs.Wrap(err, "vnp_TxnRef is not an intent id")
	}
	if body.TransactionNo == "" {
		return uuid.Nil, "", errs.New("vnp_TransactionNo missing")
	}
	return intentID, body.TransactionNo, nil
}

// ExtractCallbackReference validates the signed return query. The hash is
// computed over the sorted params without vnp_SecureHash itself.
func (v *vnpayProvider) ExtractCallbackReference(query url.Values) (uuid.UUID, string, bool) {
	if !v.hasSecret() {
		return uuid.Nil, "", false
	}

	got := query.Get("vnp_SecureHash")
	if got == "" || query.Get("vnp_ResponseCode") != "00" {
		return uuid.Nil, "", false
	}

	unsigned := url.Values{}
	for k, vals := range query {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" || len(vals) == 0 {
			continue
		}
		unsigned.Set(k, vals[0])
	}

	keys := make([]string, 0, len(unsigned))
	for k := range unsigned {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(unsigned.Get(k)))
	}
	expected := hmacSHA512Hex(v.hashSecret, b.String())
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(got))) {
		return uuid.Nil, "", false
	}

	intentID, err := uuid.Parse(query.Get("vnp_TxnRef"))
	if err != nil {
		return uuid.Nil, "", false
	}
	transactionID := query.Get("vnp_TransactionNo")
	if transactionID == "" {
		return uuid.Nil, "", false
	}
	return intentID, transactionID, true
}
