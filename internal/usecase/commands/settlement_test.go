//go:build unit

package commands_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"testing"

	"storefront-api/internal/domain/order"
	"storefront-api/internal/domain/payment"
	"storefront-api/internal/infra/psp"
	"storefront-api/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settlementFixture struct {
	uow  *fakeUoW
	cmds commands.SettlementCommands
	o    *order.Order
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()
	uow := newFakeUoW()
	cfg := paymentTestCfg()
	return &settlementFixture{
		uow:  uow,
		cmds: commands.NewSettlementCommands(uow, psp.NewRegistry(cfg)),
		o:    placeTestOrder(t, uow),
	}
}

func (f *settlementFixture) pendingIntent(t *testing.T) *payment.Intent {
	t.Helper()
	intent := payment.NewIntent(f.o.ID(), "vnpay", f.o.TotalCents(), uuid.New(), nil)
	require.NoError(t, f.uow.tx.payments.CreateIntent(context.Background(), intent))
	return intent
}

func TestMarkPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("settles the intent and moves the order to paid", func(t *testing.T) {
		f := newSettlementFixture(t)
		intent := f.pendingIntent(t)

		require.NoError(t, f.cmds.MarkPaid(ctx, "vnpay", intent.ID(), "14422574"))

		assert.Equal(t, payment.IntentSucceeded, intent.Status())
		assert.Equal(t, order.StatusPaid, f.o.Status())

		rec, err := f.uow.tx.payments.FindPaymentByTransactionID(ctx, "vnpay", "14422574")
		require.NoError(t, err)
		assert.Equal(t, f.o.TotalCents(), rec.AmountCents)
	})

	t.Run("replayed transaction is a no-op success", func(t *testing.T) {
		f := newSettlementFixture(t)
		intent := f.pendingIntent(t)

		require.NoError(t, f.cmds.MarkPaid(ctx, "vnpay", intent.ID(), "14422574"))
		require.NoError(t, f.cmds.MarkPaid(ctx, "vnpay", intent.ID(), "14422574"))

		assert.Equal(t, order.StatusPaid, f.o.Status())
		assert.Len(t, f.uow.tx.payments.payments, 1, "replay must not record a second settlement")
	})

	t.Run("unknown intent", func(t *testing.T) {
		f := newSettlementFixture(t)
		assert.Error(t, f.cmds.MarkPaid(ctx, "vnpay", uuid.New(), "tx-1"))
	})

	t.Run("provider mismatch reads as not found", func(t *testing.T) {
		f := newSettlementFixture(t)
		intent := f.pendingIntent(t)
		assert.Error(t, f.cmds.MarkPaid(ctx, "momo", intent.ID(), "tx-1"))
	})
}

func TestHandleWebhook(t *testing.T) {
	ctx := context.Background()
	secret := "vnpay-test-secret"

	signedPayload := func(intentID uuid.UUID, txID string) ([]byte, string) {
		payload := fmt.Sprintf(`{"vnp_TxnRef":%q,"vnp_TransactionNo":%q,"vnp_ResponseCode":"00"}`, intentID, txID)
		mac := hmac.New(sha512.New, []byte(secret))
		mac.Write([]byte(payload))
		return []byte(payload), hex.EncodeToString(mac.Sum(nil))
	}

	t.Run("verified webhook settles the intent", func(t *testing.T) {
		f := newSettlementFixture(t)
		intent := f.pendingIntent(t)
		payload, signature := signedPayload(intent.ID(), "14422574")

		f.cmds.HandleWebhook(ctx, "vnpay", payload, signature)

		assert.Equal(t, payment.IntentSucceeded, intent.Status())
		assert.Equal(t, order.StatusPaid, f.o.Status())
	})

	t.Run("bad signature changes nothing", func(t *testing.T) {
		f := newSettlementFixture(t)
		intent := f.pendingIntent(t)
		payload, _ := signedPayload(intent.ID(), "14422574")

		f.cmds.HandleWebhook(ctx, "vnpay", payload, "deadbeef")

		assert.True(t, intent.IsPending())
		assert.Equal(t, order.StatusPending, f.o.Status())
		assert.Empty(t, f.uow.tx.payments.payments)
	})

	t.Run("unknown provider is absorbed", func(t *testing.T) {
		f := newSettlementFixture(t)
		f.cmds.HandleWebhook(ctx, "stripe", []byte("{}"), "sig")
		assert.Equal(t, order.StatusPending, f.o.Status())
	})

	t.Run("duplicate delivery settles once", func(t *testing.T) {
		f := newSettlementFixture(t)
		intent := f.pendingIntent(t)
		payload, signature := signedPayload(intent.ID(), "14422574")

		f.cmds.HandleWebhook(ctx, "vnpay", payload, signature)
		f.cmds.HandleWebhook(ctx, "vnpay", payload, signature)

		assert.Len(t, f.uow.tx.payments.payments, 1)
	})
}

// signVNPayQuery mirrors the gateway's return-URL signing: HMAC-SHA512
// over the name-sorted URL-encoded params, appended as vnp_SecureHash.
func signVNPayQuery(params map[string]string, secret string) url.Values {
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
		b.WriteString(url.QueryEscape(params[k]))
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(b.String()))

	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	query.Set("vnp_SecureHash", hex.EncodeToString(mac.Sum(nil)))
	return query
}

func TestHandleReturnCallback(t *testing.T) {
	ctx := context.Background()

	t.Run("signed return query settles opportunistically", func(t *testing.T) {
		f := newSettlementFixture(t)
		intent := f.pendingIntent(t)

		unsigned := map[string]string{
			"vnp_TxnRef":        intent.ID().String(),
			"vnp_TransactionNo": "14422574",
			"vnp_ResponseCode":  "00",
		}
		query := signVNPayQuery(unsigned, "vnpay-test-secret")

		assert.True(t, f.cmds.HandleReturnCallback(ctx, "vnpay", query))
		assert.Equal(t, order.StatusPaid, f.o.Status())
	})

	t.Run("tampered query is ignored", func(t *testing.T) {
		f := newSettlementFixture(t)
		intent := f.pendingIntent(t)

		unsigned := map[string]string{
			"vnp_TxnRef":        intent.ID().String(),
			"vnp_TransactionNo": "14422574",
			"vnp_ResponseCode":  "00",
		}
		query := signVNPayQuery(unsigned, "wrong-secret")

		assert.False(t, f.cmds.HandleReturnCallback(ctx, "vnpay", query))
		assert.True(t, intent.IsPending())
	})
}
