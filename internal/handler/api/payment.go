package api

import (
	"errors"
	"io"
	"net/http"

	reqdto "storefront-api/internal/handler/dto/request"
	resdto "storefront-api/internal/handler/dto/response"
	"storefront-api/internal/pkg/errs"
	"storefront-api/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	cmds       commands.PaymentCommands
	settlement commands.SettlementCommands
}

func NewPaymentHandler(cmds commands.PaymentCommands, settlement commands.SettlementCommands) *PaymentHandler {
	return &PaymentHandler{cmds: cmds, settlement: settlement}
}

// @Summary Create payment intent
// @Description Create or replay a payment intent for an order
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreatePaymentIntentRequest true "Payment intent request"
// @Success 201 {object} resdto.PaymentIntentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /payments/intents [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	idempotencyKey, err := h.getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req reqdto.CreatePaymentIntentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.cmds.CreateIntent(c.Request.Context(), commands.CreateIntentInput{
		OrderID:        req.OrderID,
		Provider:       req.Provider,
		IdempotencyKey: idempotencyKey,
		ReturnURL:      req.ReturnURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrUnknownProvider):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment provider"})
		case errors.Is(err, errs.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromCreateIntentResult(result))
}

// Callback handles the synchronous browser return from the provider. The
// user lands here after paying; settlement is attempted opportunistically
// and the authoritative webhook covers the case where it fails.
//
// @Summary Payment return callback
// @Description Handle the browser redirect back from the payment provider
// @Tags payments
// @Produce json
// @Param provider path string true "Provider name"
// @Success 200 {object} map[string]any
// @Router /payments/callback/{provider} [get]
func (h *PaymentHandler) Callback(c *gin.Context) {
	settled := h.settlement.HandleReturnCallback(c.Request.Context(), c.Param("provider"), c.Request.URL.Query())
	c.JSON(http.StatusOK, gin.H{"settled": settled})
}

// Webhook is the authoritative settlement channel. The response is always
// success-shaped: providers retry on anything else, and a rejected
// signature must not behave differently from an accepted one.
//
// @Summary Payment webhook
// @Description Receive an asynchronous settlement notification
// @Tags payments
// @Accept json
// @Produce json
// @Param provider path string true "Provider name"
// @Success 200 {object} map[string]bool
// @Router /payments/webhook/{provider} [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	signature := c.GetHeader("X-Signature")
	h.settlement.HandleWebhook(c.Request.Context(), c.Param("provider"), payload, signature)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *PaymentHandler) getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errs.ErrIdempotencyKeyRequired
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}

	return key, nil
}
