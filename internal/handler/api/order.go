package api

import (
	"errors"
	"net/http"

	reqdto "storefront-api/internal/handler/dto/request"
	resdto "storefront-api/internal/handler/dto/response"
	"storefront-api/internal/handler/middleware"
	"storefront-api/internal/pkg/errs"
	"storefront-api/internal/usecase/commands"
	"storefront-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	cmds commands.OrderCommands
	q    queries.OrderQueries
}

func NewOrderHandler(cmds commands.OrderCommands, q queries.OrderQueries) *OrderHandler {
	return &OrderHandler{cmds: cmds, q: q}
}

// @Summary Place order
// @Description Convert the active cart into an order, committing all reserved stock
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateOrderRequest true "Create order request"
// @Success 201 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.cmds.CreateOrder(c.Request.Context(), userID, commands.CreateOrderInput{
		PromotionCode:   req.PromotionCode,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidAddress):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Shipping address is required"})
		case errors.Is(err, errs.ErrInvalidPromotion):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promotion code"})
		case errors.Is(err, errs.ErrEmptyCart):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cart is empty"})
		case errors.Is(err, errs.ErrNotFound):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "A cart item no longer exists in the catalog"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromOrderView(view))
}

// @Summary List orders
// @Description List the current user's orders, newest first
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.OrderListItemResponse
// @Failure 401 {object} map[string]string
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	items, err := h.q.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromOrderList(items))
}

// @Summary Get order
// @Description Get one of the current user's orders by order number
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param orderNo path string true "Order number"
// @Success 200 {object} resdto.OrderResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{orderNo} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	view, err := h.q.GetForOwnerByNo(c.Request.Context(), userID, c.Param("orderNo"))
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}

// @Summary Cancel order
// @Description Cancel a pending order, returning its stock to the pool
// @Tags orders
// @Security BearerAuth
// @Param orderNo path string true "Order number"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{orderNo}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.cmds.CancelOrder(c.Request.Context(), userID, c.Param("orderNo")); err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, errs.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Order can no longer be canceled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
