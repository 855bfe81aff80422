package api

import (
	"errors"
	"net/http"

	"storefront-api/internal/domain/order"
	reqdto "storefront-api/internal/handler/dto/request"
	"storefront-api/internal/pkg/errs"
	"storefront-api/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	orders    commands.OrderCommands
	inventory commands.InventoryCommands
}

func NewAdminHandler(orders commands.OrderCommands, inventory commands.InventoryCommands) *AdminHandler {
	return &AdminHandler{orders: orders, inventory: inventory}
}

// @Summary Update order status
// @Description Move an order along the fulfillment path (fulfill, refund)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orderNo path string true "Order number"
// @Param request body reqdto.UpdateOrderStatusRequest true "Target status"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/orders/{orderNo}/status [patch]
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req reqdto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), c.Param("orderNo"), order.Status(req.Status)); err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, errs.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Invalid status transition"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Adjust inventory
// @Description Apply a signed stock correction for a product
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Param request body reqdto.AdjustInventoryRequest true "Adjustment"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/inventory/{productId}/adjust [post]
func (h *AdminHandler) AdjustInventory(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	var req reqdto.AdjustInventoryRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.inventory.Adjust(c.Request.Context(), productID, req.Delta, req.Reason); err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Delta cannot be zero"})
		case errors.Is(err, errs.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, errs.ErrOutOfStock):
			c.JSON(http.StatusConflict, gin.H{"error": "Write-off exceeds unreserved stock"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
