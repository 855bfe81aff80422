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
	"github.com/google/uuid"
)

type CartHandler struct {
	cmds commands.CartCommands
	q    queries.CartQueries
}

func NewCartHandler(cmds commands.CartCommands, q queries.CartQueries) *CartHandler {
	return &CartHandler{cmds: cmds, q: q}
}

// @Summary Get cart
// @Description Get the current user's active cart with computed totals
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CartResponse
// @Failure 401 {object} map[string]string
// @Router /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	view, err := h.q.GetCartWithTotals(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromCartView(view))
}

// @Summary Add cart item
// @Description Add a product to the cart, reserving stock for it
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AddCartItemRequest true "Add item request"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.cmds.AddItem(c.Request.Context(), userID, req.ProductID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
		case errors.Is(err, errs.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, errs.ErrOutOfStock):
			c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	h.respondCart(c, userID)
}

// @Summary Update cart item
// @Description Change a cart line's quantity; zero removes the line
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Cart item ID"
// @Param request body reqdto.UpdateCartItemRequest true "Update item request"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /cart/items/{id} [patch]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID format"})
		return
	}

	var req reqdto.UpdateCartItemRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.cmds.UpdateItem(c.Request.Context(), userID, itemID, *req.Quantity); err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity cannot be negative"})
		case errors.Is(err, errs.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		case errors.Is(err, errs.ErrOutOfStock):
			c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	h.respondCart(c, userID)
}

// @Summary Remove cart item
// @Description Remove a line from the cart, releasing its reservation
// @Tags cart
// @Security BearerAuth
// @Param id path string true "Cart item ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID format"})
		return
	}

	if err := h.cmds.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Clear cart
// @Description Remove every line from the cart, releasing all reservations
// @Tags cart
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string
// @Router /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.cmds.ClearCart(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CartHandler) respondCart(c *gin.Context, userID uuid.UUID) {
	view, err := h.q.GetCartWithTotals(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromCartView(view))
}
