package request

import "github.com/google/uuid"

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int32     `json:"quantity" binding:"required"`
}

// Quantity is a pointer so zero survives binding; zero means remove the line.
type UpdateCartItemRequest struct {
	Quantity *int32 `json:"quantity" binding:"required"`
}
