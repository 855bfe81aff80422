package request

import "github.com/google/uuid"

type CreatePaymentIntentRequest struct {
	OrderID   uuid.UUID `json:"order_id" binding:"required"`
	Provider  string    `json:"provider" binding:"required"`
	ReturnURL *string   `json:"return_url"`
}
