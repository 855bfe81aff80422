package request

type CreateOrderRequest struct {
	ShippingAddress string  `json:"shipping_address" binding:"required"`
	PromotionCode   *string `json:"promotion_code"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
