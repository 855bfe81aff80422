package response

import (
	"time"

	"storefront-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNo         string              `json:"orderNo"`
	UserID          uuid.UUID           `json:"userId"`
	Status          string              `json:"status"`
	SubtotalCents   int64               `json:"subtotalCents"`
	DiscountCents   int64               `json:"discountCents"`
	ShippingCents   int64               `json:"shippingCents"`
	TotalCents      int64               `json:"totalCents"`
	PromotionCode   *string             `json:"promotionCode,omitempty"`
	ShippingAddress string              `json:"shippingAddress"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

type OrderItemResponse struct {
	ProductID      uuid.UUID `json:"productId"`
	Name           string    `json:"name"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
}

type OrderListItemResponse struct {
	ID         uuid.UUID `json:"id"`
	OrderNo    string    `json:"orderNo"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"totalCents"`
	CreatedAt  time.Time `json:"createdAt"`
}

func FromOrderView(view *queries.OrderView) *OrderResponse {
	resp := &OrderResponse{}
	_ = copier.Copy(resp, view)
	if resp.Items == nil {
		resp.Items = []OrderItemResponse{}
	}
	return resp
}

func FromOrderList(items []*queries.OrderListItem) []*OrderListItemResponse {
	resp := make([]*OrderListItemResponse, len(items))
	for i, item := range items {
		r := &OrderListItemResponse{}
		_ = copier.Copy(r, item)
		resp[i] = r
	}
	return resp
}
