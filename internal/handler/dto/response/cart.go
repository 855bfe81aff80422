package response

import (
	"storefront-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type CartResponse struct {
	ID            uuid.UUID          `json:"id"`
	OwnerID       uuid.UUID          `json:"ownerId"`
	Status        string             `json:"status"`
	Items         []CartItemResponse `json:"items"`
	SubtotalCents int64              `json:"subtotalCents"`
}

type CartItemResponse struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"productId"`
	ProductName    string    `json:"productName"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	LineTotalCents int64     `json:"lineTotalCents"`
}

func FromCartView(view *queries.CartView) *CartResponse {
	resp := &CartResponse{}
	_ = copier.Copy(resp, view)
	if resp.Items == nil {
		resp.Items = []CartItemResponse{}
	}
	return resp
}
