package checkout

import (
	"time"

	"github.com/shop/backend/internal/domain/order"
)

// PlaceOrderResponse is the confirmation returned to the presentation
// layer after a successful checkout
type PlaceOrderResponse struct {
	OrderID   string                   `json:"order_id"`
	Status    string                   `json:"status"`
	Total     float64                  `json:"total"`
	Items     []PlaceOrderItemResponse `json:"items"`
	CreatedAt time.Time                `json:"created_at"`
}

// PlaceOrderItemResponse is one charged line in the confirmation
type PlaceOrderItemResponse struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

// ToPlaceOrderResponse converts an order to a PlaceOrderResponse
func ToPlaceOrderResponse(o *order.Order) PlaceOrderResponse {
	items := make([]PlaceOrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = PlaceOrderItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.InexactFloat64(),
			Amount:      item.Amount.InexactFloat64(),
		}
	}
	return PlaceOrderResponse{
		OrderID:   o.ID.String(),
		Status:    o.Status.String(),
		Total:     o.Total.InexactFloat64(),
		Items:     items,
		CreatedAt: o.CreatedAt,
	}
}
