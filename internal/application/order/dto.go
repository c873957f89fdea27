package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/order"
)

// ListOrdersRequest carries order-history paging parameters
type ListOrdersRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// ItemResponse is one charged order line
type ItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSlug string          `json:"product_slug"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID        uuid.UUID       `json:"id"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Items     []ItemResponse  `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderListResponse is the compact row used in order history
type OrderListResponse struct {
	ID        uuid.UUID       `json:"id"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToOrderResponse converts an order to an OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]ItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = ItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductSlug: item.ProductSlug,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return OrderResponse{
		ID:        o.ID,
		Status:    o.Status.String(),
		Total:     o.Total,
		Items:     items,
		CreatedAt: o.CreatedAt,
	}
}

// ToOrderListResponse converts an order to its history row
func ToOrderListResponse(o *order.Order) OrderListResponse {
	return OrderListResponse{
		ID:        o.ID,
		Status:    o.Status.String(),
		Total:     o.Total,
		ItemCount: len(o.Items),
		CreatedAt: o.CreatedAt,
	}
}
