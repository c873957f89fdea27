package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemRequest represents a request to add a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents a request to change a line quantity
type UpdateItemRequest struct {
	Quantity int64 `json:"quantity" binding:"required,min=1"`
}

// ItemResponse is one priced cart line
type ItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSlug string          `json:"product_slug"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int64           `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartResponse is the full cart view with line subtotals and a total
// computed from current catalog prices
type CartResponse struct {
	Items []ItemResponse  `json:"items"`
	Total decimal.Decimal `json:"total"`
}
