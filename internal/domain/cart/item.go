package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/shared"
)

// Item is one cart line: a product and the quantity awaiting purchase.
// The (owner, product) pair is unique; adding the same product again
// increments the existing line.
type Item struct {
	shared.BaseEntity
	UserID    *uuid.UUID `gorm:"type:uuid;index:idx_cart_owner_product,unique,priority:1"`
	ProductID uuid.UUID  `gorm:"type:uuid;not null;index:idx_cart_owner_product,unique,priority:2"`
	Quantity  int64      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "cart_items"
}

// NewItem creates a cart line for a product
func NewItem(productID uuid.UUID, quantity int64) (*Item, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	return &Item{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Quantity:   quantity,
	}, nil
}

// IncreaseQuantity adds to the line quantity
func (i *Item) IncreaseQuantity(delta int64) error {
	if delta < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	i.Quantity += delta
	i.UpdatedAt = time.Now()
	return nil
}

// SetQuantity replaces the line quantity
func (i *Item) SetQuantity(quantity int64) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	i.Quantity = quantity
	i.UpdatedAt = time.Now()
	return nil
}
