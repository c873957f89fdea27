package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Product represents a product in the catalog
// It is the aggregate root for catalog operations. Stock is mutated only
// by the checkout workflow at order time.
type Product struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null"`
	Slug        string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Stock       int64           `gorm:"not null;default:0"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Status      ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, slug string, price valueobject.Money) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	// canonicalize before validating; ValidateSlug itself is strict
	slug = strings.ToLower(slug)
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Price:             price.Amount(),
		Stock:             0,
		Status:            ProductStatusActive,
	}, nil
}

// GetPriceMoney returns the current selling price as a Money value object
func (p *Product) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyINR(p.Price)
}

// UpdatePrice changes the selling price. Existing order items keep their
// price-at-purchase snapshot and are unaffected.
func (p *Product) UpdatePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	p.Price = price.Amount()
	p.UpdatedAt = time.Now()
	return nil
}

// UpdateDetails updates the product name and description
func (p *Product) UpdateDetails(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	return nil
}

// SetStock replaces the stock level (catalog administration only)
func (p *Product) SetStock(stock int64) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	p.Stock = stock
	p.UpdatedAt = time.Now()
	return nil
}

// DecrementStock reduces stock by the purchased quantity.
// When clamp is true the result floors at zero (oversold carts do not
// fail); otherwise insufficient stock is an error and nothing changes.
func (p *Product) DecrementStock(quantity int64, clamp bool) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.Stock < quantity {
		if !clamp {
			return shared.ErrInsufficientStock
		}
		p.Stock = 0
	} else {
		p.Stock -= quantity
	}
	p.UpdatedAt = time.Now()
	return nil
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
}

// Activate makes the product purchasable again
func (p *Product) Activate() {
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
}

// IsActive returns true if the product can be browsed and purchased
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// ValidateSlug checks that a slug is URL-safe
func ValidateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len(slug) > 200 {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 200 characters")
	}
	if !slugPattern.MatchString(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug must contain only lowercase letters, digits and hyphens")
	}
	return nil
}
