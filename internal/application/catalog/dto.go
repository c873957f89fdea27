package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Slug        string          `json:"slug" binding:"required,slug,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       *int64          `json:"stock"`
	CategoryID  *uuid.UUID      `json:"category_id"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int64           `json:"stock"`
	CategoryID  *uuid.UUID       `json:"category_id"`
}

// ListProductsRequest carries storefront browse parameters
type ListProductsRequest struct {
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
	Search       string `form:"search"`
	CategorySlug string `form:"category"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
	Slug string `json:"slug" binding:"required,slug,max=100"`
}

// ToProductResponse converts a product to a ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToCategoryResponse converts a category to a CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:   c.ID,
		Name: c.Name,
		Slug: c.Slug,
	}
}
