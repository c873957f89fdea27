package catalog

import (
	"strings"
	"time"

	"github.com/shop/backend/internal/domain/shared"
)

// Category groups products for browsing
type Category struct {
	shared.BaseAggregateRoot
	Name string `gorm:"type:varchar(100);not null"`
	Slug string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name, slug string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot exceed 100 characters")
	}
	slug = strings.ToLower(slug)
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
	}, nil
}

// Rename updates the category name
func (c *Category) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot be empty")
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	return nil
}
