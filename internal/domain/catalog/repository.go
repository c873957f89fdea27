package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/shared"
)

// ProductRepository defines the persistence interface for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AdjustStock decrements stock by quantity in a single conditional
	// UPDATE. With clamp the result floors at zero; without it the call
	// fails with ErrInsufficientStock and writes nothing.
	AdjustStock(ctx context.Context, id uuid.UUID, quantity int64, clamp bool) error
}

// CategoryRepository defines the persistence interface for categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}
