package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySlug finds a product by its URL slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll returns products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	err := r.applyFilter(r.db.WithContext(ctx), filter).
		Order(sortClause(filter.OrderBy, filter.OrderDir, productSortFields, "created_at")).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// FindByCategory returns products in a category matching the filter
func (r *GormProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	err := r.applyFilter(r.db.WithContext(ctx), filter).
		Where("category_id = ?", categoryID).
		Order(sortClause(filter.OrderBy, filter.OrderDir, productSortFields, "created_at")).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Count returns the number of products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter).
		Count(&count).Error
	return count, err
}

// Save persists a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes a product by ID
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AdjustStock decrements stock atomically in a single conditional UPDATE.
// With clamp the stock floors at zero; without it the update only applies
// when enough stock remains, and an unmatched row means either a missing
// product or insufficient stock.
func (r *GormProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, quantity int64, clamp bool) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	db := r.db.WithContext(ctx).Model(&catalog.Product{})

	if clamp {
		result := db.Where("id = ?", id).
			Update("stock", gorm.Expr("CASE WHEN stock > ? THEN stock - ? ELSE 0 END", quantity, quantity))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	}

	result := db.Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a vanished product from a stock shortfall.
		var count int64
		if err := r.db.WithContext(ctx).Model(&catalog.Product{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrInsufficientStock
	}
	return nil
}

func (r *GormProductRepository) applyFilter(db *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where("name LIKE ? OR slug LIKE ?", pattern, pattern)
	}
	return db
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
