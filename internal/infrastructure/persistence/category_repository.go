package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
)

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindBySlug finds a category by its URL slug
func (r *GormCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAll returns all categories ordered by name
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save persists a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete removes a category. Products keep their rows; the foreign key
// is cleared so they fall back to uncategorized.
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&catalog.Product{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&catalog.Category{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
