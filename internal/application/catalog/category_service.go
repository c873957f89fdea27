package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
)

// CategoryService handles category browsing and administration
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// List returns all categories for navigation
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]CategoryResponse, len(categories))
	for i := range categories {
		items[i] = ToCategoryResponse(&categories[i])
	}
	return items, nil
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	if existing, err := s.categoryRepo.FindBySlug(ctx, req.Slug); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this slug already exists")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	category, err := catalog.NewCategory(req.Name, req.Slug)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category. Products in it are left uncategorized.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}
