package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// ProductService handles catalog browsing and product administration
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, categoryRepo catalog.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// List returns a page of products, optionally narrowed to one category
// slug and a name search
func (s *ProductService) List(ctx context.Context, req ListProductsRequest) (*shared.Paginated[ProductResponse], error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 && req.PageSize <= 100 {
		filter.PageSize = req.PageSize
	}
	filter.Search = req.Search

	var (
		products []catalog.Product
		err      error
	)
	if req.CategorySlug != "" {
		category, cerr := s.categoryRepo.FindBySlug(ctx, req.CategorySlug)
		if cerr != nil {
			if errors.Is(cerr, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, cerr
		}
		products, err = s.productRepo.FindByCategory(ctx, category.ID, filter)
	} else {
		products, err = s.productRepo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// GetBySlug returns a single product for the detail page
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if existing, err := s.productRepo.FindBySlug(ctx, req.Slug); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this slug already exists")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
	}

	product, err := catalog.NewProduct(req.Name, req.Slug, valueobject.NewMoneyINR(req.Price))
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	product.CategoryID = req.CategoryID
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Update applies partial changes to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		description := product.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.UpdateDetails(*req.Name, description); err != nil {
			return nil, err
		}
	} else if req.Description != nil {
		if err := product.UpdateDetails(product.Name, *req.Description); err != nil {
			return nil, err
		}
	}

	if req.Price != nil {
		if err := product.UpdatePrice(valueobject.NewMoneyINR(*req.Price)); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
		product.CategoryID = req.CategoryID
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product from the catalog. Order items keep their
// name and price snapshots, so history survives the delete.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}
