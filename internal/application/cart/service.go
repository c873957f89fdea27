package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/cart"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
)

// Service handles cart operations for users and guest sessions
type Service struct {
	store       cart.Store
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewService creates a new cart Service
func NewService(store cart.Store, productRepo catalog.ProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:       store,
		productRepo: productRepo,
		logger:      logger,
	}
}

// View returns the owner's cart priced at current catalog prices.
// Lines whose product no longer exists are dropped from the cart.
func (s *Service) View(ctx context.Context, owner cart.Owner) (*CartResponse, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	lines, err := s.store.Items(ctx, owner)
	if err != nil {
		return nil, err
	}

	resp := &CartResponse{
		Items: make([]ItemResponse, 0, len(lines)),
		Total: decimal.Zero,
	}
	for _, line := range lines {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Info("dropping cart line for removed product",
					zap.String("product_id", line.ProductID.String()),
					zap.String("owner", owner.Key()))
				if rerr := s.store.Remove(ctx, owner, line.ProductID); rerr != nil {
					return nil, rerr
				}
				continue
			}
			return nil, err
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(line.Quantity))
		resp.Items = append(resp.Items, ItemResponse{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSlug: product.Slug,
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
			Subtotal:    subtotal,
		})
		resp.Total = resp.Total.Add(subtotal)
	}
	return resp, nil
}

// Add puts a product in the cart, incrementing the line if it is already
// there
func (s *Service) Add(ctx context.Context, owner cart.Owner, req AddItemRequest) (*CartResponse, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available for purchase")
	}

	if _, err := s.store.Add(ctx, owner, product.ID, req.Quantity); err != nil {
		return nil, err
	}
	return s.View(ctx, owner)
}

// UpdateQuantity replaces a line quantity
func (s *Service) UpdateQuantity(ctx context.Context, owner cart.Owner, productID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateQuantity(ctx, owner, productID, req.Quantity); err != nil {
		return nil, err
	}
	return s.View(ctx, owner)
}

// Remove deletes one line from the cart
func (s *Service) Remove(ctx context.Context, owner cart.Owner, productID uuid.UUID) (*CartResponse, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Remove(ctx, owner, productID); err != nil {
		return nil, err
	}
	return s.View(ctx, owner)
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, owner cart.Owner) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	_, err := s.store.Clear(ctx, owner)
	return err
}
