package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shop/backend/internal/domain/cart"
	"github.com/shop/backend/internal/domain/shared"
)

// GormCartStore implements cart.Store for authenticated users, one row
// per (user, product) line. Guest owners are routed elsewhere; see
// CompositeCartStore.
type GormCartStore struct {
	db *gorm.DB
}

// NewGormCartStore creates a new GormCartStore
func NewGormCartStore(db *gorm.DB) *GormCartStore {
	return &GormCartStore{db: db}
}

// Items returns all cart lines for the user, oldest first
func (s *GormCartStore) Items(ctx context.Context, owner cart.Owner) ([]cart.Item, error) {
	userID, err := s.requireUser(owner)
	if err != nil {
		return nil, err
	}

	var items []cart.Item
	err = s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Add creates a line or increments an existing one for the product
func (s *GormCartStore) Add(ctx context.Context, owner cart.Owner, productID uuid.UUID, quantity int64) (*cart.Item, error) {
	userID, err := s.requireUser(owner)
	if err != nil {
		return nil, err
	}

	var result *cart.Item
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing cart.Item
		findErr := tx.Where("user_id = ? AND product_id = ?", userID, productID).
			First(&existing).Error

		switch {
		case findErr == nil:
			if err := existing.IncreaseQuantity(quantity); err != nil {
				return err
			}
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			result = &existing
			return nil

		case errors.Is(findErr, gorm.ErrRecordNotFound):
			item, err := cart.NewItem(productID, quantity)
			if err != nil {
				return err
			}
			item.UserID = &userID
			if err := tx.Create(item).Error; err != nil {
				return err
			}
			result = item
			return nil

		default:
			return findErr
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateQuantity replaces the quantity of an existing line
func (s *GormCartStore) UpdateQuantity(ctx context.Context, owner cart.Owner, productID uuid.UUID, quantity int64) error {
	userID, err := s.requireUser(owner)
	if err != nil {
		return err
	}

	var item cart.Item
	findErr := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if findErr != nil {
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return findErr
	}

	if err := item.SetQuantity(quantity); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Save(&item).Error
}

// Remove deletes a single line
func (s *GormCartStore) Remove(ctx context.Context, owner cart.Owner, productID uuid.UUID) error {
	userID, err := s.requireUser(owner)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&cart.Item{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Clear deletes all lines for the user and reports how many were removed
func (s *GormCartStore) Clear(ctx context.Context, owner cart.Owner) (int64, error) {
	userID, err := s.requireUser(owner)
	if err != nil {
		return 0, err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&cart.Item{})
	return result.RowsAffected, result.Error
}

func (s *GormCartStore) requireUser(owner cart.Owner) (uuid.UUID, error) {
	if err := owner.Validate(); err != nil {
		return uuid.Nil, err
	}
	if owner.IsGuest() {
		return uuid.Nil, shared.NewDomainError("INVALID_CART_OWNER", "Relational cart store only holds user carts")
	}
	return *owner.UserID, nil
}

// CompositeCartStore routes cart operations by owner: user carts live in
// relational rows, guest carts in the session store.
type CompositeCartStore struct {
	users  cart.Store
	guests cart.Store
}

// NewCompositeCartStore creates a store routing between user and guest backends
func NewCompositeCartStore(users, guests cart.Store) *CompositeCartStore {
	return &CompositeCartStore{users: users, guests: guests}
}

func (s *CompositeCartStore) backend(owner cart.Owner) (cart.Store, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if owner.IsGuest() {
		if s.guests == nil {
			return nil, shared.NewDomainError("GUEST_CART_UNAVAILABLE", "Guest carts are not available")
		}
		return s.guests, nil
	}
	return s.users, nil
}

// Items returns all cart lines for the owner
func (s *CompositeCartStore) Items(ctx context.Context, owner cart.Owner) ([]cart.Item, error) {
	backend, err := s.backend(owner)
	if err != nil {
		return nil, err
	}
	return backend.Items(ctx, owner)
}

// Add creates a line or increments an existing one
func (s *CompositeCartStore) Add(ctx context.Context, owner cart.Owner, productID uuid.UUID, quantity int64) (*cart.Item, error) {
	backend, err := s.backend(owner)
	if err != nil {
		return nil, err
	}
	return backend.Add(ctx, owner, productID, quantity)
}

// UpdateQuantity replaces the quantity of an existing line
func (s *CompositeCartStore) UpdateQuantity(ctx context.Context, owner cart.Owner, productID uuid.UUID, quantity int64) error {
	backend, err := s.backend(owner)
	if err != nil {
		return err
	}
	return backend.UpdateQuantity(ctx, owner, productID, quantity)
}

// Remove deletes a single line
func (s *CompositeCartStore) Remove(ctx context.Context, owner cart.Owner, productID uuid.UUID) error {
	backend, err := s.backend(owner)
	if err != nil {
		return err
	}
	return backend.Remove(ctx, owner, productID)
}

// Clear deletes all lines and reports how many were removed
func (s *CompositeCartStore) Clear(ctx context.Context, owner cart.Owner) (int64, error) {
	backend, err := s.backend(owner)
	if err != nil {
		return 0, err
	}
	return backend.Clear(ctx, owner)
}

var (
	_ cart.Store = (*GormCartStore)(nil)
	_ cart.Store = (*CompositeCartStore)(nil)
)
