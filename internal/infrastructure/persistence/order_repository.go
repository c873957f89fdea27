package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shop/backend/internal/domain/order"
	"github.com/shop/backend/internal/domain/shared"
)

// GormOrderRepository implements order.Repository using GORM. Order items
// are not a GORM association; they are loaded and written explicitly so an
// order row can never be saved with half its lines.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID loads an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// FindByIDForUser loads an order only if it belongs to the user. A foreign
// order is indistinguishable from a missing one.
func (r *GormOrderRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// FindByUser lists a user's orders with their items, newest first
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// CountByUser counts a user's orders
func (r *GormOrderRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Save persists the order and its items in one transaction
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(o).Error; err != nil {
			return err
		}
		for i := range o.Items {
			o.Items[i].OrderID = o.ID
			if err := tx.Save(&o.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormOrderRepository) loadItems(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", o.ID).
		Order("created_at ASC").
		Find(&o.Items).Error
}

var _ order.Repository = (*GormOrderRepository)(nil)
