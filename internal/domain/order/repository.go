package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/shared"
)

// Repository defines the persistence interface for orders
type Repository interface {
	// FindByID loads an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByIDForUser loads an order only if it belongs to the user
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Order, error)
	// FindByUser lists a user's orders, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)
	// CountByUser counts a user's orders
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// Save persists the order and its items in one transaction
	Save(ctx context.Context, o *Order) error
}
