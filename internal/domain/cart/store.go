package cart

import (
	"context"

	"github.com/google/uuid"
)

// Store is the capability interface for cart storage. Implementations may
// back carts with relational rows (authenticated users) or a session
// store (guests); callers never depend on which.
type Store interface {
	// Items returns all cart lines for the owner, oldest first
	Items(ctx context.Context, owner Owner) ([]Item, error)
	// Add creates a line or increments an existing one for the product
	Add(ctx context.Context, owner Owner, productID uuid.UUID, quantity int64) (*Item, error)
	// UpdateQuantity replaces the quantity of an existing line
	UpdateQuantity(ctx context.Context, owner Owner, productID uuid.UUID, quantity int64) error
	// Remove deletes a single line
	Remove(ctx context.Context, owner Owner, productID uuid.UUID) error
	// Clear deletes all lines for the owner and reports how many were
	// removed, so a checkout can detect a cart consumed concurrently
	Clear(ctx context.Context, owner Owner) (int64, error)
}
