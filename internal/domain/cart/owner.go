package cart

import (
	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/shared"
)

// Owner identifies whose cart is being operated on: an authenticated
// user or an anonymous guest session. Exactly one of the two is set.
type Owner struct {
	UserID     *uuid.UUID
	SessionKey string
}

// UserOwner returns an owner for an authenticated user
func UserOwner(userID uuid.UUID) Owner {
	return Owner{UserID: &userID}
}

// GuestOwner returns an owner for an anonymous session
func GuestOwner(sessionKey string) Owner {
	return Owner{SessionKey: sessionKey}
}

// IsGuest returns true for session-backed carts
func (o Owner) IsGuest() bool {
	return o.UserID == nil
}

// Key returns a stable identifier for the owner, used as the storage key
// for session-backed carts
func (o Owner) Key() string {
	if o.UserID != nil {
		return o.UserID.String()
	}
	return o.SessionKey
}

// Validate checks that the owner identifies someone
func (o Owner) Validate() error {
	if o.UserID == nil && o.SessionKey == "" {
		return shared.NewDomainError("INVALID_CART_OWNER", "Cart owner must be a user or a session")
	}
	return nil
}
