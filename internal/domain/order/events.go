package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/shared"
)

// Event types for the order aggregate
const (
	EventTypePlaced    = "order.placed"
	EventTypeConfirmed = "order.confirmed"
	EventTypeCancelled = "order.cancelled"
)

const aggregateType = "Order"

// PlacedEvent is published when a cart has been converted to an order.
// The checkout workflow delivers it to the notification pipeline after
// the transaction commits.
type PlacedEvent struct {
	shared.BaseDomainEvent
	UserID *uuid.UUID      `json:"user_id,omitempty"`
	Total  decimal.Decimal `json:"total"`
	Lines  int             `json:"lines"`
}

// NewPlacedEvent creates a PlacedEvent from an order
func NewPlacedEvent(o *Order) *PlacedEvent {
	return &PlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlaced, aggregateType, o.ID),
		UserID:          o.UserID,
		Total:           o.Total,
		Lines:           len(o.Items),
	}
}

// ConfirmedEvent is published when an order is confirmed
type ConfirmedEvent struct {
	shared.BaseDomainEvent
	UserID *uuid.UUID `json:"user_id,omitempty"`
}

// NewConfirmedEvent creates a ConfirmedEvent from an order
func NewConfirmedEvent(o *Order) *ConfirmedEvent {
	return &ConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConfirmed, aggregateType, o.ID),
		UserID:          o.UserID,
	}
}

// CancelledEvent is published when an order is cancelled
type CancelledEvent struct {
	shared.BaseDomainEvent
	UserID *uuid.UUID `json:"user_id,omitempty"`
}

// NewCancelledEvent creates a CancelledEvent from an order
func NewCancelledEvent(o *Order) *CancelledEvent {
	return &CancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCancelled, aggregateType, o.ID),
		UserID:          o.UserID,
	}
}
