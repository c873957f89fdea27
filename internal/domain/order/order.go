package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// Status represents the lifecycle state of an order
type Status string

const (
	StatusCreated   Status = "created"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusCreated, StatusConfirmed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusCreated:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusRefunded
	case StatusCancelled, StatusRefunded:
		return false // Terminal states
	}
	return false
}

// Item is the audit record of what was actually charged: quantity and
// unit price are copied from the catalog at order time and never track
// later price changes.
type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	ProductSlug string          `gorm:"type:varchar(200);not null"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// NewItem creates an order line with a price-at-purchase snapshot
func NewItem(productID uuid.UUID, productName, productSlug string, quantity int64, unitPrice valueobject.Money) (*Item, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Item{
		ID:          uuid.New(),
		ProductID:   productID,
		ProductName: productName,
		ProductSlug: productSlug,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Amount:      unitPrice.Amount().Mul(decimal.NewFromInt(quantity)),
		CreatedAt:   time.Now(),
	}, nil
}

// GetUnitPriceMoney returns the unit price as a Money value object
func (i *Item) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyINR(i.UnitPrice)
}

// GetAmountMoney returns the line total as a Money value object
func (i *Item) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(i.Amount)
}

// Order is an immutable record of a completed checkout. Only the status
// may change after creation; the total is fixed when the order is placed
// and never recomputed from items.
type Order struct {
	shared.BaseAggregateRoot
	UserID      *uuid.UUID      `gorm:"type:uuid;index"` // nil for guest checkout
	Items       []Item          `gorm:"-"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status      Status          `gorm:"type:varchar(20);not null;default:'created'"`
	ConfirmedAt *time.Time
	CancelledAt *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// New creates an order from its lines. The total is the sum of line
// amounts, fixed here once and for all.
func New(userID *uuid.UUID, items []Item) (*Order, error) {
	if len(items) == 0 {
		return nil, shared.ErrEmptyCart
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]Item, len(items)),
		Total:             total,
		Status:            StatusCreated,
	}
	copy(o.Items, items)
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}

	o.AddDomainEvent(NewPlacedEvent(o))

	return o, nil
}

// GetTotalMoney returns the order total as a Money value object
func (o *Order) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyINR(o.Total)
}

// IsGuestOrder returns true when the order has no owning user
func (o *Order) IsGuestOrder() bool {
	return o.UserID == nil
}

// Confirm transitions the order from created to confirmed
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(StatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be confirmed in status "+o.Status.String())
	}
	now := time.Now()
	o.Status = StatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewConfirmedEvent(o))
	return nil
}

// Cancel transitions the order from created to cancelled
func (o *Order) Cancel() error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be cancelled in status "+o.Status.String())
	}
	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewCancelledEvent(o))
	return nil
}
