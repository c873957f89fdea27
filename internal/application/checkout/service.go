package checkout

import (
	"context"

	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/cart"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/order"
	"github.com/shop/backend/internal/domain/shared"
)

// StockPolicy decides what happens when a cart orders more than is in
// stock: clamp floors the remaining stock at zero and lets the order
// through (the permissive default), reject fails the whole checkout.
type StockPolicy string

const (
	StockPolicyClamp  StockPolicy = "clamp"
	StockPolicyReject StockPolicy = "reject"
)

// Config holds the checkout policy switches
type Config struct {
	StockPolicy StockPolicy
	AllowGuest  bool
}

// DefaultConfig returns the permissive policy set matching the original
// storefront behavior
func DefaultConfig() Config {
	return Config{
		StockPolicy: StockPolicyClamp,
		AllowGuest:  false,
	}
}

// TxRepos bundles the repositories bound to one checkout transaction
type TxRepos struct {
	Orders   order.Repository
	Products catalog.ProductRepository
	Carts    cart.Store
}

// UnitOfWork runs a function within a single database transaction,
// handing it transaction-bound repositories. If fn returns an error
// every write made through the repos is rolled back.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos TxRepos) error) error
}

// Service is the order workflow engine: it converts a cart into an
// immutable order, adjusts inventory, and triggers the notification
// pipeline after commit.
type Service struct {
	uow            UnitOfWork
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	cfg            Config
}

// NewService creates a checkout Service
func NewService(uow UnitOfWork, cfg Config, logger *zap.Logger) *Service {
	if cfg.StockPolicy == "" {
		cfg.StockPolicy = StockPolicyClamp
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		uow:    uow,
		logger: logger,
		cfg:    cfg,
	}
}

// SetEventPublisher sets the publisher used to deliver order events to
// the notification pipeline after the transaction commits
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// PlaceOrder converts the owner's cart into an order.
//
// Within one transaction it snapshots the cart lines, creates the order
// and its items at current catalog prices, decrements stock per the
// configured policy, and clears the cart. Any failure rolls the whole
// sequence back and leaves the cart untouched. An empty cart fails with
// ErrEmptyCart before anything is written.
//
// After the transaction commits the order's domain events are published;
// invoice generation and email run on that path as a best-effort side
// effect and can never fail the order.
func (s *Service) PlaceOrder(ctx context.Context, owner cart.Owner) (*PlaceOrderResponse, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if owner.IsGuest() && !s.cfg.AllowGuest {
		return nil, shared.NewDomainError("GUEST_CHECKOUT_DISABLED", "Sign in to place an order")
	}

	var placed *order.Order

	err := s.uow.Execute(ctx, func(repos TxRepos) error {
		lines, err := repos.Carts.Items(ctx, owner)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return shared.ErrEmptyCart
		}

		clamp := s.cfg.StockPolicy == StockPolicyClamp

		items := make([]order.Item, 0, len(lines))
		for _, line := range lines {
			product, err := repos.Products.FindByID(ctx, line.ProductID)
			if err != nil {
				return err
			}

			item, err := order.NewItem(product.ID, product.Name, product.Slug, line.Quantity, product.GetPriceMoney())
			if err != nil {
				return err
			}
			items = append(items, *item)
		}

		o, err := order.New(owner.UserID, items)
		if err != nil {
			return err
		}

		if err := repos.Orders.Save(ctx, o); err != nil {
			return err
		}

		for _, line := range lines {
			if err := repos.Products.AdjustStock(ctx, line.ProductID, line.Quantity, clamp); err != nil {
				return err
			}
		}

		// The delete count guards against a concurrent checkout consuming
		// the same cart snapshot: at most one conversion wins.
		removed, err := repos.Carts.Clear(ctx, owner)
		if err != nil {
			return err
		}
		if removed != int64(len(lines)) {
			return shared.NewDomainError("CART_CONFLICT", "Cart was modified by a concurrent checkout")
		}

		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", placed.ID.String()),
		zap.String("total", placed.Total.StringFixed(2)),
		zap.Int("lines", len(placed.Items)),
	)

	s.publishEvents(ctx, placed)

	response := ToPlaceOrderResponse(placed)
	return &response, nil
}

// publishEvents delivers the order's domain events. Failures are logged
// and swallowed: the order is already committed.
func (s *Service) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish order events",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
	}
	o.ClearDomainEvents()
}
