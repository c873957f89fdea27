package order

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/order"
	"github.com/shop/backend/internal/domain/shared"
)

// Service exposes order history and lifecycle operations. Orders are
// created only by the checkout workflow; this service never writes new
// ones.
type Service struct {
	orderRepo      order.Repository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a new order Service
func NewService(orderRepo order.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{orderRepo: orderRepo, logger: logger}
}

// SetEventPublisher sets the publisher used to deliver lifecycle events.
// Without one, transition events are discarded.
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ListForUser returns a page of the user's orders, newest first
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, req ListOrdersRequest) (*shared.Paginated[OrderListResponse], error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 && req.PageSize <= 100 {
		filter.PageSize = req.PageSize
	}

	orders, err := s.orderRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]OrderListResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderListResponse(&orders[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// GetForUser returns one of the user's orders with its items. Another
// user's order is a plain not-found, never a hint that it exists.
func (s *Service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// GetDomainForUser returns the owner-scoped aggregate itself, for
// callers that need more than the API view (invoice rendering)
func (s *Service) GetDomainForUser(ctx context.Context, userID, orderID uuid.UUID) (*order.Order, error) {
	return s.orderRepo.FindByIDForUser(ctx, userID, orderID)
}

// Confirm transitions an order from created to confirmed
func (s *Service) Confirm(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.Confirm(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, o)
	resp := ToOrderResponse(o)
	return &resp, nil
}

// Cancel transitions an order from created to cancelled
func (s *Service) Cancel(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, o)
	resp := ToOrderResponse(o)
	return &resp, nil
}

// publishEvents delivers pending domain events after a successful save.
// Failures are logged and swallowed: the transition is already committed.
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
