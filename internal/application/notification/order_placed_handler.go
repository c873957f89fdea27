package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/identity"
	"github.com/shop/backend/internal/domain/order"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/infrastructure/invoice"
	"github.com/shop/backend/internal/infrastructure/mail"
)

// OrderPlacedHandler reacts to order.placed events by generating the
// invoice PDF and emailing it to the buyer. Everything here is
// best-effort: the order has already committed, so failures are logged
// and swallowed, never propagated back to the checkout.
type OrderPlacedHandler struct {
	orderRepo order.Repository
	userRepo  identity.UserRepository
	generator invoice.Generator
	sender    mail.Sender
	logger    *zap.Logger
}

// NewOrderPlacedHandler creates the handler
func NewOrderPlacedHandler(
	orderRepo order.Repository,
	userRepo identity.UserRepository,
	generator invoice.Generator,
	sender mail.Sender,
	logger *zap.Logger,
) *OrderPlacedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderPlacedHandler{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		generator: generator,
		sender:    sender,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *OrderPlacedHandler) EventTypes() []string {
	return []string{order.EventTypePlaced}
}

// Handle generates and emails the invoice for a freshly placed order
func (h *OrderPlacedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placed, ok := event.(*order.PlacedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
	}

	// Guest orders have no address on file, nothing to deliver
	if placed.UserID == nil {
		h.logger.Info("skipping invoice email for guest order",
			zap.String("order_id", placed.AggregateID().String()))
		return nil
	}

	o, err := h.orderRepo.FindByID(ctx, placed.AggregateID())
	if err != nil {
		h.logger.Error("failed to load order for invoice email",
			zap.String("order_id", placed.AggregateID().String()),
			zap.Error(err))
		return nil
	}

	user, err := h.userRepo.FindByID(ctx, *placed.UserID)
	if err != nil {
		h.logger.Error("failed to load buyer for invoice email",
			zap.String("order_id", o.ID.String()),
			zap.String("user_id", placed.UserID.String()),
			zap.Error(err))
		return nil
	}

	if !user.HasEmail() {
		h.logger.Info("buyer has no email on file, skipping invoice email",
			zap.String("order_id", o.ID.String()),
			zap.String("user_id", user.ID.String()))
		return nil
	}

	pdf, err := h.generator.Generate(ctx, o, user.Username)
	if err != nil {
		h.logger.Error("invoice generation failed",
			zap.String("order_id", o.ID.String()),
			zap.Error(err))
		return nil
	}

	msg := mail.Message{
		To:             user.Email,
		Subject:        fmt.Sprintf("Your order %s", shortOrderRef(o)),
		HTMLBody:       buildBody(o, user),
		AttachmentName: "invoice.pdf",
		Attachment:     pdf,
	}
	if err := h.sender.Send(ctx, msg); err != nil {
		h.logger.Error("invoice email delivery failed",
			zap.String("order_id", o.ID.String()),
			zap.String("to", user.Email),
			zap.Error(err))
		return nil
	}

	h.logger.Info("invoice email sent",
		zap.String("order_id", o.ID.String()),
		zap.String("to", user.Email))
	return nil
}

func shortOrderRef(o *order.Order) string {
	return o.ID.String()[:8]
}

func buildBody(o *order.Order, user *identity.User) string {
	return fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Thanks for your purchase. Your order <strong>%s</strong> for a total of ₹%s has been placed.</p>
<p>Your invoice is attached.</p>`,
		user.Username, shortOrderRef(o), o.Total.StringFixed(2))
}

var _ shared.EventHandler = (*OrderPlacedHandler)(nil)
