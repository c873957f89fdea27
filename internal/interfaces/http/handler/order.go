package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderapp "github.com/shop/backend/internal/application/order"
	"github.com/shop/backend/internal/domain/order"
	"github.com/shop/backend/internal/interfaces/http/middleware"
)

// InvoiceGenerator renders an order as a PDF invoice
type InvoiceGenerator interface {
	Generate(ctx context.Context, o *order.Order, buyerName string) ([]byte, error)
}

// OrderHandler handles order history and invoice endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.Service
	invoices     InvoiceGenerator
}

// NewOrderHandler creates a new OrderHandler. The invoice generator may be
// nil, in which case the invoice route responds 404.
func NewOrderHandler(orderService *orderapp.Service, invoices InvoiceGenerator) *OrderHandler {
	return &OrderHandler{orderService: orderService, invoices: invoices}
}

// RegisterRoutes registers order routes; all require authentication
func (h *OrderHandler) RegisterRoutes(authed *gin.RouterGroup) {
	authed.GET("/orders", h.List)
	authed.GET("/orders/:id", h.Get)
	authed.GET("/orders/:id/invoice", h.DownloadInvoice)
	authed.POST("/orders/:id/confirm", h.Confirm)
	authed.POST("/orders/:id/cancel", h.Cancel)
}

// List returns the caller's order history, newest first
func (h *OrderHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	var req orderapp.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.orderService.ListForUser(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one of the caller's orders with its lines
func (h *OrderHandler) Get(c *gin.Context) {
	userID, orderID, ok := h.callerAndOrder(c)
	if !ok {
		return
	}

	resp, err := h.orderService.GetForUser(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// DownloadInvoice streams the order's invoice as a PDF attachment
func (h *OrderHandler) DownloadInvoice(c *gin.Context) {
	userID, orderID, ok := h.callerAndOrder(c)
	if !ok {
		return
	}

	if h.invoices == nil {
		h.NotFound(c, "Invoice generation is not available")
		return
	}

	o, err := h.orderService.GetDomainForUser(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	buyerName := ""
	if claims := middleware.GetJWTClaims(c); claims != nil {
		buyerName = claims.Username
	}

	pdf, err := h.invoices.Generate(c.Request.Context(), o, buyerName)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice-%s.pdf"`, orderID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Confirm moves one of the caller's orders from placed to confirmed
func (h *OrderHandler) Confirm(c *gin.Context) {
	userID, orderID, ok := h.callerAndOrder(c)
	if !ok {
		return
	}

	// Ownership check before the state transition.
	if _, err := h.orderService.GetForUser(c.Request.Context(), userID, orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.orderService.Confirm(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel cancels one of the caller's orders if it is still cancellable
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, orderID, ok := h.callerAndOrder(c)
	if !ok {
		return
	}

	if _, err := h.orderService.GetForUser(c.Request.Context(), userID, orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.orderService.Cancel(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

func (h *OrderHandler) callerAndOrder(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return uuid.Nil, uuid.Nil, false
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, orderID, true
}
