package handler

import (
	"github.com/gin-gonic/gin"

	checkoutapp "github.com/shop/backend/internal/application/checkout"
)

// CheckoutHandler turns a cart into an order
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.Service
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkoutapp.Service) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// RegisterRoutes registers the checkout route on the optional-auth group;
// whether guests may check out is decided by the checkout service.
func (h *CheckoutHandler) RegisterRoutes(optional *gin.RouterGroup) {
	optional.POST("/checkout", h.PlaceOrder)
}

// PlaceOrder atomically reserves stock, records the order and empties the
// cart. Prices are re-read from the catalog at this moment, so the
// confirmation may differ from the cart the client last saw.
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	owner, err := getCartOwner(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.checkoutService.PlaceOrder(c.Request.Context(), owner)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}
