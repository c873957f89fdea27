package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cartapp "github.com/shop/backend/internal/application/cart"
	"github.com/shop/backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints for logged-in users and guests
type CartHandler struct {
	BaseHandler
	cartService *cartapp.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// RegisterRoutes registers cart routes on a group carrying optional auth:
// a JWT identifies the user's cart, X-Session-Key a guest cart.
func (h *CartHandler) RegisterRoutes(optional *gin.RouterGroup) {
	optional.GET("/cart", h.View)
	optional.POST("/cart/items", h.AddItem)
	optional.PUT("/cart/items/:productID", h.UpdateItem)
	optional.DELETE("/cart/items/:productID", h.RemoveItem)
	optional.DELETE("/cart", h.Clear)
}

// View returns the cart priced at current catalog prices
func (h *CartHandler) View(c *gin.Context) {
	owner, err := getCartOwner(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.cartService.View(c.Request.Context(), owner)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// AddItem adds a product to the cart, merging with an existing line
func (h *CartHandler) AddItem(c *gin.Context) {
	owner, err := getCartOwner(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.cartService.Add(c.Request.Context(), owner, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateItem sets a line's quantity
func (h *CartHandler) UpdateItem(c *gin.Context) {
	owner, err := getCartOwner(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req cartapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.cartService.UpdateQuantity(c.Request.Context(), owner, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveItem deletes one line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	owner, err := getCartOwner(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	resp, err := h.cartService.Remove(c.Request.Context(), owner, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	owner, err := getCartOwner(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), owner); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
