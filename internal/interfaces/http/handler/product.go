package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/shop/backend/internal/application/catalog"
	"github.com/shop/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles catalog product endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes registers product routes. Browsing is public; catalog
// management requires authentication.
func (h *ProductHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/products", h.List)
	public.GET("/products/:slug", h.GetBySlug)
	authed.POST("/products", h.Create)
	authed.PUT("/products/:id", h.Update)
	authed.DELETE("/products/:id", h.Delete)
}

// List returns a paginated catalog page, optionally filtered by search
// term or category slug
func (h *ProductHandler) List(c *gin.Context) {
	var req catalogapp.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.productService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetBySlug returns one product by its URL slug
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	resp, err := h.productService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Create adds a product to the catalog
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Update modifies a product
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a product from the catalog
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
