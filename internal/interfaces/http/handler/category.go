package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/shop/backend/internal/application/catalog"
	"github.com/shop/backend/internal/interfaces/http/middleware"
)

// CategoryHandler handles catalog category endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// RegisterRoutes registers category routes
func (h *CategoryHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/categories", h.List)
	authed.POST("/categories", h.Create)
	authed.DELETE("/categories/:id", h.Delete)
}

// List returns all categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, categories)
}

// Create adds a category
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Delete removes a category; products keep existing but lose the link
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
