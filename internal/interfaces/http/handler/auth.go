package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/shop/backend/internal/application/identity"
	"github.com/shop/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles signup, login and session endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers auth routes. The logout and me routes require
// authentication; the rest are public.
func (h *AuthHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.POST("/auth/signup", h.Signup)
	public.POST("/auth/login", h.Login)
	public.POST("/auth/refresh", h.Refresh)
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/me", h.Me)
}

// Signup creates a new account and logs it in
func (h *AuthHandler) Signup(c *gin.Context) {
	var req identityapp.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.authService.Signup(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Login authenticates a user and issues a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Logout revokes the current access token
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	resp, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
