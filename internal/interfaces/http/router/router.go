package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shop/backend/internal/infrastructure/auth"
	"github.com/shop/backend/internal/interfaces/http/handler"
	"github.com/shop/backend/internal/interfaces/http/middleware"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Order    *handler.OrderHandler
}

// Router wires handlers onto a gin engine under a versioned API prefix
type Router struct {
	engine     *gin.Engine
	apiVersion string
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	handlers   Handlers
	health     gin.HandlerFunc
}

// Option is a functional option for Router configuration
type Option func(*Router)

// WithAPIVersion sets the API version prefix (e.g. "v1", "v2")
func WithAPIVersion(version string) Option {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithHealthCheck replaces the default static health handler, e.g. with
// one that pings the database
func WithHealthCheck(h gin.HandlerFunc) Option {
	return func(r *Router) {
		r.health = h
	}
}

// New creates a Router. The blacklist may be nil when token revocation is
// not configured.
func New(engine *gin.Engine, jwtService *auth.JWTService, blacklist auth.TokenBlacklist, handlers Handlers, opts ...Option) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		jwtService: jwtService,
		blacklist:  blacklist,
		handlers:   handlers,
		health:     health,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Setup registers all routes. Three access tiers share the versioned
// prefix: public (no auth), optional (JWT or guest session key), and
// authed (JWT required).
func (r *Router) Setup() {
	r.engine.GET("/health", r.health)

	api := r.engine.Group("/api/" + r.apiVersion)

	public := api.Group("")
	optional := api.Group("", middleware.OptionalAuthMiddleware(r.jwtService, r.blacklist, nil))
	authed := api.Group("", middleware.JWTAuthMiddleware(r.jwtService, r.blacklist, nil))

	if h := r.handlers.Auth; h != nil {
		h.RegisterRoutes(public, authed)
	}
	if h := r.handlers.Product; h != nil {
		h.RegisterRoutes(public, authed)
	}
	if h := r.handlers.Category; h != nil {
		h.RegisterRoutes(public, authed)
	}
	if h := r.handlers.Cart; h != nil {
		h.RegisterRoutes(optional)
	}
	if h := r.handlers.Checkout; h != nil {
		h.RegisterRoutes(optional)
	}
	if h := r.handlers.Order; h != nil {
		h.RegisterRoutes(authed)
	}
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
