package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	cartapp "github.com/shop/backend/internal/application/cart"
	catalogapp "github.com/shop/backend/internal/application/catalog"
	checkoutapp "github.com/shop/backend/internal/application/checkout"
	identityapp "github.com/shop/backend/internal/application/identity"
	"github.com/shop/backend/internal/application/notification"
	orderapp "github.com/shop/backend/internal/application/order"
	"github.com/shop/backend/internal/domain/cart"
	"github.com/shop/backend/internal/infrastructure/auth"
	"github.com/shop/backend/internal/infrastructure/cache"
	"github.com/shop/backend/internal/infrastructure/config"
	"github.com/shop/backend/internal/infrastructure/event"
	"github.com/shop/backend/internal/infrastructure/invoice"
	"github.com/shop/backend/internal/infrastructure/logger"
	"github.com/shop/backend/internal/infrastructure/mail"
	"github.com/shop/backend/internal/infrastructure/persistence"
	"github.com/shop/backend/internal/infrastructure/telemetry"
	"github.com/shop/backend/internal/interfaces/http/handler"
	"github.com/shop/backend/internal/interfaces/http/middleware"
	"github.com/shop/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing (no-op when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database, with SQL logging through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if err := telemetry.RegisterDBTracing(db.DB, tracerProvider.IsEnabled(), log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	// Redis backs guest carts and token revocation. The shop still runs
	// without it: guests lose their carts and logout stops revoking.
	var (
		guestCarts cart.Store
		blacklist  auth.TokenBlacklist
	)
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, guest carts and token revocation disabled", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
		guestCarts = persistence.NewRedisCartStore(redisClient, cfg.Checkout.GuestCartTTL)
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Repositories and stores
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	userCarts := persistence.NewGormCartStore(db.DB)
	cartStore := persistence.NewCompositeCartStore(userCarts, guestCarts)
	uow := persistence.NewGormUnitOfWork(db.DB, guestCarts)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	cartService := cartapp.NewService(cartStore, productRepo, log)
	orderService := orderapp.NewService(orderRepo, log)
	checkoutService := checkoutapp.NewService(uow, checkoutapp.Config{
		StockPolicy: checkoutapp.StockPolicy(cfg.Checkout.StockPolicy),
		AllowGuest:  cfg.Checkout.AllowGuest,
	}, log)

	// Invoice rendering; the storefront works without it
	var invoiceGen invoice.Generator
	if gen, err := invoice.NewGenerator(cfg.Invoice, log); err != nil {
		log.Warn("Invoice rendering unavailable", zap.Error(err))
	} else {
		invoiceGen = gen
		defer func() {
			if err := gen.Close(); err != nil {
				log.Error("Error closing invoice renderer", zap.Error(err))
			}
		}()
	}

	// Event bus: order placement fans out to the mail notification
	eventBus := event.NewInMemoryEventBus(log)
	if invoiceGen != nil && cfg.SMTP.Enabled {
		sender := mail.NewSMTPSender(cfg.SMTP, log)
		orderPlacedHandler := notification.NewOrderPlacedHandler(orderRepo, userRepo, invoiceGen, sender, log)
		eventBus.Subscribe(orderPlacedHandler)
		log.Info("Order confirmation mail enabled",
			zap.Strings("events", orderPlacedHandler.EventTypes()))
	}
	checkoutService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)

	// HTTP handlers
	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Product:  handler.NewProductHandler(productService),
		Category: handler.NewCategoryHandler(categoryService),
		Cart:     handler.NewCartHandler(cartService),
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Order:    handler.NewOrderHandler(orderService, invoiceGen),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to set up validator", zap.Error(err))
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if tracerProvider.IsEnabled() {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	router.New(engine, jwtService, blacklist, handlers,
		router.WithAPIVersion("v1"),
		router.WithHealthCheck(healthHandler(db)),
	).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness including database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
