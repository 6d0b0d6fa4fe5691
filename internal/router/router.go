// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/config"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/handlers"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/middleware"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/services"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	authService := services.NewAuthService(db, cfg)
	productService := services.NewProductService(db)
	couponService := services.NewCouponService(db)
	cartService := services.NewCartService(db)
	orderService := services.NewOrderService(db)
	paymentService := services.NewPaymentService(db, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	couponHandler := handlers.NewCouponHandler(couponService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Product catalog (public)
		products := v1.Group("/products")
		{
			products.GET("", productHandler.SearchProducts)
			products.GET("/:id", productHandler.GetProduct)
		}

		// Coupon validation (public, read-only)
		v1.POST("/coupons/validate", couponHandler.ValidateCoupon)

		// Cart routes
		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired())
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:id", cartHandler.UpdateItem)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
		}

		// Order routes. Placement accepts either a bearer token or an
		// explicit customerId in the body, so it sits behind OptionalAuth.
		orders := v1.Group("/orders")
		{
			orders.POST("", middleware.OptionalAuth(), orderHandler.PlaceOrder)
			orders.GET("", middleware.AuthRequired(), orderHandler.ListOrders)
			orders.GET("/:id", middleware.AuthRequired(), orderHandler.GetOrder)
			orders.POST("/:id/cancel", middleware.AuthRequired(), orderHandler.CancelOrder)
		}

		// Payment routes
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthRequired())
		{
			payments.POST("/order", paymentHandler.CreatePaymentOrder)
			payments.POST("/confirm", paymentHandler.ConfirmPayment)
		}

		// Seller routes
		seller := v1.Group("/seller")
		seller.Use(middleware.AuthRequired(), middleware.SellerRequired())
		{
			seller.GET("/orders", orderHandler.ListSellerOrders)
			seller.GET("/products", productHandler.ListSellerProducts)
			seller.POST("/products", productHandler.CreateProduct)
			seller.PUT("/products/:id", productHandler.UpdateProduct)
			seller.DELETE("/products/:id", productHandler.DeleteProduct)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.POST("/coupons", couponHandler.CreateCoupon)
			admin.GET("/coupons", couponHandler.ListCoupons)
			admin.PUT("/coupons/:id", couponHandler.UpdateCoupon)
			admin.DELETE("/coupons/:id", couponHandler.DeleteCoupon)
		}
	}

	return r
}
