package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"zyvo_back_end/internal/handlers/admin"
	"zyvo_back_end/internal/handlers/order"
	"zyvo_back_end/internal/handlers/product"
	"zyvo_back_end/internal/handlers/user"
	"zyvo_back_end/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	allowedOrigins := []string{"http://localhost:3000"}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		allowedOrigins = strings.Split(origins, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// ---------- Auth ----------
	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RegisterRateLimit(), user.Register)
		auth.POST("/login", middleware.LoginRateLimit(), user.Login)
		auth.GET("/:provider", user.BeginAuth)
		auth.GET("/:provider/callback", user.CallbackAuth)
		auth.POST("/logout", user.Logout)
		auth.GET("/me", middleware.AuthRequired(), user.Me)
	}

	// ---------- Catalogue public ----------
	api.GET("/products", product.GetAllProducts)
	api.GET("/products/search", middleware.SearchRateLimit(), product.SearchProductsHandler)
	api.GET("/products/:id", product.GetProductByID)
	api.GET("/products/:id/variants", product.GetVariantsByProduct)
	api.GET("/products/:id/reviews", product.GetReviewsByProduct)
	api.GET("/variants/:id", product.GetVariantByID)
	api.GET("/variants/:id/inventory", product.GetInventoryByVariant)
	api.GET("/categories", product.GetAllCategories)
	api.GET("/categories/:id", product.GetCategoryByID)
	api.GET("/brands", product.GetAllBrands)
	api.GET("/platforms", product.GetAllPlatforms)

	// ---------- Espace client ----------
	authed := api.Group("")
	authed.Use(middleware.AuthRequired())
	{
		cart := authed.Group("/cart")
		cart.Use(middleware.CartRateLimit())
		{
			cart.GET("", user.GetCart)
			cart.POST("/items", user.AddItemToCart)
			cart.PUT("/items/:id", user.UpdateCartItem)
			cart.DELETE("/items/:id", user.RemoveItemFromCart)
			cart.DELETE("", user.ClearCart)
			cart.POST("/coupon", user.ApplyCoupon)
			cart.DELETE("/coupon", user.RemoveCoupon)
		}

		authed.GET("/favorites", user.GetFavorites)
		authed.POST("/favorites", user.AddFavorite)
		authed.DELETE("/favorites/:id", user.RemoveFavorite)

		authed.GET("/payment-methods", user.GetPaymentMethods)
		authed.POST("/payment-methods", user.AddPaymentMethod)
		authed.PUT("/payment-methods/:id/default", user.SetDefaultPaymentMethod)
		authed.DELETE("/payment-methods/:id", user.DeletePaymentMethod)

		authed.POST("/reviews", product.CreateReview)
		authed.PUT("/reviews/:id", product.UpdateReview)
		authed.DELETE("/reviews/:id", product.DeleteReview)

		authed.POST("/orders", order.PlaceOrder)
		authed.GET("/orders", order.GetMyOrders)
		authed.GET("/orders/:id", order.GetOrderByID)
		authed.POST("/orders/:id/cancel", order.CancelOrder)
		authed.POST("/orders/:id/refund", order.RequestRefund)
		authed.GET("/refunds", order.GetMyRefunds)
		authed.POST("/coupons/validate", order.ValidateCoupon)

		authed.GET("/ws/orders", order.OrderEventsWS)
	}

	// ---------- Webhooks ----------
	api.POST("/webhooks/stripe", order.StripeWebhook)

	// ---------- Administration ----------
	adm := api.Group("/admin")
	adm.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adm.POST("/products", product.CreateProduct)
		adm.PUT("/products/:id", product.UpdateProduct)
		adm.DELETE("/products/:id", product.DeleteProduct)
		adm.POST("/products/:id/images", product.UploadProductImageHandler)

		adm.POST("/variants", product.CreateVariant)
		adm.PUT("/variants/:id", product.UpdateVariant)
		adm.DELETE("/variants/:id", product.DeleteVariant)

		adm.POST("/variants/:id/stock/add", product.AddStock)
		adm.POST("/variants/:id/stock/remove", product.RemoveStock)
		adm.PUT("/variants/:id/stock", product.SetStock)
		adm.POST("/variants/:id/inventory/deactivate", product.DeactivateInventory)
		adm.POST("/variants/:id/inventory/activate", product.ActivateInventory)
		adm.GET("/inventory/low-stock", product.GetLowStockInventories)

		adm.POST("/categories", product.CreateCategory)
		adm.PUT("/categories/:id", product.UpdateCategory)
		adm.DELETE("/categories/:id", product.DeleteCategory)

		adm.POST("/brands", product.CreateBrand)
		adm.PUT("/brands/:id", product.UpdateBrand)
		adm.DELETE("/brands/:id", product.DeleteBrand)

		adm.GET("/suppliers", product.GetAllSuppliers)
		adm.POST("/suppliers", product.CreateSupplier)
		adm.PUT("/suppliers/:id", product.UpdateSupplier)
		adm.DELETE("/suppliers/:id", product.DeleteSupplier)

		adm.GET("/options", product.GetAllOptions)
		adm.POST("/options", product.CreateOption)
		adm.PUT("/options/:id", product.UpdateOption)
		adm.DELETE("/options/:id", product.DeleteOption)

		adm.POST("/platforms", product.CreatePlatform)
		adm.PUT("/platforms/:id", product.UpdatePlatform)
		adm.DELETE("/platforms/:id", product.DeletePlatform)
		adm.GET("/platforms/:id/listings", product.GetListingsByPlatform)
		adm.POST("/listings", product.CreateListing)
		adm.PUT("/listings/:id", product.UpdateListing)
		adm.DELETE("/listings/:id", product.DeleteListing)

		adm.GET("/coupons", order.GetAllCoupons)
		adm.POST("/coupons", order.CreateCoupon)
		adm.PUT("/coupons/:id", order.UpdateCoupon)
		adm.DELETE("/coupons/:id", order.DeleteCoupon)

		adm.GET("/orders", order.GetAllOrders)
		adm.PUT("/orders/:id/status", order.UpdateOrderStatus)

		adm.GET("/refunds", order.GetAllRefunds)
		adm.POST("/refunds/:id/process", order.ProcessRefund)

		adm.GET("/audit-logs", admin.GetAuditLogs)
		adm.GET("/users", admin.GetAllUsers)
		adm.POST("/users/:id/ban", admin.BanUser)
		adm.POST("/users/:id/unban", admin.UnbanUser)
	}
}
