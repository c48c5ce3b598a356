package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/core"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/pkg/api"
)

// Services bundles the services the routes depend on.
type Services struct {
	Users      core.UserService
	Carts      core.CartService
	Categories core.CategoryService
	Variants   core.VariantService
	Sizes      core.SizeService
	Products   core.ProductService
}

// SetupRoutes registers the /api/v1 routes and the health check. Global
// middleware (logging, recovery, CORS) is expected on router already.
func SetupRoutes(router *gin.Engine, services Services, cookie CookieConfig, logger *zap.Logger) {
	setupValidator()

	authMW := middleware.NewAuthMiddleware(services.Users, logger)
	requireAuth := authMW.VerifyToken()
	requireAdmin := []gin.HandlerFunc{requireAuth, middleware.RequireRole(models.RoleAdmin)}

	userHandler := NewUserHandler(services.Users, cookie, logger)
	cartHandler := NewCartHandler(services.Carts, logger)
	productHandler := NewProductHandler(services.Products, logger)

	apiV1 := router.Group("/api/v1")
	{
		users := apiV1.Group("/users")
		{
			users.POST("/signup", userHandler.Signup)
			users.POST("/login", userHandler.Login)
			users.POST("/forgot-password", userHandler.ForgotPassword)
			users.PATCH("/reset-password/:token", userHandler.ResetPassword)

			users.GET("/logout", requireAuth, userHandler.Logout)
			users.GET("/me", requireAuth, userHandler.GetMe)
			users.GET("", requireAuth, userHandler.List)
			users.PATCH("", requireAuth, userHandler.UpdateMe)
			users.PATCH("/change-password", requireAuth, userHandler.ChangePassword)

			users.DELETE("/:id", append(requireAdmin, userHandler.Delete)...)
			users.GET("/toggle-banned-user/:id", append(requireAdmin, userHandler.ToggleBanned)...)
		}

		NewCatalogHandler[models.CategoryRequest, models.Category](services.Categories, logger).
			register(apiV1.Group("/categories"), requireAdmin...)
		NewCatalogHandler[models.VariantRequest, models.Variant](services.Variants, logger).
			register(apiV1.Group("/variants"), requireAdmin...)
		NewCatalogHandler[models.SizeRequest, models.Size](services.Sizes, logger).
			register(apiV1.Group("/sizes"), requireAdmin...)

		products := apiV1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.POST("", append(requireAdmin, productHandler.Create)...)
			products.PATCH("/:id", append(requireAdmin, productHandler.Update)...)
			products.DELETE("/:id", append(requireAdmin, productHandler.Delete)...)
		}

		carts := apiV1.Group("/carts", requireAuth)
		{
			carts.POST("", cartHandler.AddToCart)
			carts.GET("", cartHandler.GetCarts)
			carts.GET("/active", cartHandler.GetActiveCart)
			carts.GET("/clear", cartHandler.ClearCart)
			carts.GET("/payment/:id", cartHandler.PayCart)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		api.Success(c, http.StatusOK, gin.H{"status": "UP"})
	})
	router.NoRoute(func(c *gin.Context) {
		api.Error(c, http.StatusNotFound, "Can't find "+c.Request.URL.Path+" on this server", nil)
	})

	logger.Info("API routes configured under /api/v1 and /health")
}
