// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/maboutique/maboutique-api/internal/config"
	"github.com/maboutique/maboutique-api/internal/domain/user"
	"github.com/maboutique/maboutique-api/internal/interfaces/http/handlers"
	"github.com/maboutique/maboutique-api/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg gin.IRouter, db *gorm.DB, userService *user.Service) {
	authHandler := handlers.NewAuthHandler(userService)

	auth := rg.Group("/auth")
	auth.Use(middleware.UnitOfWork(db))
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(userService))
		{
			protected.GET("/me", authHandler.Me)
			protected.GET("/test", authHandler.Test)
		}
	}
}

// SetupCategoryRoutes sets up category related routes
func SetupCategoryRoutes(rg gin.IRouter, db *gorm.DB) {
	categoryHandler := handlers.NewCategoryHandler(db)

	categories := rg.Group("/categories")
	categories.Use(middleware.UnitOfWork(db))
	{
		categories.GET("", categoryHandler.ListCategories)
		categories.GET("/", categoryHandler.ListCategories)
		categories.GET("/slug/:slug", categoryHandler.GetCategoryBySlug)
		categories.GET("/:id", categoryHandler.GetCategory)
	}
}

// SetupArticleRoutes sets up article related routes
func SetupArticleRoutes(rg gin.IRouter, db *gorm.DB) {
	articleHandler := handlers.NewArticleHandler(db)

	articles := rg.Group("/articles")
	articles.Use(middleware.UnitOfWork(db))
	{
		articles.GET("", articleHandler.ListArticles)
		articles.GET("/", articleHandler.ListArticles)
		articles.GET("/featured", articleHandler.ListFeatured)
		articles.GET("/on-sale", articleHandler.ListOnSale)
		articles.GET("/search", articleHandler.Search)
		articles.GET("/:id", articleHandler.GetArticle)
	}
}

// SetupCartRoutes sets up cart routes
func SetupCartRoutes(rg gin.IRouter, db *gorm.DB, userService *user.Service) {
	cartHandler := handlers.NewCartHandler(db)

	cart := rg.Group("/cart")
	cart.Use(middleware.UnitOfWork(db), middleware.AuthMiddleware(userService))
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("", cartHandler.AddToCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.PUT("/:id", cartHandler.UpdateCartItem)
		cart.DELETE("/:id", cartHandler.RemoveFromCart)
	}
}

// SetupWishlistRoutes sets up wishlist routes
func SetupWishlistRoutes(rg gin.IRouter, db *gorm.DB, userService *user.Service) {
	wishlistHandler := handlers.NewWishlistHandler(db)

	wishlist := rg.Group("/wishlist")
	wishlist.Use(middleware.UnitOfWork(db), middleware.AuthMiddleware(userService))
	{
		wishlist.GET("", wishlistHandler.GetWishlist)
		wishlist.POST("", wishlistHandler.AddToWishlist)
		wishlist.DELETE("", wishlistHandler.ClearWishlist)
		wishlist.DELETE("/:articleId", wishlistHandler.RemoveFromWishlist)
	}
}

// SetupRoutes registers every resource on rg
func SetupRoutes(rg gin.IRouter, db *gorm.DB, cfg *config.Config) {
	userService := user.NewService(db, cfg)

	SetupAuthRoutes(rg, db, userService)
	SetupCategoryRoutes(rg, db)
	SetupArticleRoutes(rg, db)
	SetupCartRoutes(rg, db, userService)
	SetupWishlistRoutes(rg, db, userService)
}
