package routes

import (
	"time"

	"feira_back_end/internal/cache"
	"feira_back_end/internal/handlers/farmer"
	"feira_back_end/internal/handlers/product"
	"feira_back_end/internal/handlers/user"
	"feira_back_end/internal/middleware"
	"feira_back_end/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies reúne os handlers já montados pelo main.
type Dependencies struct {
	JWTSecret   string
	CORSOrigins []string
	Store       *cache.Store

	Users    *user.Handler
	Products *product.Handler
	Farmers  *farmer.Handler
}

func RegisterRoutes(r *gin.Engine, d Dependencies) {
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := middleware.AuthRequired(d.JWTSecret, d.Store)
	farmerOnly := middleware.RequireUserType(models.UserTypeFarmer)
	consumerOnly := middleware.RequireUserType(models.UserTypeConsumer)

	api := r.Group("/api")

	// Auth
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", d.Users.Register)
		authGroup.POST("/login", middleware.LoginRateLimit(d.Store), d.Users.Login)
		authGroup.POST("/logout", auth, d.Users.Logout)
	}

	// Perfil
	profile := api.Group("/profile", auth)
	{
		profile.GET("", d.Users.GetProfile)
		profile.PUT("", d.Users.UpdateProfile)
		profile.POST("/avatar", d.Users.UploadAvatar)
	}

	// Catálogo
	products := api.Group("/products", auth)
	{
		products.GET("", d.Products.GetAllProducts)
		products.GET("/search", d.Products.SearchProducts)
		products.GET("/categories", d.Products.GetCategories)
		products.GET("/:id", d.Products.GetProductByID)
	}

	// Agricultor
	farmerGroup := api.Group("/farmer", auth, farmerOnly)
	{
		farmerGroup.GET("/products", d.Products.GetMyProducts)
		farmerGroup.POST("/products", d.Products.CreateProduct)
		farmerGroup.POST("/products/image", d.Products.UploadProductImage)
		farmerGroup.PUT("/products/:id", d.Products.UpdateProduct)
		farmerGroup.DELETE("/products/:id", d.Products.DeleteProduct)

		farmerGroup.GET("/orders", d.Farmers.GetFarmerOrders)
		farmerGroup.PATCH("/orders/:id/status", d.Farmers.UpdateOrderStatus)
	}

	// Carrinho (por sessão)
	cartGroup := api.Group("/cart", auth, consumerOnly)
	{
		cartGroup.GET("", d.Users.GetCart)
		cartGroup.DELETE("", d.Users.ClearCart)
		cartGroup.POST("/items", middleware.CartRateLimit(d.Store), d.Users.AddToCart)
		cartGroup.POST("/items/:productId/decrease", d.Users.DecreaseQuantity)
		cartGroup.DELETE("/items/:productId", d.Users.RemoveFromCart)
		cartGroup.GET("/ws", d.Users.CartWebSocket)
	}

	// Pedidos do consumidor
	api.POST("/checkout", auth, consumerOnly, d.Users.Checkout)
	orders := api.Group("/orders", auth, consumerOnly)
	{
		orders.GET("", d.Users.GetMyOrders)
		orders.GET("/:id", d.Users.GetOrder)
		orders.GET("/:id/pix", d.Users.GetOrderPix)
		orders.GET("/:id/receipt", d.Users.GetOrderReceipt)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Pix-Payload", "X-RateLimit-Remaining", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
