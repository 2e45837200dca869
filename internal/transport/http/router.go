package handlers

import (
	"strings"
	"time"

	"github.com/waste3d/lootshop-api/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(h *Handler, limiter *middleware.RateLimiter, tokens middleware.TokenValidator, allowedOrigins string, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	config := cors.DefaultConfig()
	if origins := splitOrigins(allowedOrigins); len(origins) > 0 {
		config.AllowOrigins = origins
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(config))

	r.GET("/healthz", h.Health)

	api := r.Group("/api/v1")
	{
		api.GET("/products", h.ListProducts)
		api.GET("/products/search", h.SearchProducts)
		api.GET("/products/:slug", h.GetProduct)
		api.GET("/categories", h.ListCategories)

		user := api.Group("")
		user.Use(middleware.AuthMiddleware(tokens))
		{
			user.POST("/profile", h.CreateProfile)
			user.GET("/progress", h.GetProgress)
			user.POST("/progress/xp", h.AwardXP)
			user.GET("/unlocks", h.GetUnlocks)
			user.GET("/events", h.StreamEvents)
		}
		cart := api.Group("/cart")
		cart.Use(middleware.AuthMiddleware(tokens))
		{
			cart.GET("", h.GetCart)
			cart.POST("/items", limiter.Limit("cart_add", 60, 1*time.Minute), h.AddToCart)
			cart.PATCH("/items/:id", h.UpdateCartItem)
			cart.DELETE("/items/:id", h.RemoveCartItem)
			cart.DELETE("", h.ClearCart)
		}
		orders := api.Group("/orders")
		orders.Use(middleware.AuthMiddleware(tokens))
		{
			orders.POST("", limiter.Limit("checkout", 10, 1*time.Minute), h.CreateOrder)
			orders.GET("", h.ListOrders)
			orders.GET("/:id", h.GetOrder)
		}
	}

	return r
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
