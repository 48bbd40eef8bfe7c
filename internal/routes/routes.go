package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/auth"
	"storefront/internal/handlers"
)

// Dependencies are the handlers and collaborators the router exposes.
type Dependencies struct {
	Products *handlers.ProductHandler
	Admin    *handlers.AdminHandler
	Chat     *handlers.ChatHandler
	Auth     auth.Service
	Metrics  prometheus.Gatherer
}

func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/v1")
	{
		v1.GET("/products", deps.Products.ListProducts)
		v1.GET("/products/:id", deps.Products.GetProduct)
		v1.GET("/categories", deps.Products.ListCategories)
		v1.GET("/search", deps.Products.Search)
	}

	sessions := v1.Group("/chat/sessions")
	{
		sessions.POST("", deps.Chat.StartSession)
		sessions.GET("/:id", deps.Chat.GetSession)
		sessions.POST("/:id/open", deps.Chat.OpenSession)
		sessions.POST("/:id/close", deps.Chat.CloseSession)
		sessions.POST("/:id/messages", deps.Chat.SendMessage)
	}

	v1.POST("/admin/login", deps.Admin.Login)
	admin := v1.Group("/admin", auth.RequireAdmin(deps.Auth))
	{
		admin.GET("/products", deps.Admin.ListProducts)
		admin.POST("/products", deps.Admin.CreateProduct)
		admin.PUT("/products/:id", deps.Admin.UpdateProduct)
		admin.DELETE("/products/:id", deps.Admin.DeleteProduct)
	}
}
