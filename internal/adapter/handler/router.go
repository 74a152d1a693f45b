package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
	"github.com/shopdeskhq/shopdesk/internal/core/service"
)

// Services bundles everything the router needs.
type Services struct {
	Auth          *service.AuthService
	Sales         *service.SaleService
	Inventory     *service.InventoryService
	Notifications *service.NotificationService
	Analytics     *service.AnalyticsService
}

// NewRouter wires the full HTTP surface.
func NewRouter(svcs Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := NewAuthHandler(svcs.Auth)
	saleHandler := NewSaleHandler(svcs.Sales, svcs.Analytics)
	inventoryHandler := NewInventoryHandler(svcs.Inventory)
	notificationHandler := NewNotificationHandler(svcs.Notifications)
	analyticsHandler := NewAnalyticsHandler(svcs.Analytics)

	api := r.Group("/api")
	api.POST("/login", authHandler.Login)
	api.POST("/forgot-password", authHandler.ForgotPassword)
	api.POST("/reset-password", authHandler.ResetPassword)

	authed := api.Group("")
	authed.Use(RequireAuth(svcs.Auth))
	{
		authed.POST("/sales", saleHandler.Record)
		authed.GET("/sales", saleHandler.List)
		authed.GET("/sales/trends", saleHandler.Trends)
		authed.GET("/sales/top-products", saleHandler.TopProducts)

		authed.GET("/inventory", inventoryHandler.List)
		authed.POST("/inventory", inventoryHandler.Add)
		authed.PATCH("/inventory/quantity", inventoryHandler.UpdateQuantity)
		authed.PATCH("/inventory/update", inventoryHandler.Update)
		authed.DELETE("/inventory/:product_name", RequireRole(domain.RoleAdmin), inventoryHandler.Delete)

		authed.GET("/kpis", analyticsHandler.KPIs)
		authed.GET("/customers", analyticsHandler.Customers)
		authed.GET("/customers/stats", analyticsHandler.CustomerStats)

		authed.GET("/notifications", notificationHandler.List)
		authed.POST("/notifications", notificationHandler.Create)
		authed.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		authed.PATCH("/notifications/read-all", notificationHandler.MarkAllRead)

		authed.GET("/account", authHandler.Account)
		authed.PUT("/account/username", authHandler.UpdateUsername)
		authed.PUT("/account/password", authHandler.ChangePassword)
	}

	return r
}
