package router

import (
	"github.com/gin-gonic/gin"

	"github.com/garmentcrm/backend/internal/interfaces/http/handler"
)

// Handlers bundles everything the router wires up
type Handlers struct {
	System   *handler.SystemHandler
	Orders   *handler.ShippingOrderHandler
	Customer *handler.CustomerHandler
	Images   *handler.ImageHandler
}

// Setup registers all routes on the engine
func Setup(engine *gin.Engine, h Handlers) {
	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	api := engine.Group("/api/v1")

	orders := api.Group("/shipping-orders")
	{
		orders.POST("", h.Orders.Create)
		orders.GET("", h.Orders.List)
		orders.GET("/metrics", h.Orders.Metrics)
		orders.GET("/:id", h.Orders.Get)
		orders.PUT("/:id", h.Orders.Update)
		orders.DELETE("/:id", h.Orders.Delete)
		orders.GET("/:id/packages", h.Orders.GetPackages)
		orders.GET("/:id/history", h.Orders.GetHistory)
	}

	api.GET("/tracking/:code", h.Orders.Track)

	customers := api.Group("/customers")
	{
		customers.POST("", h.Customer.Create)
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.GET("/:id/shipping-orders", h.Customer.ListOrders)
	}

	items := api.Group("/items/:id/images")
	{
		items.POST("", h.Images.Upload)
		items.GET("", h.Images.List)
		items.DELETE("/:imageID", h.Images.Delete)
	}
}
