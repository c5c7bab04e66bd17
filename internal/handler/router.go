package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sgmi-dev/sgmi-api/internal/middleware"
	"github.com/sgmi-dev/sgmi-api/internal/models"
	"github.com/sgmi-dev/sgmi-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Orders    *WorkOrderHandler
	Inventory *InventoryHandler
	Reports   *ReportHandler
}

// RegisterRoutes mounts the API surface under the given prefix. Every domain
// route sits behind authentication plus a permission gate derived from the
// caller's matrix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService) {
	api := r.Group(prefix)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/refresh-token", h.Auth.Refresh)
		authGroup.POST("/logout", middleware.Authenticate(auth), h.Auth.Logout)
		authGroup.GET("/me", middleware.Authenticate(auth), h.Auth.Me)
	}

	orders := api.Group("/ordenes", middleware.Authenticate(auth))
	{
		orders.GET("", middleware.RequirePermission(models.ModuleOrders, models.ActionView), h.Orders.List)
		orders.GET("/:id", middleware.RequirePermission(models.ModuleOrders, models.ActionView), h.Orders.Get)
		orders.POST("", middleware.RequirePermission(models.ModuleOrders, models.ActionCreate), h.Orders.Create)
		orders.PUT("/:id", middleware.RequirePermission(models.ModuleOrders, models.ActionEdit), h.Orders.Update)
		orders.PATCH("/:id/estado", middleware.RequirePermission(models.ModuleOrders, models.ActionEdit), h.Orders.TransitionStatus)
		orders.DELETE("/:id", middleware.RequirePermission(models.ModuleOrders, models.ActionDelete), h.Orders.Delete)
	}

	inventory := api.Group("/inventario", middleware.Authenticate(auth))
	{
		inventory.GET("", middleware.RequirePermission(models.ModuleInventory, models.ActionView), h.Inventory.List)
		inventory.GET("/bajo-stock", middleware.RequirePermission(models.ModuleInventory, models.ActionView), h.Inventory.ListBelowMinimum)
		inventory.GET("/:id", middleware.RequirePermission(models.ModuleInventory, models.ActionView), h.Inventory.Get)
		inventory.POST("", middleware.RequirePermission(models.ModuleInventory, models.ActionCreate), h.Inventory.Create)
		inventory.PUT("/:id", middleware.RequirePermission(models.ModuleInventory, models.ActionEdit), h.Inventory.Update)
		inventory.POST("/:id/ajustar", middleware.RequirePermission(models.ModuleInventory, models.ActionEdit), h.Inventory.Adjust)
		inventory.DELETE("/:id", middleware.RequirePermission(models.ModuleInventory, models.ActionDelete), h.Inventory.Delete)
	}

	users := api.Group("/users", middleware.Authenticate(auth))
	{
		users.GET("", middleware.RequirePermission(models.ModuleUsers, models.ActionView), h.Users.List)
		users.GET("/roles", middleware.RequirePermission(models.ModuleUsers, models.ActionView), h.Users.Roles)
		users.GET("/:id", middleware.RequirePermission(models.ModuleUsers, models.ActionView), h.Users.Get)
		users.POST("", middleware.RequirePermission(models.ModuleUsers, models.ActionCreate), h.Users.Create)
		users.PUT("/:id", middleware.RequirePermission(models.ModuleUsers, models.ActionEdit), h.Users.Update)
		users.DELETE("/:id", middleware.RequirePermission(models.ModuleUsers, models.ActionDelete), h.Users.Delete)
	}

	reports := api.Group("/reportes", middleware.Authenticate(auth))
	{
		reports.GET("/estadisticas/ordenes", middleware.RequirePermission(models.ModuleReports, models.ActionGenerate), h.Reports.OrderStatistics)
		reports.GET("/estadisticas/inventario", middleware.RequirePermission(models.ModuleReports, models.ActionGenerate), h.Reports.InventoryStatistics)
		reports.GET("/ordenes-completadas.csv", middleware.RequirePermission(models.ModuleReports, models.ActionExport), h.Reports.CompletedOrdersExport(service.FormatCSV))
		reports.GET("/ordenes-completadas.pdf", middleware.RequirePermission(models.ModuleReports, models.ActionExport), h.Reports.CompletedOrdersExport(service.FormatPDF))
		reports.GET("/inventario.csv", middleware.RequirePermission(models.ModuleReports, models.ActionExport), h.Reports.InventoryExport(service.FormatCSV))
		reports.GET("/inventario.pdf", middleware.RequirePermission(models.ModuleReports, models.ActionExport), h.Reports.InventoryExport(service.FormatPDF))
	}
}
