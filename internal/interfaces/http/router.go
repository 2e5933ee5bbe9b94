package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	ProductUC        *usecase.ProductUseCase
	CategoryUC       *usecase.CategoryUseCase
	SupplierUC       *usecase.SupplierUseCase
	PriceHistoryUC   *usecase.PriceHistoryUseCase
	OrderUC          *inventory.OrderUseCase
	UsageUC          *inventory.UsageUseCase
	Alerts           *inventory.AlertEngine
	JWTSecret        string
	ExpiringSoonDays int
}

// Router registra las rutas de la API. Las rutas estáticas van antes de /:id.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth: register acepta token opcional (solo un admin puede asignar rol).
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", OptionalAuth(deps.JWTSecret), authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	adminOnly := RequireRole(entity.RoleAdmin)
	stockWriters := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor)

	// Categories
	categories := protected.Group("/categories", anyRole)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", stockWriters, categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", stockWriters, categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)
	categories.Get("/:id/products", categoryHandler.Products)

	// Products
	products := protected.Group("/products", anyRole)
	productHandler := NewProductHandler(deps.ProductUC, deps.PriceHistoryUC, deps.ExpiringSoonDays)
	products.Get("/", productHandler.List)
	products.Post("/", stockWriters, productHandler.Create)
	products.Get("/low_stock", productHandler.LowStock)
	products.Get("/out_of_stock", productHandler.OutOfStock)
	products.Get("/expired", productHandler.Expired)
	products.Get("/expiring_soon", productHandler.ExpiringSoon)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", stockWriters, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Get("/:id/price-history", productHandler.PriceHistory)
	products.Get("/:id/movements", productHandler.Movements)

	// Suppliers
	suppliers := protected.Group("/suppliers", anyRole)
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", stockWriters, supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", stockWriters, supplierHandler.Update)
	suppliers.Delete("/:id", adminOnly, supplierHandler.Delete)
	suppliers.Get("/:id/orders", supplierHandler.Orders)

	// Orders: lectura para todos, escritura admin/bodeguero
	orders := protected.Group("/orders", anyRole)
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Get("/", orderHandler.List)
	orders.Post("/", stockWriters, orderHandler.Create)
	orders.Get("/recent", orderHandler.Recent)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/update_status", stockWriters, orderHandler.UpdateStatus)
	orders.Get("/:id/lines", orderHandler.Lines)
	orders.Post("/:id/lines", stockWriters, orderHandler.AddLine)
	orders.Get("/:id/pdf", orderHandler.PDF)

	orderLines := protected.Group("/order-lines", stockWriters)
	orderLines.Put("/:id", orderHandler.UpdateLine)
	orderLines.Delete("/:id", orderHandler.DeleteLine)

	// Usages: cualquier rol puede dispensar o vender
	usages := protected.Group("/usages", anyRole)
	usageHandler := NewUsageHandler(deps.UsageUC)
	usages.Get("/", usageHandler.List)
	usages.Post("/", usageHandler.Create)
	usages.Get("/by_date_range", usageHandler.ByDateRange)
	usages.Get("/:id", usageHandler.GetByID)
	usages.Delete("/:id", usageHandler.Delete)
	usages.Get("/:id/lines", usageHandler.Lines)
	usages.Post("/:id/lines", usageHandler.AddLine)

	usageLines := protected.Group("/usage-lines", anyRole)
	usageLines.Put("/:id", usageHandler.UpdateLine)
	usageLines.Delete("/:id", usageHandler.DeleteLine)

	// Alerts
	alerts := protected.Group("/alerts", anyRole)
	alertHandler := NewAlertHandler(deps.Alerts)
	alerts.Get("/", alertHandler.List)
	alerts.Post("/mark_all_as_read", alertHandler.MarkAllRead)
	alerts.Post("/scan_expired", adminOnly, alertHandler.ScanExpired)
	alerts.Post("/:id/mark_as_read", alertHandler.MarkRead)
}
