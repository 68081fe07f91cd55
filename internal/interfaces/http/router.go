package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/pos-inventario/internal/application/analytics"
	"github.com/jhoicas/pos-inventario/internal/application/cart"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/application/usecase"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	LocationUC  *usecase.LocationUseCase
	SupplierUC  *usecase.SupplierUseCase
	StockLedger *inventory.StockLedgerUseCase
	SaleUC      *sales.SaleUseCase
	ReceiptUC   *sales.ReceiptUseCase
	CartUC      *cart.CartUseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
	Log         *logger.Logger
}

// Router registra las rutas de la API. Todo bajo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Catálogo
	productHandler := NewProductHandler(deps.ProductUC, deps.Log)
	products := protected.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id/prices", productHandler.UpdatePrices)
	products.Get("/:id/prices", productHandler.PriceHistory)

	categories := protected.Group("/categories")
	categories.Post("/", productHandler.CreateCategory)
	categories.Get("/", productHandler.ListCategories)

	locationHandler := NewLocationHandler(deps.LocationUC, deps.SupplierUC, deps.Log)
	locations := protected.Group("/locations")
	locations.Post("/", locationHandler.CreateLocation)
	locations.Get("/", locationHandler.ListLocations)
	locations.Delete("/:id", locationHandler.DeleteLocation)

	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", locationHandler.CreateSupplier)
	suppliers.Get("/", locationHandler.ListSuppliers)

	// Stock (/low antes de /:id)
	stockHandler := NewStockHandler(deps.StockLedger, deps.Log)
	stock := protected.Group("/stock")
	stock.Post("/", stockHandler.Create)
	stock.Get("/low", stockHandler.LowStock)
	stock.Get("/:id", stockHandler.Get)
	stock.Patch("/:id", stockHandler.UpdateAttributes)
	stock.Delete("/:id", stockHandler.Delete)
	stock.Put("/:id/quantity", stockHandler.AdjustQuantity)
	stock.Post("/:id/transfer", stockHandler.Transfer)
	stock.Get("/:id/history", stockHandler.History)

	// Ventas
	saleHandler := NewSaleHandler(deps.SaleUC, deps.ReceiptUC, deps.Log)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.Get)
	salesGroup.Get("/:id/receipt.pdf", saleHandler.Receipt)
	salesGroup.Post("/:id/returns", saleHandler.Return)

	// Carrito
	cartHandler := NewCartHandler(deps.CartUC, deps.Log)
	cartGroup := protected.Group("/cart")
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Delete("/", cartHandler.Clear)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Put("/items/:stockItemId", cartHandler.UpdateQuantity)
	cartGroup.Delete("/items/:stockItemId", cartHandler.RemoveItem)
	cartGroup.Put("/items/:stockItemId/price", cartHandler.SetPrice)
	cartGroup.Post("/finalize", cartHandler.Finalize)

	if deps.DashboardUC != nil {
		dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.Log)
		protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
	}
}
