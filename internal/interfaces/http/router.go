package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/stock-ledger-api/internal/application/analytics"
	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ProductUC     *usecase.ProductUseCase
	LocationUC    *usecase.LocationUseCase
	TransactionUC *usecase.TransactionUseCase
	StockUC       *inventory.StockUseCase
	ReportUC      *inventory.ReportUseCase
	ImportUC      *inventory.ImportUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	adminOnly := RequireRole(entity.RoleAdmin)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleStaff)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token con rol)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), anyRole)

	authGroup := protected.Group("/auth")
	authGroup.Put("/password", authHandler.ChangePassword)
	authGroup.Post("/register", adminOnly, authHandler.Register)

	// Products: las rutas fijas van antes de /:id
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.StockUC, deps.ReportUC, deps.ImportUC)
	products.Get("/", productHandler.List)
	products.Post("/", adminOnly, productHandler.Create)
	products.Post("/import", adminOnly, productHandler.Import)
	products.Get("/labels.pdf", productHandler.Labels)
	products.Get("/code/:code", productHandler.GetByCode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Get("/:id/ledger", productHandler.Ledger)
	products.Get("/:id/ledger.pdf", productHandler.LedgerPDF)
	products.Get("/:id/stock", productHandler.Stock)
	products.Get("/:id/balance", productHandler.Balance)

	// Locations
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Get("/", locationHandler.List)
	locations.Post("/", adminOnly, locationHandler.Create)
	locations.Get("/:id", locationHandler.GetByID)

	// Transactions
	transactions := protected.Group("/transactions")
	txHandler := NewTransactionHandler(deps.TransactionUC)
	transactions.Get("/", txHandler.List)
	transactions.Post("/", txHandler.Create)
	transactions.Get("/:id", txHandler.GetByID)
	transactions.Put("/:id", txHandler.Update)
	transactions.Delete("/:id", txHandler.Delete)
	transactions.Post("/:id/reverse", txHandler.Reverse)

	// Stock, escaneo y dashboard
	stockHandler := NewStockHandler(deps.StockUC)
	protected.Get("/stock", stockHandler.List)
	protected.Get("/scan/:code", stockHandler.Scan)
	protected.Get("/dashboard/summary", NewDashboardHandler(deps.DashboardUC).GetSummary)
}
