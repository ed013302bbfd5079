package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	StoreUC      *usecase.StoreUseCase
	SaleUC       *inventory.SaleUseCase
	ReturnUC     *inventory.ReturnUseCase
	AdjustmentUC *inventory.AdjustmentUseCase
	StockUC      *inventory.StockUseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Delete("/:id", productHandler.Delete)

	stores := api.Group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores.Post("/", storeHandler.Create)
	stores.Get("/", storeHandler.List)
	stores.Get("/:id", storeHandler.GetByID)
	stores.Delete("/:id", storeHandler.Delete)

	sales := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Post("/", saleHandler.Commit)
	sales.Get("/:id", saleHandler.Get)
	sales.Get("/:id/receipt", saleHandler.Receipt)
	sales.Delete("/:id", saleHandler.Reverse)

	returns := api.Group("/returns")
	returnHandler := NewReturnHandler(deps.ReturnUC)
	returns.Post("/", returnHandler.Create)
	returns.Get("/:id", returnHandler.Get)
	returns.Post("/:id/settle", returnHandler.Settle)
	returns.Delete("/:id", returnHandler.Delete)

	adjustments := api.Group("/adjustments")
	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentUC)
	adjustments.Post("/", adjustmentHandler.Apply)
	adjustments.Get("/:id", adjustmentHandler.Get)
	adjustments.Post("/:id/approve", adjustmentHandler.Approve)
	adjustments.Post("/:id/reject", adjustmentHandler.Reject)

	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Get("/", stockHandler.Get)
	stock.Get("/movements", stockHandler.Movements)
	stock.Get("/verify", stockHandler.Verify)
}
