package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
)

// StockHandler consultas de stock y del libro de movimientos.
type StockHandler struct {
	uc *inventory.StockUseCase
}

func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Get godoc
// @Summary      Stock actual de un producto en una tienda
// @Tags         Stock
// @Produce      json
// @Security     Bearer
// @Param        product_id  query     string  true  "ID del producto"
// @Param        store_id    query     string  true  "ID de la tienda"
// @Success      200         {object}  dto.StockResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetQuantity(c.Context(), c.Query("product_id"), c.Query("store_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Movimientos del par producto+tienda
// @Tags         Stock
// @Produce      json
// @Security     Bearer
// @Param        product_id  query     string  true   "ID del producto"
// @Param        store_id    query     string  true   "ID de la tienda"
// @Param        limit       query     int     false  "Límite (default 20)"
// @Param        offset      query     int     false  "Desplazamiento"
// @Success      200         {object}  dto.MovementListResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "limit/offset inválidos"})
	}
	out, err := h.uc.ListMovements(c.Context(), c.Query("product_id"), c.Query("store_id"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Verify godoc
// @Summary      Verificar stock contra el libro
// @Description  consistent=false indica que el stock no coincide con la suma de movimientos.
// @Tags         Stock
// @Produce      json
// @Security     Bearer
// @Param        product_id  query     string  true  "ID del producto"
// @Param        store_id    query     string  true  "ID de la tienda"
// @Success      200         {object}  dto.LedgerCheckResponse
// @Router       /api/stock/verify [get]
func (h *StockHandler) Verify(c *fiber.Ctx) error {
	out, err := h.uc.VerifyPair(c.Context(), c.Query("product_id"), c.Query("store_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
