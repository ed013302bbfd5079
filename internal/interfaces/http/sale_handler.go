package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
)

// SaleHandler endpoints de ventas.
type SaleHandler struct {
	uc *inventory.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *inventory.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Commit godoc
// @Summary      Registrar venta
// @Description  Crea la venta, descuenta stock por línea y registra un movimiento OUT/SALE por cada una. Con Idempotency-Key repetida devuelve la venta original (200) sin mutar stock.
// @Tags         Ventas
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        Idempotency-Key  header    string                  false  "Clave de idempotencia"
// @Param        body             body      dto.CommitSaleRequest   true   "Venta"
// @Success      201              {object}  dto.SaleResponse
// @Success      200              {object}  dto.SaleResponse        "Reintento con la misma clave"
// @Failure      400              {object}  dto.ErrorResponse
// @Failure      404              {object}  dto.ErrorResponse
// @Failure      409              {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Commit(c *fiber.Ctx) error {
	actor := GetUserID(c)
	if actor == "" {
		return unauthorized(c)
	}
	var in dto.CommitSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	// c.Get apunta al buffer de fasthttp, que se reutiliza entre requests.
	if key := c.Get("Idempotency-Key"); key != "" {
		in.IdempotencyKey = utils.CopyString(key)
	}
	out, err := h.uc.CommitSale(c.Context(), actor, in)
	if err != nil {
		return writeError(c, err)
	}
	status := fiber.StatusCreated
	if out.Replayed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(out)
}

// Get godoc
// @Summary      Obtener venta
// @Tags         Ventas
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF de la venta
// @Tags         Ventas
// @Produce      application/pdf
// @Security     Bearer
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	pdf, invoiceNumber, err := h.uc.Receipt(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", invoiceNumber+".pdf"))
	return c.Send(pdf)
}

// Reverse godoc
// @Summary      Eliminar venta
// @Description  Borra la venta y repone el stock pendiente según el libro. 409 si tiene devoluciones.
// @Tags         Ventas
// @Security     Bearer
// @Param        id   path  string  true  "ID de la venta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Reverse(c *fiber.Ctx) error {
	actor := GetUserID(c)
	if actor == "" {
		return unauthorized(c)
	}
	if err := h.uc.ReverseSale(c.Context(), actor, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
