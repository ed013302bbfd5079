package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
)

// ReturnHandler endpoints de devoluciones.
type ReturnHandler struct {
	uc *inventory.ReturnUseCase
}

func NewReturnHandler(uc *inventory.ReturnUseCase) *ReturnHandler {
	return &ReturnHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar devolución
// @Description  Estado inicial PENDING por defecto. Con APPROVED o COMPLETED aplica stock de inmediato: GOOD reingresa, DAMAGED/DEFECTIVE solo se registra.
// @Tags         Devoluciones
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body      dto.CreateReturnRequest  true  "Devolución"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	actor := GetUserID(c)
	if actor == "" {
		return unauthorized(c)
	}
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateReturn(c.Context(), actor, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener devolución
// @Tags         Devoluciones
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "ID de la devolución"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/{id} [get]
func (h *ReturnHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetReturn(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Settle godoc
// @Summary      Cambiar estado de la devolución
// @Tags         Devoluciones
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path      string                   true  "ID de la devolución"
// @Param        body  body      dto.SettleReturnRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/settle [post]
func (h *ReturnHandler) Settle(c *fiber.Ctx) error {
	actor := GetUserID(c)
	if actor == "" {
		return unauthorized(c)
	}
	var in dto.SettleReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SettleReturn(c.Context(), actor, c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar devolución
// @Description  Solo PENDING o REJECTED.
// @Tags         Devoluciones
// @Security     Bearer
// @Param        id   path  string  true  "ID de la devolución"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/returns/{id} [delete]
func (h *ReturnHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteReturn(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
