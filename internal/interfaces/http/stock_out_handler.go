package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow/internal/application/dto"
	"github.com/jhoicas/stockflow/internal/application/inventory"
	invdomain "github.com/jhoicas/stockflow/internal/domain/inventory"
	"github.com/jhoicas/stockflow/pkg/logger"
)

// StockOutHandler salidas (despachos) de inventario.
type StockOutHandler struct {
	uc  *inventory.StockOutUseCase
	log *logger.Logger
}

// NewStockOutHandler construye el handler.
func NewStockOutHandler(uc *inventory.StockOutUseCase, log *logger.Logger) *StockOutHandler {
	return &StockOutHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear salida
// @Tags         stock-outs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockOutRequest  true  "Salida y líneas"
// @Success      201   {object}  dto.StockOutResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock-outs [post]
func (h *StockOutHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener salida
// @Tags         stock-outs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la salida"
// @Success      200  {object}  dto.StockOutResponse
// @Router       /api/stock-outs/{id} [get]
func (h *StockOutHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar salidas
// @Tags         stock-outs
// @Security     Bearer
// @Produce      json
// @Param        state   query  string  false  "Estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.StockOutResponse
// @Router       /api/stock-outs [get]
func (h *StockOutHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), listRequest(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar salida
// @Tags         stock-outs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la salida"
// @Param        body  body  dto.UpdateStockOutRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.StockOutResponse
// @Router       /api/stock-outs/{id} [put]
func (h *StockOutHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar salida
// @Description  No se puede eliminar una salida despachada.
// @Tags         stock-outs
// @Security     Bearer
// @Param        id   path  string  true  "ID de la salida"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-outs/{id} [delete]
func (h *StockOutHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *StockOutHandler) AddLine(c *fiber.Ctx) error {
	var in dto.StockOutLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddLine(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *StockOutHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.StockOutLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateLine(c.UserContext(), c.Params("id"), c.Params("lineId"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *StockOutHandler) RemoveLine(c *fiber.Ctx) error {
	out, err := h.uc.RemoveLine(c.UserContext(), c.Params("id"), c.Params("lineId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Botón del flujo de la salida
// @Description  action: request, line-manager, check, issue, reject, reset, review, back-to-line-manager.
// @Description  check exige cantidad > 0 y saldo suficiente en todas las líneas.
// @Tags         stock-outs
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID de la salida"
// @Param        action  path  string  true  "Acción"
// @Success      200     {object}  dto.ActionResponse
// @Failure      422     {object}  dto.ErrorResponse
// @Router       /api/stock-outs/{id}/{action} [post]
func (h *StockOutHandler) Transition(action invdomain.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, err := h.uc.Transition(c.UserContext(), GetActor(c), c.Params("id"), action)
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(dto.ActionResponse{Success: true, State: state.String()})
	}
}
