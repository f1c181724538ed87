package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow/internal/application/dto"
	"github.com/jhoicas/stockflow/internal/application/inventory"
	invdomain "github.com/jhoicas/stockflow/internal/domain/inventory"
	"github.com/jhoicas/stockflow/pkg/logger"
)

// StockInHandler entradas de mercancía.
type StockInHandler struct {
	uc  *inventory.StockInUseCase
	log *logger.Logger
}

// NewStockInHandler construye el handler.
func NewStockInHandler(uc *inventory.StockInUseCase, log *logger.Logger) *StockInHandler {
	return &StockInHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear entrada
// @Description  Crea la entrada en borrador con referencia INVENTORY/STOCKIN/00N.
// @Tags         stock-ins
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockInRequest  true  "Entrada y líneas"
// @Success      201   {object}  dto.StockInResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock-ins [post]
func (h *StockInHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockInRequest
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
// @Summary      Obtener entrada
// @Tags         stock-ins
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.StockInResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-ins/{id} [get]
func (h *StockInHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar entradas
// @Tags         stock-ins
// @Security     Bearer
// @Produce      json
// @Param        state   query  string  false  "Estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.StockInResponse
// @Router       /api/stock-ins [get]
func (h *StockInHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), listRequest(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cabecera de entrada
// @Tags         stock-ins
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la entrada"
// @Param        body  body  dto.UpdateStockInRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.StockInResponse
// @Router       /api/stock-ins/{id} [put]
func (h *StockInHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockInRequest
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
// @Summary      Eliminar entrada
// @Description  No se puede eliminar una entrada aprobada.
// @Tags         stock-ins
// @Security     Bearer
// @Param        id   path  string  true  "ID de la entrada"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-ins/{id} [delete]
func (h *StockInHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddLine godoc
// @Summary      Agregar línea a la entrada
// @Tags         stock-ins
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la entrada"
// @Param        body  body  dto.StockInLineRequest  true  "Línea"
// @Success      201   {object}  dto.StockInResponse
// @Router       /api/stock-ins/{id}/lines [post]
func (h *StockInHandler) AddLine(c *fiber.Ctx) error {
	var in dto.StockInLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddLine(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateLine godoc
// @Summary      Modificar línea de la entrada
// @Tags         stock-ins
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "ID de la entrada"
// @Param        lineId  path  string  true  "ID de la línea"
// @Param        body    body  dto.StockInLineRequest  true  "Campos a modificar"
// @Success      200     {object}  dto.StockInResponse
// @Router       /api/stock-ins/{id}/lines/{lineId} [put]
func (h *StockInHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.StockInLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateLine(c.UserContext(), c.Params("id"), c.Params("lineId"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// RemoveLine godoc
// @Summary      Eliminar línea de la entrada
// @Tags         stock-ins
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID de la entrada"
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      200     {object}  dto.StockInResponse
// @Router       /api/stock-ins/{id}/lines/{lineId} [delete]
func (h *StockInHandler) RemoveLine(c *fiber.Ctx) error {
	out, err := h.uc.RemoveLine(c.UserContext(), c.Params("id"), c.Params("lineId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Botón del flujo de la entrada
// @Description  action: submit, approve, reject, reset. Recalcula el saldo de los productos.
// @Tags         stock-ins
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID de la entrada"
// @Param        action  path  string  true  "Acción"
// @Success      200     {object}  dto.ActionResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/stock-ins/{id}/{action} [post]
func (h *StockInHandler) Transition(action invdomain.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, err := h.uc.Transition(c.UserContext(), GetActor(c), c.Params("id"), action)
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(dto.ActionResponse{Success: true, State: state.String()})
	}
}
