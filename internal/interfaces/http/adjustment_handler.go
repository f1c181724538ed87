package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow/internal/application/dto"
	"github.com/jhoicas/stockflow/internal/application/inventory"
	invdomain "github.com/jhoicas/stockflow/internal/domain/inventory"
	"github.com/jhoicas/stockflow/pkg/logger"
)

// AdjustmentHandler ajustes de inventario.
type AdjustmentHandler struct {
	uc  *inventory.AdjustmentUseCase
	log *logger.Logger
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(uc *inventory.AdjustmentUseCase, log *logger.Logger) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear ajuste
// @Tags         stock-adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockAdjustmentRequest  true  "Ajuste y líneas"
// @Success      201   {object}  dto.StockAdjustmentResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock-adjustments [post]
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockAdjustmentRequest
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
// @Summary      Obtener ajuste
// @Tags         stock-adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.StockAdjustmentResponse
// @Router       /api/stock-adjustments/{id} [get]
func (h *AdjustmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ajustes
// @Tags         stock-adjustments
// @Security     Bearer
// @Produce      json
// @Param        state   query  string  false  "Estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.StockAdjustmentResponse
// @Router       /api/stock-adjustments [get]
func (h *AdjustmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), listRequest(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar ajuste
// @Tags         stock-adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ajuste"
// @Param        body  body  dto.UpdateStockAdjustmentRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.StockAdjustmentResponse
// @Router       /api/stock-adjustments/{id} [put]
func (h *AdjustmentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockAdjustmentRequest
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
// @Summary      Eliminar ajuste
// @Description  No se puede eliminar un ajuste aprobado.
// @Tags         stock-adjustments
// @Security     Bearer
// @Param        id   path  string  true  "ID del ajuste"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-adjustments/{id} [delete]
func (h *AdjustmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdjustmentHandler) AddLine(c *fiber.Ctx) error {
	var in dto.StockAdjustmentLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddLine(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AdjustmentHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.StockAdjustmentLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateLine(c.UserContext(), c.Params("id"), c.Params("lineId"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *AdjustmentHandler) RemoveLine(c *fiber.Ctx) error {
	out, err := h.uc.RemoveLine(c.UserContext(), c.Params("id"), c.Params("lineId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Botón del flujo del ajuste
// @Description  action: submit, line-manager, verify, approve, reject, review.
// @Description  submit y verify exigen ajuste > 0 en todas las líneas.
// @Tags         stock-adjustments
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID del ajuste"
// @Param        action  path  string  true  "Acción"
// @Success      200     {object}  dto.ActionResponse
// @Failure      422     {object}  dto.ErrorResponse
// @Router       /api/stock-adjustments/{id}/{action} [post]
func (h *AdjustmentHandler) Transition(action invdomain.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, err := h.uc.Transition(c.UserContext(), GetActor(c), c.Params("id"), action)
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(dto.ActionResponse{Success: true, State: state.String()})
	}
}
