package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow/internal/application/dto"
	"github.com/jhoicas/stockflow/internal/application/purchase"
	"github.com/jhoicas/stockflow/internal/domain/requisition"
	"github.com/jhoicas/stockflow/pkg/logger"
)

// RequisitionHandler requisiciones de compra. El control de escritura por rol se
// aplica en el caso de uso con el actor del token.
type RequisitionHandler struct {
	uc  *purchase.RequisitionUseCase
	log *logger.Logger
}

// NewRequisitionHandler construye el handler.
func NewRequisitionHandler(uc *purchase.RequisitionUseCase, log *logger.Logger) *RequisitionHandler {
	return &RequisitionHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear requisición
// @Description  Crea la requisición en borrador con referencia PR/00001.
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequisitionRequest  true  "Requisición y líneas"
// @Success      201   {object}  dto.RequisitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/requisitions [post]
func (h *RequisitionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequisitionRequest
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
// @Summary      Obtener requisición
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la requisición"
// @Success      200  {object}  dto.RequisitionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id} [get]
func (h *RequisitionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar requisiciones
// @Description  Aprobadores no ven borradores ni enviadas; autorizadores tampoco ven revisadas.
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        state   query  string  false  "Estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.RequisitionResponse
// @Router       /api/requisitions [get]
func (h *RequisitionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetActor(c), listRequest(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar requisición
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la requisición"
// @Param        body  body  dto.UpdateRequisitionRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.RequisitionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id} [put]
func (h *RequisitionHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRequisitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar requisición
// @Description  Solo requisiciones en borrador.
// @Tags         requisitions
// @Security     Bearer
// @Param        id   path  string  true  "ID de la requisición"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id} [delete]
func (h *RequisitionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RequisitionHandler) AddLine(c *fiber.Ctx) error {
	var in dto.RequisitionLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddLine(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *RequisitionHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.RequisitionLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateLine(c.UserContext(), GetActor(c), c.Params("id"), c.Params("lineId"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *RequisitionHandler) RemoveLine(c *fiber.Ctx) error {
	out, err := h.uc.RemoveLine(c.UserContext(), GetActor(c), c.Params("id"), c.Params("lineId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Botón del flujo de la requisición
// @Description  action: submit, review, back-to-draft, approve, reject.
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID de la requisición"
// @Param        action  path  string  true  "Acción"
// @Success      200     {object}  dto.ActionResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/{action} [post]
func (h *RequisitionHandler) Transition(action requisition.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, err := h.uc.Transition(c.UserContext(), GetActor(c), c.Params("id"), action)
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(dto.ActionResponse{Success: true, State: state.String()})
	}
}

// Authorize godoc
// @Summary      Autorizar requisición
// @Description  Exige proveedor y variante en cada producto; crea la orden de compra y deja la requisición autorizada.
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la requisición"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/authorize [post]
func (h *RequisitionHandler) Authorize(c *fiber.Ctx) error {
	out, err := h.uc.Authorize(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// PurchaseOrder godoc
// @Summary      Orden de compra de la requisición
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la requisición"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/purchase-order [get]
func (h *RequisitionHandler) PurchaseOrder(c *fiber.Ctx) error {
	out, err := h.uc.GetPurchaseOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
