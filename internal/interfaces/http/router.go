package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow/internal/application/inventory"
	"github.com/jhoicas/stockflow/internal/application/purchase"
	"github.com/jhoicas/stockflow/internal/application/usecase"
	invdomain "github.com/jhoicas/stockflow/internal/domain/inventory"
	"github.com/jhoicas/stockflow/internal/domain/requisition"
	"github.com/jhoicas/stockflow/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	StockInUC     *inventory.StockInUseCase
	StockOutUC    *inventory.StockOutUseCase
	AdjustmentUC  *inventory.AdjustmentUseCase
	RequisitionUC *purchase.RequisitionUseCase
	JWTSecret     string
	Logger        *logger.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger.Component("http")
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, log)
	products.Post("/", RequireRole(RoleInventoryManager), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/:id/recompute", RequireRole(RoleInventoryManager), productHandler.Recompute)

	// Stock ins
	stockIns := protected.Group("/stock-ins")
	stockInHandler := NewStockInHandler(deps.StockInUC, log)
	stockIns.Post("/", stockInHandler.Create)
	stockIns.Get("/", stockInHandler.List)
	stockIns.Get("/:id", stockInHandler.GetByID)
	stockIns.Put("/:id", stockInHandler.Update)
	stockIns.Delete("/:id", stockInHandler.Delete)
	stockIns.Post("/:id/lines", stockInHandler.AddLine)
	stockIns.Put("/:id/lines/:lineId", stockInHandler.UpdateLine)
	stockIns.Delete("/:id/lines/:lineId", stockInHandler.RemoveLine)
	for _, a := range []invdomain.Action{invdomain.ActionSubmit, invdomain.ActionApprove, invdomain.ActionReject, invdomain.ActionReset} {
		stockIns.Post("/:id/"+string(a), stockInHandler.Transition(a))
	}

	// Stock outs
	stockOuts := protected.Group("/stock-outs")
	stockOutHandler := NewStockOutHandler(deps.StockOutUC, log)
	stockOuts.Post("/", stockOutHandler.Create)
	stockOuts.Get("/", stockOutHandler.List)
	stockOuts.Get("/:id", stockOutHandler.GetByID)
	stockOuts.Put("/:id", stockOutHandler.Update)
	stockOuts.Delete("/:id", stockOutHandler.Delete)
	stockOuts.Post("/:id/lines", stockOutHandler.AddLine)
	stockOuts.Put("/:id/lines/:lineId", stockOutHandler.UpdateLine)
	stockOuts.Delete("/:id/lines/:lineId", stockOutHandler.RemoveLine)
	for _, a := range []invdomain.Action{
		invdomain.ActionRequest, invdomain.ActionLineManager, invdomain.ActionCheck, invdomain.ActionIssue,
		invdomain.ActionReject, invdomain.ActionReset, invdomain.ActionReview, invdomain.ActionBackToLineManager,
	} {
		stockOuts.Post("/:id/"+string(a), stockOutHandler.Transition(a))
	}

	// Stock adjustments
	adjustments := protected.Group("/stock-adjustments")
	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentUC, log)
	adjustments.Post("/", adjustmentHandler.Create)
	adjustments.Get("/", adjustmentHandler.List)
	adjustments.Get("/:id", adjustmentHandler.GetByID)
	adjustments.Put("/:id", adjustmentHandler.Update)
	adjustments.Delete("/:id", adjustmentHandler.Delete)
	adjustments.Post("/:id/lines", adjustmentHandler.AddLine)
	adjustments.Put("/:id/lines/:lineId", adjustmentHandler.UpdateLine)
	adjustments.Delete("/:id/lines/:lineId", adjustmentHandler.RemoveLine)
	for _, a := range []invdomain.Action{
		invdomain.ActionSubmit, invdomain.ActionLineManager, invdomain.ActionVerify,
		invdomain.ActionApprove, invdomain.ActionReject, invdomain.ActionReview,
	} {
		adjustments.Post("/:id/"+string(a), adjustmentHandler.Transition(a))
	}

	// Requisitions
	requisitions := protected.Group("/requisitions")
	requisitionHandler := NewRequisitionHandler(deps.RequisitionUC, log)
	requisitions.Post("/", requisitionHandler.Create)
	requisitions.Get("/", requisitionHandler.List)
	requisitions.Get("/:id", requisitionHandler.GetByID)
	requisitions.Put("/:id", requisitionHandler.Update)
	requisitions.Delete("/:id", requisitionHandler.Delete)
	requisitions.Post("/:id/lines", requisitionHandler.AddLine)
	requisitions.Put("/:id/lines/:lineId", requisitionHandler.UpdateLine)
	requisitions.Delete("/:id/lines/:lineId", requisitionHandler.RemoveLine)
	requisitions.Get("/:id/purchase-order", requisitionHandler.PurchaseOrder)
	requisitions.Post("/:id/authorize", requisitionHandler.Authorize)
	for _, a := range []requisition.Action{
		requisition.ActionSubmit, requisition.ActionReview, requisition.ActionBackToDraft,
		requisition.ActionApprove, requisition.ActionReject,
	} {
		requisitions.Post("/:id/"+string(a), requisitionHandler.Transition(a))
	}
}
