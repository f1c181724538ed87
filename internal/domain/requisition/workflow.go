package requisition

import (
	"fmt"
	"time"

	"github.com/jhoicas/stockflow/internal/domain"
	"github.com/jhoicas/stockflow/internal/domain/entity"
)

// Action botón del flujo de la requisición.
type Action string

const (
	ActionSubmit      Action = "submit"
	ActionReview      Action = "review"
	ActionBackToDraft Action = "back-to-draft"
	ActionApprove     Action = "approve"
	ActionAuthorize   Action = "authorize"
	ActionReject      Action = "reject"
)

var targets = map[Action]entity.State{
	ActionSubmit:      entity.StateSubmitted,
	ActionReview:      entity.StateReviewed,
	ActionBackToDraft: entity.StateDraft,
	ActionApprove:     entity.StateApproved,
	ActionAuthorize:   entity.StateAuthorized,
	ActionReject:      entity.StateRejected,
}

// ValidState indica si el estado pertenece al flujo de la requisición.
func ValidState(s entity.State) bool {
	switch s {
	case entity.StateDraft, entity.StateSubmitted, entity.StateReviewed,
		entity.StateApproved, entity.StateAuthorized, entity.StateRejected:
		return true
	}
	return false
}

// Target estado destino de la acción.
func Target(a Action) (entity.State, error) {
	to, ok := targets[a]
	if !ok {
		return "", fmt.Errorf("%w: acción %q no válida para requisiciones", domain.ErrInvalidInput, a)
	}
	return to, nil
}

// CanTransition reglas de origen: autorizada es terminal (ya existe la orden de compra).
func CanTransition(from entity.State) error {
	if from == entity.StateAuthorized {
		return domain.Validation("la requisición ya fue autorizada")
	}
	return nil
}

// CanDelete solo se eliminan requisiciones en borrador.
func CanDelete(state entity.State) error {
	if state != entity.StateDraft {
		return domain.DeleteGuard("no se puede eliminar una requisición enviada")
	}
	return nil
}

// BuildPurchaseOrder arma la orden de compra de una requisición. Exige proveedor y que
// cada línea tenga un producto con variante; no crea nada si alguna línea falla.
// products: productos referenciados por las líneas, indexados por ID.
func BuildPurchaseOrder(req *entity.Requisition, products map[string]*entity.Product, now time.Time) (*entity.PurchaseOrder, error) {
	if !req.HasVendor() {
		return nil, domain.Validation("debe seleccionar un proveedor preferido para crear la orden de compra")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	po := &entity.PurchaseOrder{
		PartnerID: *req.VendorID,
		Origin:    req.Reference,
		OrderDate: now,
		State:     entity.PurchaseOrderStateDraft,
		Lines:     make([]entity.PurchaseOrderLine, 0, len(req.Lines)),
		CreatedAt: now,
	}
	for _, l := range req.Lines {
		product := products[l.ProductID]
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
		}
		if !product.HasVariant() {
			return nil, domain.Validation("el producto '%s' no tiene variante", product.Name)
		}
		name := l.Specifications
		if name == "" {
			name = product.Name
		}
		po.Lines = append(po.Lines, entity.PurchaseOrderLine{
			ProductID:   *product.VariantID,
			Name:        name,
			ProductQty:  l.Quantity,
			PriceUnit:   l.EstimatedCost,
			ProductUOM:  product.UnitMeasure,
			DatePlanned: today,
		})
	}
	return po, nil
}
