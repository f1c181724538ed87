package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequisitionLineRequest línea de requisición (campos nil no cambian en actualización).
type RequisitionLineRequest struct {
	ProductID      string           `json:"product_id"`
	Quantity       *decimal.Decimal `json:"quantity"`
	Specifications *string          `json:"specifications"`
	EstimatedCost  *decimal.Decimal `json:"estimated_cost"`
	BudgetCode     *string          `json:"budget_code"`
	Justification  *string          `json:"justification"`
}

// CreateRequisitionRequest body para POST /api/requisitions.
type CreateRequisitionRequest struct {
	VendorID     *string                  `json:"vendor_id"`
	DepartmentID string                   `json:"department_id"`
	Lines        []RequisitionLineRequest `json:"lines"`
}

// UpdateRequisitionRequest body para PUT /api/requisitions/:id.
type UpdateRequisitionRequest struct {
	VendorID     *string `json:"vendor_id"` // "" quita el proveedor
	DepartmentID *string `json:"department_id"`
}

// RequisitionLineResponse línea de requisición.
type RequisitionLineResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Specifications string          `json:"specifications"`
	EstimatedCost  decimal.Decimal `json:"estimated_cost"`
	BudgetCode     string          `json:"budget_code"`
	Justification  string          `json:"justification"`
}

// RequisitionResponse salida de una requisición.
type RequisitionResponse struct {
	ID              string                    `json:"id"`
	Reference       string                    `json:"reference"`
	VendorID        *string                   `json:"vendor_id,omitempty"`
	RequesterID     string                    `json:"requester_id"`
	DepartmentID    string                    `json:"department_id"`
	State           string                    `json:"state"`
	PurchaseOrderID *string                   `json:"purchase_order_id,omitempty"`
	Lines           []RequisitionLineResponse `json:"lines"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// PurchaseOrderLineResponse línea de orden de compra.
type PurchaseOrderLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	ProductQty  decimal.Decimal `json:"product_qty"`
	PriceUnit   decimal.Decimal `json:"price_unit"`
	ProductUOM  string          `json:"product_uom"`
	DatePlanned string          `json:"date_planned"`
}

// PurchaseOrderResponse orden de compra creada al autorizar una requisición.
type PurchaseOrderResponse struct {
	ID        string                      `json:"id"`
	PartnerID string                      `json:"partner_id"`
	Origin    string                      `json:"origin"`
	OrderDate time.Time                   `json:"order_date"`
	State     string                      `json:"state"`
	Lines     []PurchaseOrderLineResponse `json:"lines"`
}
