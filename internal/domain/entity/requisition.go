package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Requisition requisición de compra con flujo de aprobación.
type Requisition struct {
	ID              string
	Reference       string
	VendorID        *string // proveedor preferido
	RequesterID     string
	DepartmentID    string
	State           State
	PurchaseOrderID *string // se asigna al autorizar
	Lines           []RequisitionLine
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RequisitionLine línea de requisición.
type RequisitionLine struct {
	ID             string
	RequisitionID  string
	ProductID      string
	Quantity       decimal.Decimal
	Specifications string
	EstimatedCost  decimal.Decimal
	BudgetCode     string
	Justification  string
}

// HasVendor indica si hay proveedor preferido seleccionado.
func (r *Requisition) HasVendor() bool {
	return r.VendorID != nil && *r.VendorID != ""
}

// Line busca una línea por ID.
func (r *Requisition) Line(lineID string) (*RequisitionLine, bool) {
	for i := range r.Lines {
		if r.Lines[i].ID == lineID {
			return &r.Lines[i], true
		}
	}
	return nil, false
}
