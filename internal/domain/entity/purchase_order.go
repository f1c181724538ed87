package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de orden de compra creada desde una requisición.
const PurchaseOrderStateDraft = "draft"

// PurchaseOrder orden de compra del subsistema de compras.
type PurchaseOrder struct {
	ID        string
	PartnerID string // proveedor
	Origin    string // referencia de la requisición
	OrderDate time.Time
	State     string
	Lines     []PurchaseOrderLine
	CreatedAt time.Time
}

// PurchaseOrderLine línea de la orden de compra.
type PurchaseOrderLine struct {
	ID          string
	OrderID     string
	ProductID   string // variante del producto
	Name        string
	ProductQty  decimal.Decimal
	PriceUnit   decimal.Decimal
	ProductUOM  string
	DatePlanned time.Time
}
