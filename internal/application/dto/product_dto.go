package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	DefaultCode  string  `json:"default_code"`
	UnitMeasure  string  `json:"unit_measure"`
	DepartmentID string  `json:"department_id"`
	VariantID    *string `json:"variant_id"`
}

// ProductResponse salida de un producto con sus saldos derivados (solo lectura).
type ProductResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	DefaultCode        string          `json:"default_code"`
	UnitMeasure        string          `json:"unit_measure"`
	DepartmentID       string          `json:"department_id"`
	VariantID          *string         `json:"variant_id,omitempty"`
	PurchasedQuantity  decimal.Decimal `json:"purchased_quantity"`
	IssuedQuantity     decimal.Decimal `json:"issued_quantity"`
	AdjustmentQuantity decimal.Decimal `json:"adjustment_quantity"`
	BalanceStock       decimal.Decimal `json:"balance_stock"`
	QtyAvailable       decimal.Decimal `json:"qty_available"`
	VirtualAvailable   decimal.Decimal `json:"virtual_available"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
