package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Formato de fechas de documentos (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// StockInLineRequest línea de entrada. En creación ProductID es obligatorio;
// Quantity y UnitCost por defecto 1. En actualización los campos vacíos no cambian.
type StockInLineRequest struct {
	ProductID   string           `json:"product_id"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
	UnitMeasure string           `json:"unit_measure"`
}

// CreateStockInRequest body para POST /api/stock-ins.
type CreateStockInRequest struct {
	GoodsReceivedDate string               `json:"goods_received_date"` // vacío = hoy
	PurchaserID       string               `json:"purchaser_id"`
	DeliveryNoteNo    string               `json:"delivery_note_no"`
	SupplierID        string               `json:"supplier_id"`
	ReceiverID        string               `json:"receiver_id"` // vacío = empleado del token
	Lines             []StockInLineRequest `json:"lines"`
}

// UpdateStockInRequest body para PUT /api/stock-ins/:id (solo cabecera).
type UpdateStockInRequest struct {
	GoodsReceivedDate *string `json:"goods_received_date"`
	PurchaserID       *string `json:"purchaser_id"`
	DeliveryNoteNo    *string `json:"delivery_note_no"`
	SupplierID        *string `json:"supplier_id"`
	ReceiverID        *string `json:"receiver_id"`
}

// StockInLineResponse línea de entrada; State es el del documento.
type StockInLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Cost        decimal.Decimal `json:"cost"`
	UnitMeasure string          `json:"unit_measure"`
	State       string          `json:"state"`
}

// StockInResponse salida de una entrada.
type StockInResponse struct {
	ID                string                `json:"id"`
	Reference         string                `json:"reference"`
	GoodsReceivedDate string                `json:"goods_received_date"`
	PurchaserID       string                `json:"purchaser_id"`
	DeliveryNoteNo    string                `json:"delivery_note_no"`
	SupplierID        string                `json:"supplier_id"`
	ReceiverID        string                `json:"receiver_id"`
	State             string                `json:"state"`
	TotalUnitCost     decimal.Decimal       `json:"total_unit_cost"`
	TotalCost         decimal.Decimal       `json:"total_cost"`
	Lines             []StockInLineResponse `json:"lines"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// StockOutLineRequest línea de salida.
type StockOutLineRequest struct {
	ProductID      string           `json:"product_id"`
	IssuedQuantity *decimal.Decimal `json:"issued_quantity"`
}

// CreateStockOutRequest body para POST /api/stock-outs.
type CreateStockOutRequest struct {
	StockOutDate string                `json:"stock_out_date"` // vacío = hoy
	Member       string                `json:"member"`
	IssuerID     string                `json:"issuer_id"`
	Lines        []StockOutLineRequest `json:"lines"`
}

// UpdateStockOutRequest body para PUT /api/stock-outs/:id.
type UpdateStockOutRequest struct {
	Member   *string `json:"member"`
	IssuerID *string `json:"issuer_id"`
}

// StockOutLineResponse línea de salida con el saldo actual del producto.
type StockOutLineResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	IssuedQuantity decimal.Decimal `json:"issued_quantity"`
	BalanceStock   decimal.Decimal `json:"balance_stock"`
	State          string          `json:"state"`
}

// StockOutResponse salida de un despacho.
type StockOutResponse struct {
	ID           string                 `json:"id"`
	Reference    string                 `json:"reference"`
	StockOutDate string                 `json:"stock_out_date"`
	Member       string                 `json:"member"`
	IssuerID     string                 `json:"issuer_id"`
	State        string                 `json:"state"`
	Lines        []StockOutLineResponse `json:"lines"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// StockAdjustmentLineRequest línea de ajuste.
type StockAdjustmentLineRequest struct {
	ProductID  string           `json:"product_id"`
	Adjustment *decimal.Decimal `json:"adjustment"`
	Reason     *string          `json:"reason"`
}

// CreateStockAdjustmentRequest body para POST /api/stock-adjustments.
type CreateStockAdjustmentRequest struct {
	Date           string                       `json:"date"`
	EmployeeID     string                       `json:"employee_id"` // vacío = empleado del token
	AttachmentName string                       `json:"attachment_name"`
	Lines          []StockAdjustmentLineRequest `json:"lines"`
}

// UpdateStockAdjustmentRequest body para PUT /api/stock-adjustments/:id.
type UpdateStockAdjustmentRequest struct {
	Date           *string `json:"date"`
	AttachmentName *string `json:"attachment_name"`
}

// StockAdjustmentLineResponse línea de ajuste con existencias y fecha del documento.
type StockAdjustmentLineResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	Adjustment     decimal.Decimal `json:"adjustment"`
	Reason         string          `json:"reason"`
	Available      decimal.Decimal `json:"available"`
	AdjustmentDate string          `json:"adjustment_date"`
	State          string          `json:"state"`
}

// StockAdjustmentResponse salida de un ajuste.
type StockAdjustmentResponse struct {
	ID             string                        `json:"id"`
	Reference      string                        `json:"reference"`
	Date           string                        `json:"date"`
	EmployeeID     string                        `json:"employee_id"`
	AttachmentName string                        `json:"attachment_name"`
	State          string                        `json:"state"`
	Lines          []StockAdjustmentLineResponse `json:"lines"`
	CreatedAt      time.Time                     `json:"created_at"`
	UpdatedAt      time.Time                     `json:"updated_at"`
}
