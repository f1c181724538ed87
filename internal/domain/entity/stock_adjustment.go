package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAdjustment documento de ajuste de inventario.
type StockAdjustment struct {
	ID             string
	Reference      string // INVENTORY/ADJUSTMENT/00N
	Date           time.Time
	EmployeeID     string
	AttachmentName string
	State          State
	Lines          []StockAdjustmentLine
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StockAdjustmentLine línea de ajuste. Adjustment positivo descuenta del saldo.
type StockAdjustmentLine struct {
	ID                string
	StockAdjustmentID string
	ProductID         string
	Adjustment        decimal.Decimal
	Reason            string
}

// ProductIDs productos referenciados por las líneas.
func (d *StockAdjustment) ProductIDs() []string {
	ids := make([]string, 0, len(d.Lines))
	for _, l := range d.Lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

// Line busca una línea por ID.
func (d *StockAdjustment) Line(lineID string) (*StockAdjustmentLine, bool) {
	for i := range d.Lines {
		if d.Lines[i].ID == lineID {
			return &d.Lines[i], true
		}
	}
	return nil, false
}
