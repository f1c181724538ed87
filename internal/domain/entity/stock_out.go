package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockOut documento de salida (despacho) de mercancía.
type StockOut struct {
	ID           string
	Reference    string // INVENTORY/STOCKOUT/00N
	StockOutDate time.Time
	Member       string // solicitante (texto libre)
	IssuerID     string
	State        State
	Lines        []StockOutLine
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StockOutLine línea de una salida.
type StockOutLine struct {
	ID             string
	StockOutID     string
	ProductID      string
	IssuedQuantity decimal.Decimal
}

// ProductIDs productos referenciados por las líneas.
func (d *StockOut) ProductIDs() []string {
	ids := make([]string, 0, len(d.Lines))
	for _, l := range d.Lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

// Line busca una línea por ID.
func (d *StockOut) Line(lineID string) (*StockOutLine, bool) {
	for i := range d.Lines {
		if d.Lines[i].ID == lineID {
			return &d.Lines[i], true
		}
	}
	return nil, false
}
