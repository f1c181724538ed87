package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockIn documento de entrada de mercancía (recepción de compras).
type StockIn struct {
	ID                string
	Reference         string // INVENTORY/STOCKIN/00N
	GoodsReceivedDate time.Time
	PurchaserID       string
	DeliveryNoteNo    string
	SupplierID        string
	ReceiverID        string
	State             State
	Lines             []StockInLine
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// StockInLine línea de una entrada. Su estado es el del documento padre.
type StockInLine struct {
	ID          string
	StockInID   string
	ProductID   string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	UnitMeasure string
}

// Cost costo total de la línea (Quantity * UnitCost).
func (l StockInLine) Cost() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost)
}

// TotalUnitCost suma de los costos unitarios de las líneas.
func (d *StockIn) TotalUnitCost() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.UnitCost)
	}
	return total
}

// TotalCost suma de los costos totales de las líneas.
func (d *StockIn) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.Cost())
	}
	return total
}

// ProductIDs productos referenciados por las líneas.
func (d *StockIn) ProductIDs() []string {
	ids := make([]string, 0, len(d.Lines))
	for _, l := range d.Lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

// Line busca una línea por ID.
func (d *StockIn) Line(lineID string) (*StockInLine, bool) {
	for i := range d.Lines {
		if d.Lines[i].ID == lineID {
			return &d.Lines[i], true
		}
	}
	return nil, false
}
