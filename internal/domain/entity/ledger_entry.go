package entity

import "github.com/shopspring/decimal"

// Tipos de documento del libro de inventario.
const (
	LedgerKindStockIn    = "stock_in"
	LedgerKindStockOut   = "stock_out"
	LedgerKindAdjustment = "adjustment"
)

// LedgerEntry vista plana de una línea de inventario con el estado de su documento padre.
// Es la entrada del agregador de saldos.
type LedgerEntry struct {
	Kind       string
	DocumentID string
	LineID     string
	ProductID  string
	State      State // estado del documento padre
	Quantity   decimal.Decimal
}
