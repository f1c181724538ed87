package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo extendido con los saldos de inventario.
// Los campos de saldo son derivados: solo los escribe el agregador de saldos a partir
// de las líneas de entradas, salidas y ajustes.
type Product struct {
	ID           string
	Name         string
	DefaultCode  string  // referencia interna
	UnitMeasure  string
	DepartmentID string
	VariantID    *string // variante usada por compras; nil = sin variante
	Balance      StockBalance
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StockBalance agrupa los saldos derivados de un producto.
type StockBalance struct {
	Purchased        decimal.Decimal // entradas aprobadas
	Issued           decimal.Decimal // salidas despachadas
	Adjusted         decimal.Decimal // ajustes aprobados (con signo)
	BalanceStock     decimal.Decimal // Purchased - Issued - Adjusted
	QtyAvailable     decimal.Decimal // = BalanceStock (sin reservas)
	VirtualAvailable decimal.Decimal // = QtyAvailable (sin entradas previstas)
}

// HasVariant indica si el producto tiene variante para órdenes de compra.
func (p *Product) HasVariant() bool {
	return p.VariantID != nil && *p.VariantID != ""
}
