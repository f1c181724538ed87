package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow/internal/domain/entity"
)

// Aggregate calcula los saldos de un producto a partir de todas sus líneas de inventario.
// Función pura: el resultado no depende del orden de las entradas y se puede recalcular
// cuantas veces sea necesario. Solo suman las líneas cuyo documento padre está en el
// estado que aporta al saldo de su tipo.
//
//	BalanceStock = Purchased - Issued - Adjusted
func Aggregate(entries []entity.LedgerEntry) entity.StockBalance {
	purchased := decimal.Zero
	issued := decimal.Zero
	adjusted := decimal.Zero

	for _, e := range entries {
		m, ok := MachineFor(e.Kind)
		if !ok || !m.Contributes(e.State) {
			continue
		}
		switch e.Kind {
		case entity.LedgerKindStockIn:
			purchased = purchased.Add(e.Quantity)
		case entity.LedgerKindStockOut:
			issued = issued.Add(e.Quantity)
		case entity.LedgerKindAdjustment:
			adjusted = adjusted.Add(e.Quantity)
		}
	}

	balance := purchased.Sub(issued).Sub(adjusted)
	return entity.StockBalance{
		Purchased:        purchased,
		Issued:           issued,
		Adjusted:         adjusted,
		BalanceStock:     balance,
		QtyAvailable:     balance,
		VirtualAvailable: balance,
	}
}
