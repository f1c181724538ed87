package repository

import (
	"context"

	"github.com/jhoicas/stockflow/internal/domain/entity"
)

// LedgerEntryRepository lectura de todas las líneas (entradas, salidas, ajustes) de un
// producto junto con el estado de su documento padre. Sin filtrar por estado.
type LedgerEntryRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]entity.LedgerEntry, error)
}
